/*
Copyright 2018 Corentin Chary

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iksaif/graphite-datadog/server/config"
	"github.com/iksaif/graphite-datadog/server/stats"
	"github.com/iksaif/graphite-datadog/server/utils/shutdown"
	"github.com/iksaif/graphite-datadog/server/writers/api"
	logging "gopkg.in/op/go-logging.v1"
)

// compile passing -ldflags "-X main.Build <build sha1>"
var Build string

var log = logging.MustGetLogger("main")

func trapExit(conf *config.BaseConfig) {
	// trap kills to flush queues and close connections
	sc := make(chan os.Signal, 1)
	signal.Notify(sc,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	go func() {
		s := <-sc

		log.Warning("Caught %s: Closing API server out before quit", s)
		conf.Stop()

		// need to stop the statsd collection as well
		if stats.StatsdClient != nil {
			stats.StatsdClient.Close()
		}
		if stats.StatsdClientSlow != nil {
			stats.StatsdClientSlow.Close()
		}

		signal.Stop(sc)

		shutdown.WaitOnShutdown()
		os.Exit(0)
	}()
}

func main() {
	version := flag.Bool("version", false, "Print version and exit")
	configFile := flag.String("config", "", "Configuration file")
	loglevel := flag.String("loglevel", "", "Log Level (debug, info, warning, error, critical)")
	logfile := flag.String("logfile", "", "Log File (stdout, stderr, path/to/file)")

	flag.Parse()

	if *version {
		fmt.Printf("graphite-datadog version %s (%s)\n\n", api.VERSION, Build)
		os.Exit(0)
	}

	if len(*configFile) == 0 {
		flag.PrintDefaults()
		os.Exit(1)
	}

	conf, err := config.ParseConfigFile(*configFile)
	if err != nil {
		log.Critical("Error decoding config file: %s", err)
		os.Exit(1)
	}

	// overrides
	if len(*logfile) > 0 {
		conf.Logger.File = *logfile
	}
	if len(*loglevel) > 0 {
		conf.Logger.Level = *loglevel
	}

	trapExit(conf)

	// blocks until shutdown
	if err := conf.Start(); err != nil {
		log.Critical("%s", err)
		os.Exit(1)
	}
}
