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

/*
   Fire up an HTTP server speaking the graphite-web remote finder
   protocol on top of the metrics/indexer interfaces

   example config
   [graphite-datadog.api]
        base_path = "/graphite/"
        listen = "0.0.0.0:8083"
            [graphite-datadog.api.metrics]
            driver = "datadog"
            [graphite-datadog.api.metrics.options]
            api_key = "$ENV{DATADOG_API_KEY}"
            app_key = "$ENV{DATADOG_APP_KEY}"

            [graphite-datadog.api.indexer]
            driver = "datadog"
            [graphite-datadog.api.indexer.options]
            api_key = "$ENV{DATADOG_API_KEY}"
            app_key = "$ENV{DATADOG_APP_KEY}"
*/

package http

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	golog "log"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gorilla/mux"
	"github.com/iksaif/graphite-datadog/server/stats"
	"github.com/iksaif/graphite-datadog/server/utils/shutdown"
	"github.com/iksaif/graphite-datadog/server/utils/tomlenv"
	"github.com/iksaif/graphite-datadog/server/writers/indexer"
	"github.com/iksaif/graphite-datadog/server/writers/metrics"
	"github.com/opentracing-contrib/go-stdlib/nethttp"
	"github.com/opentracing/opentracing-go"
	otlog "github.com/opentracing/opentracing-go/log"
	"github.com/tinylib/msgp/msgp"
	"golang.org/x/net/context"
	logging "gopkg.in/op/go-logging.v1"
	"gopkg.in/yaml.v2"
)

const MAX_METRIC_POINTS uint32 = 20480
const DEFAULT_MIN_RESOLUTION uint32 = 1

type ApiLoop struct {
	Conf    ApiConfig       // our config
	Metrics metrics.Metrics // metrics interface
	Indexer indexer.Indexer // indexer interface
	Router  *mux.Router     // main router
	Mux     *http.ServeMux  // outer mux w/ the middlewares attached

	Tracer      opentracing.Tracer
	TraceCloser io.Closer

	shutitdown chan bool
	log        *logging.Logger

	started bool
}

func ParseConfigString(inconf string) (rl *ApiLoop, err error) {
	rl = new(ApiLoop)
	if _, err := tomlenv.Decode(inconf, &rl.Conf); err != nil {
		return nil, err
	}

	if err = rl.Config(rl.Conf); err != nil {
		return nil, err
	}
	return rl, nil
}

func (re *ApiLoop) Config(conf ApiConfig) (err error) {
	if re.log == nil {
		re.log = logging.MustGetLogger("api.http")
	}

	if re.shutitdown == nil {
		re.shutitdown = make(chan bool, 1)
	}

	if conf.Logfile == "" {
		conf.Logfile = "stdout"
	}
	re.Conf = conf

	re.Metrics, err = conf.GetMetrics()
	if err != nil {
		return err
	}

	re.Indexer, err = conf.GetIndexer()
	if err != nil {
		return err
	}
	re.Metrics.SetIndexer(re.Indexer)
	re.SetBasePath(conf.BasePath)

	// set up tracing
	re.Tracer, re.TraceCloser, err = conf.GetTracer()

	return err
}

// GetSpan helper for get a span from the tracer
func (re *ApiLoop) GetSpan(name string, req *http.Request) (opentracing.Span, context.Context) {
	ctx := req.Context()
	var parentCtx opentracing.SpanContext
	parentSpan := opentracing.SpanFromContext(ctx)
	if parentSpan != nil {
		parentCtx = parentSpan.Context()
	}

	span := re.Tracer.StartSpan(name, opentracing.ChildOf(parentCtx))
	span.SetTag("span.kind", "server")
	span.SetTag("component", "graphite-datadog-api")

	return span, ctx
}

// AddSpanLog for opentracing add a span log field
func (re *ApiLoop) AddSpanLog(span opentracing.Span, tag string, msg string) {
	span.LogFields(otlog.String(tag, msg))
}

// AddSpanEvent for opentracing add a span log field
func (re *ApiLoop) AddSpanEvent(span opentracing.Span, msg string) {
	span.LogFields(otlog.String("event", msg))
}

// AddSpanError for opentracing add error log + field
func (re *ApiLoop) AddSpanError(span opentracing.Span, err error) {
	span.SetTag("error", true)
	span.LogFields(
		otlog.String("event", "error"),
		otlog.String("message", err.Error()),
	)
}

// SpanStartEnd a generic "timer" like event for things returns a function to "defer"
// i.e. `defer api.SpanStartEnd(span)()`
func (re *ApiLoop) SpanStartEnd(span opentracing.Span) func() {
	re.AddSpanEvent(span, "started")
	return func() {
		re.AddSpanEvent(span, "ended")
		span.Finish()
	}
}

func (re *ApiLoop) SetBasePath(pth string) {
	re.Conf.BasePath = pth
	if len(re.Conf.BasePath) == 0 {
		re.Conf.BasePath = "/"
	}
	if !strings.HasSuffix(re.Conf.BasePath, "/") {
		re.Conf.BasePath += "/"
	}
	if !strings.HasPrefix(re.Conf.BasePath, "/") {
		re.Conf.BasePath = "/" + re.Conf.BasePath
	}
}

func (re *ApiLoop) OutError(w http.ResponseWriter, msg string, code int) {
	defer stats.StatsdClient.Incr("api.http.errors", 1)
	w.Header().Set("Cache-Control", "private, max-age=0, no-cache")
	w.Header().Set("Content-Type", "text/plain")
	http.Error(w, msg, code)
	re.log.Error(msg)
}

func (re *ApiLoop) OutOk(w http.ResponseWriter, data interface{}, format string) {
	switch format {
	case "msgpack":
		w.Header().Set("X-Graphite-Datadog-Compress", "false")
		d, ok := data.(msgp.Encodable)
		if !ok {
			re.OutError(w, "object does not have a msgpack encoder", http.StatusServiceUnavailable)
			return
		}
		re.OutMsgpack(w, d)
	case "yaml":
		re.OutYaml(w, data)
	default:
		re.OutJson(w, data)
	}
}

// OutJson generic output in json formats
func (re *ApiLoop) OutJson(w http.ResponseWriter, data interface{}) {

	// trap any encoding issues here
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("Json Out Render Err: %v", r)
			re.log.Critical(msg)
			re.OutError(w, msg, http.StatusInternalServerError)
			debug.PrintStack()
			return
		}
	}()

	// cache theses things for 60 secs
	defer stats.StatsdClient.Incr("api.http.ok", 1)
	w.Header().Set("Cache-Control", "public, max-age=60, cache")
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(data)
}

// OutYaml generic output in yaml formats
// not recommended for anything related to metrics values as it's a much more
// expensive writer then msgpack
func (re *ApiLoop) OutYaml(w http.ResponseWriter, data interface{}) {

	// trap any encoding issues here
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("Yaml Out Render Err: %v", r)
			re.log.Critical(msg)
			re.OutError(w, msg, http.StatusInternalServerError)
			debug.PrintStack()
			return
		}
	}()

	// cache theses things for 60 secs
	defer stats.StatsdClient.Incr("api.http.ok", 1)
	w.Header().Set("Cache-Control", "public, max-age=60, cache")
	w.Header().Set("Content-Type", "application/yaml")

	bs, err := yaml.Marshal(data)
	if err != nil {
		msg := fmt.Sprintf("Yaml Out Render Err: %v", err)
		re.log.Critical(msg)
		re.OutError(w, msg, http.StatusInternalServerError)
		return
	}
	w.Write(bs)
}

func (re *ApiLoop) OutMsgpack(w http.ResponseWriter, data msgp.Encodable) {

	// trap any encoding issues here
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("Msgpack Out Render Err: %v", r)
			re.log.Critical(msg)
			re.OutError(w, msg, http.StatusInternalServerError)
			debug.PrintStack()
			return
		}
	}()

	// cache theses things for 60 secs
	defer stats.StatsdClient.Incr("api.http.msgpack.ok", 1)
	w.Header().Set("Cache-Control", "public, max-age=60, cache")
	w.Header().Set("Content-Type", "application/x-msgpack")

	wr := msgp.NewWriter(w)
	err := data.EncodeMsg(wr)

	if err != nil {
		msg := fmt.Sprintf("OutMsgpack encode error: %s", err)
		re.log.Critical(msg)
		re.OutError(w, msg, http.StatusInternalServerError)
		return
	}
	wr.Flush()
}

func (re *ApiLoop) NoOp(w http.ResponseWriter, r *http.Request) {
	golog.Printf("No handler for this URL %s", r.URL)
	base := re.Conf.BasePath
	http.Error(w,
		fmt.Sprintf(
			"Nothing here .. try %sfind, %srender, %sexpand, %slist",
			base, base, base, base,
		),
		http.StatusNotFound,
	)
}

// based on the min resolution, figure out the real min "resample" to match the max points allowed
func (re *ApiLoop) minResolution(start int64, end int64, curStep uint32) uint32 {
	useMin := curStep
	if DEFAULT_MIN_RESOLUTION > useMin {
		useMin = DEFAULT_MIN_RESOLUTION
	}
	curPts := uint32(end-start) / useMin
	if curPts > MAX_METRIC_POINTS {
		return uint32(end-start) / MAX_METRIC_POINTS
	}
	return useMin
}

func (re *ApiLoop) RegisterHandlers(logfile *os.File) (*mux.Router, *http.ServeMux) {
	re.Router = mux.NewRouter()
	base := re.Router.PathPrefix(re.Conf.BasePath).Subrouter()

	NewFindAPI(re).AddHandlers(base)
	NewMetricsAPI(re).AddHandlers(base)
	NewTagAPI(re).AddHandlers(base)
	NewInfoAPI(re).AddHandlers(base)

	re.Mux = http.NewServeMux()

	// Compression can cause a lot of GC pressure on high request rates, the
	// default is off due to this fact
	if re.Conf.EnableGzip {
		re.Mux.Handle("/", WriteLog(CompressHandler(CorsHandler(base)), logfile))
	} else {
		re.Mux.Handle("/", WriteLog(CorsHandler(base), logfile))
	}

	return re.Router, re.Mux
}

func (re *ApiLoop) Start() error {
	re.log.Notice("Starting api http server on %s, base path: %s", re.Conf.Listen, re.Conf.BasePath)

	var outlog *os.File
	var err error
	if re.Conf.Logfile == "stderr" {
		outlog = os.Stderr
	} else if re.Conf.Logfile == "stdout" {
		outlog = os.Stdout
	} else if re.Conf.Logfile != "none" {
		outlog, err = os.OpenFile(re.Conf.Logfile, os.O_APPEND|os.O_WRONLY, 0666)
		if err != nil {
			golog.Panicf("Could not open Logfile %s, setting to stdout", re.Conf.Logfile)
			outlog = os.Stdout
		}
	}

	var conn net.Listener

	// certs if needed
	if len(re.Conf.TLSKeyPath) > 0 && len(re.Conf.TLSCertPath) > 0 {
		cer, err := tls.LoadX509KeyPair(re.Conf.TLSCertPath, re.Conf.TLSKeyPath)
		if err != nil {
			golog.Panicf("Could not start https server: %v", err)
			return err
		}
		// proper TLS settings for modern times
		config := &tls.Config{
			Certificates:             []tls.Certificate{cer},
			MinVersion:               tls.VersionTLS12,
			CurvePreferences:         []tls.CurveID{tls.CurveP521, tls.CurveP384, tls.CurveP256},
			PreferServerCipherSuites: true,
			CipherSuites: []uint16{
				tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA,
				tls.TLS_RSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_RSA_WITH_AES_256_CBC_SHA,
			},
		}
		conn, err = tls.Listen("tcp", re.Conf.Listen, config)
		if err != nil {
			return fmt.Errorf("Could not make http socket: %s", err)
		}
	} else {
		tcpAddr, err := net.ResolveTCPAddr("tcp", re.Conf.Listen)
		if err != nil {
			return fmt.Errorf("Error resolving: %s", err)
		}
		conn, err = net.ListenTCP("tcp", tcpAddr)
		if err != nil {
			return fmt.Errorf("Could not make http socket: %s", err)
		}
	}

	// upstream our tracer
	re.Indexer.SetTracer(re.Tracer)
	re.Metrics.SetTracer(re.Tracer)

	re.Indexer.Start()
	re.Metrics.Start()

	re.RegisterHandlers(outlog)

	go http.Serve(conn, nethttp.Middleware(re.Tracer, re.Mux))

	re.started = true

	<-re.shutitdown

	if re.TraceCloser != nil {
		re.TraceCloser.Close()
	}
	conn.Close()
	re.Metrics.Stop()
	re.Indexer.Stop()
	golog.Print("Shutdown finished for API http server...")
	return nil
}

func (re *ApiLoop) Stop() {
	shutdown.AddToShutdown()
	defer shutdown.ReleaseFromShutdown()

	re.log.Warning("Shutting down API servers")

	if re.shutitdown != nil {
		re.shutitdown <- true
	}
}
