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

/** main daemon config, the ambient bits + the api section **/

package config

import (
	"github.com/iksaif/graphite-datadog/server/utils/tomlenv"
	api "github.com/iksaif/graphite-datadog/server/writers/api/http"
)

type BaseConfig struct {
	System  SystemConfig  `toml:"system" json:"system,omitempty" yaml:"system"`
	Logger  LogConfig     `toml:"log" json:"log,omitempty" yaml:"log"`
	Profile ProfileConfig `toml:"profile" json:"profile,omitempty" yaml:"profile"`
	Statsd  StatsdConfig  `toml:"statsd" json:"statsd,omitempty" yaml:"statsd"`
	Health  HealthConfig  `toml:"health" json:"health,omitempty" yaml:"health"`

	Api api.ApiConfig `toml:"api" json:"api,omitempty" yaml:"api"`

	apiLoop *api.ApiLoop
}

func ParseConfigFile(filename string) (cfg *BaseConfig, err error) {
	cfg = new(BaseConfig)
	if _, err := tomlenv.DecodeFile(filename, cfg); err != nil {
		log.Critical("Error decoding config file: %s", err)
		return nil, err
	}
	return cfg, nil
}

func (c *BaseConfig) BaseStart() error {
	c.Logger.Start()
	c.System.Start()
	c.Statsd.Start()
	c.Profile.Start()
	c.Health.Start()
	return nil
}

// Start set up the ambient pieces then run the api loop, blocks until
// the api is shut down
func (c *BaseConfig) Start() error {
	if err := c.BaseStart(); err != nil {
		return err
	}

	c.apiLoop = new(api.ApiLoop)
	if err := c.apiLoop.Config(c.Api); err != nil {
		return err
	}
	return c.apiLoop.Start()
}

func (c *BaseConfig) Stop() {
	if c.apiLoop != nil {
		c.apiLoop.Stop()
	}
}
