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
   Config for the graphite-facing HTTP server

   example config
   [graphite-datadog.api]
        base_path = "/graphite/"
        listen = "0.0.0.0:8083"
        enable_gzip = true # default is FALSE here for GC issues on high volume
        key = "/path/to/key"
        cert = "/path/to/cert"

        [graphite-datadog.api.tracing]
        zipkin_url = "http://path.to.zipkin:9411/api/v1/spans"
        batch_size = 5
*/

package http

import (
	"fmt"
	"io"
	"time"

	"github.com/iksaif/graphite-datadog/server/utils/options"
	"github.com/iksaif/graphite-datadog/server/writers/indexer"
	"github.com/iksaif/graphite-datadog/server/writers/metrics"
	"github.com/lightstep/lightstep-tracer-go"
	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-client-go/transport/zipkin"
)

type ApiMetricConfig struct {
	Driver  string          `toml:"driver" json:"driver,omitempty" yaml:"driver"`
	Options options.Options `toml:"options"  json:"options,omitempty" yaml:"options"`
}

type ApiIndexerConfig struct {
	Driver  string          `toml:"driver"  json:"driver,omitempty" yaml:"driver"`
	Options options.Options `toml:"options"  json:"options,omitempty" yaml:"options"`
}

type ApiTracingConfig struct {
	ZipkinURL        string  `toml:"zipkin_url"  json:"zipkin-url,omitempty"  yaml:"zipkin_url"`
	JaegerHost       string  `toml:"jaeger_host"  json:"jaeger-host,omitempty"  yaml:"jaeger_host"`
	LightStepKey     string  `toml:"lightstep_key" json:"lightstep-key,omitempty"  yaml:"lightstep_key"`
	BatchSize        int     `toml:"batch_size"  json:"batch-size,omitempty"  yaml:"batch_size"`
	SamplesPerSecond float64 `toml:"samples_per_second"  json:"samples-per-second,omitempty"  yaml:"samples_per_second"`
	Name             string  `toml:"name"  json:"name,omitempty"  yaml:"name"`
}

// ApiConfig the main api server section
type ApiConfig struct {
	Listen            string           `toml:"listen"  json:"listen,omitempty" yaml:"listen"`
	Logfile           string           `toml:"log_file"  json:"log-file,omitempty" yaml:"log_file"`
	BasePath          string           `toml:"base_path"  json:"base-path,omitempty" yaml:"base_path"`
	EnableGzip        bool             `toml:"enable_gzip"  json:"enable-gzip,omitempty" yaml:"enable_gzip"`
	TLSKeyPath        string           `toml:"key"  json:"key,omitempty" yaml:"key"`
	TLSCertPath       string           `toml:"cert"  json:"cert,omitempty" yaml:"cert"`
	ApiMetricOptions  ApiMetricConfig  `toml:"metrics"  json:"metrics,omitempty" yaml:"metrics"`
	ApiIndexerOptions ApiIndexerConfig `toml:"indexer"  json:"indexer,omitempty" yaml:"indexer"`
	UseMetrics        string           `toml:"use_metrics"  json:"use-metrics,omitempty" yaml:"use_metrics"`
	UseIndexer        string           `toml:"use_indexer"  json:"use-indexer,omitempty" yaml:"use_indexer"`
	TracingOptions    ApiTracingConfig `toml:"tracing" json:"tracing,omitempty" yaml:"tracing"`
}

// GetMetrics creates a new metrics reader object
func (re *ApiConfig) GetMetrics() (metrics.Metrics, error) {
	if len(re.UseMetrics) > 0 {
		gots := metrics.GetMetrics(re.UseMetrics)
		if gots == nil {
			return nil, fmt.Errorf("Could not find %s in the metric registry", re.UseMetrics)
		}
		return gots, nil
	}

	reader, err := metrics.NewMetrics(re.ApiMetricOptions.Driver)
	if err != nil {
		return nil, err
	}
	if re.ApiMetricOptions.Options == nil {
		re.ApiMetricOptions.Options = options.New()
	}

	err = reader.Config(&re.ApiMetricOptions.Options)
	if err != nil {
		return nil, err
	}
	return reader, nil
}

// GetIndexer creates a new indexer object
func (re *ApiConfig) GetIndexer() (indexer.Indexer, error) {
	if len(re.UseIndexer) > 0 {
		gots := indexer.GetIndexer(re.UseIndexer)
		if gots == nil {
			return nil, fmt.Errorf("Could not find %s in the indexer registry", re.UseIndexer)
		}
		return gots, nil
	}

	idx, err := indexer.NewIndexer(re.ApiIndexerOptions.Driver)
	if err != nil {
		return nil, err
	}
	if re.ApiIndexerOptions.Options == nil {
		re.ApiIndexerOptions.Options = options.New()
	}
	err = idx.Config(&re.ApiIndexerOptions.Options)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func (re *ApiConfig) GetTracer() (tracer opentracing.Tracer, closer io.Closer, err error) {

	// can only have one of lightstep, zipkin or jaeger
	set := 0
	for _, o := range []string{re.TracingOptions.ZipkinURL, re.TracingOptions.LightStepKey, re.TracingOptions.JaegerHost} {
		if len(o) > 0 {
			set++
		}
	}
	if set > 1 {
		return nil, nil, fmt.Errorf("Can only have one of `lightstep_key`, `zipkin_url` or `jaeger_host`")
	}
	if set == 0 {
		return opentracing.NoopTracer{}, nil, nil
	}

	nm := re.TracingOptions.Name
	if len(nm) == 0 {
		nm = "graphite-datadog-api"
	}

	if len(re.TracingOptions.ZipkinURL) > 0 {
		batch := re.TracingOptions.BatchSize
		if batch <= 0 {
			batch = 5
		}

		// Jaeger tracer can be initialized with a transport that will
		// report tracing Spans to a Zipkin backend
		transport, err := zipkin.NewHTTPTransport(
			re.TracingOptions.ZipkinURL,
			zipkin.HTTPBatchSize(batch),
			zipkin.HTTPLogger(jaeger.StdLogger),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("Cannot initialize HTTP transport for tracing: %v", err)
		}

		// 0 means "sample all"
		samples := re.TracingOptions.SamplesPerSecond
		var sampler jaeger.Sampler
		if samples <= 0 {
			sampler = jaeger.NewConstSampler(true)
		} else {
			sampler = jaeger.NewRateLimitingSampler(samples)
		}

		tracer, closer = jaeger.NewTracer(
			nm,
			sampler,
			jaeger.NewRemoteReporter(transport),
		)
	}

	if len(re.TracingOptions.LightStepKey) > 0 {
		tracer = lightstep.NewTracer(lightstep.Options{
			AccessToken: re.TracingOptions.LightStepKey,
		})
	}

	if len(re.TracingOptions.JaegerHost) > 0 {
		// 0 means "sample all"
		samples := re.TracingOptions.SamplesPerSecond
		var sampler *jaegercfg.SamplerConfig
		if samples <= 0 {
			sampler = &jaegercfg.SamplerConfig{
				Type:  "const",
				Param: 1.0,
			}
		} else {
			sampler = &jaegercfg.SamplerConfig{
				Type:  "rateLimiting",
				Param: samples,
			}
		}

		cfg := jaegercfg.Configuration{
			Sampler: sampler,
			Reporter: &jaegercfg.ReporterConfig{
				LogSpans:            true,
				BufferFlushInterval: 1 * time.Second,
				LocalAgentHostPort:  re.TracingOptions.JaegerHost,
			},
		}

		tracer, closer, err = cfg.New(nm)
		if err != nil {
			return nil, nil, fmt.Errorf("Cannot initialize Jaeger transport for tracing: %v", err)
		}
	}

	opentracing.SetGlobalTracer(tracer)

	return tracer, closer, nil
}
