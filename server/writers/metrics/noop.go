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
  simple "no op" reader that does nothing
*/

package metrics

import (
	smetrics "github.com/iksaif/graphite-datadog/server/schemas/metrics"
	"github.com/iksaif/graphite-datadog/server/schemas/repr"
	"github.com/iksaif/graphite-datadog/server/utils/options"
	"github.com/iksaif/graphite-datadog/server/writers/indexer"
	"golang.org/x/net/context"
)

type NoopMetrics struct {
	TracerMetrics
}

func NewNoopMetrics() *NoopMetrics {
	return new(NoopMetrics)
}

func (my *NoopMetrics) Driver() string                       { return "noop" }
func (my *NoopMetrics) Name() string                         { return "noop-metrics" }
func (my *NoopMetrics) Config(conf *options.Options) error   { return nil }
func (my *NoopMetrics) SetIndexer(idx indexer.Indexer) error { return nil }
func (my *NoopMetrics) Start()                               {}
func (my *NoopMetrics) Stop()                                {}

func (my *NoopMetrics) RawRender(ctx context.Context, path string, from int64, to int64, tags repr.SortingTags, resample uint32) ([]*smetrics.RawRenderItem, error) {
	return nil, ErrNotImplemented
}
