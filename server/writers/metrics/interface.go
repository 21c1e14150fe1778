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
   Readers of stats

   We mimic the Graphite API json blobs throughout the process here
   such that we can hook this in directly to graphite-api/web

   NOTE: this is not a full graphite DSL, just paths and raw points, we
   leave the fancy functions inside graphite-api/web to work their magic
*/

package metrics

import (
	"errors"

	smetrics "github.com/iksaif/graphite-datadog/server/schemas/metrics"
	"github.com/iksaif/graphite-datadog/server/schemas/repr"
	"github.com/iksaif/graphite-datadog/server/utils/options"
	"github.com/iksaif/graphite-datadog/server/writers/indexer"
	"github.com/opentracing/opentracing-go"
	"golang.org/x/net/context"
	logging "gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("metrics")

// ErrNotImplemented the backend does not do this operation
var ErrNotImplemented = errors.New("Not implemented")

// Metrics the reader interface for all the various data backends
type Metrics interface {
	// SetTracer set the tracer object, will be used in API/get calls
	SetTracer(t opentracing.Tracer)

	// GetSpan start a tracer named span from context
	GetSpan(name string, ctx context.Context) (opentracing.Span, func())

	// Driver the name of the driver
	Driver() string

	// Name of the reader, for the registry
	Name() string

	// Config configure the reader
	Config(*options.Options) error

	// SetIndexer need an Indexer 99% of the time to deal with render
	SetIndexer(indexer.Indexer) error

	// RawRender the /render worker, a path can be a glob or a comma list
	RawRender(ctx context.Context, path string, from int64, to int64, tags repr.SortingTags, resample uint32) ([]*smetrics.RawRenderItem, error)

	// Start fire up the reader
	Start()

	// Stop all processing
	Stop()
}
