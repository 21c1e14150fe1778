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
  Indexer readers

  map the graphite metric tree calls (find, expand, list, tags) onto
  whatever backend actually knows the metric names
*/

package indexer

import (
	"errors"

	"github.com/iksaif/graphite-datadog/server/schemas/indexer"
	"github.com/iksaif/graphite-datadog/server/schemas/repr"
	"github.com/iksaif/graphite-datadog/server/utils/options"
	"github.com/opentracing/opentracing-go"
	"golang.org/x/net/context"
)

const MAX_PER_PAGE = 2048

// ErrNotImplemented the backend does not do this operation
var ErrNotImplemented = errors.New("Not implemented")

// ErrWillNotBeimplemented the backend cannot ever do this operation
var ErrWillNotBeimplemented = errors.New("Will not be implemented")

// Indexer this interface is for all the various backend indexers
type Indexer interface {

	// Config set up the indexer from the config section options
	Config(*options.Options) error

	// Name some identifier mostly used for logs
	Name() string

	// SetTracer set the tracer object, will be used in API/get calls
	SetTracer(t opentracing.Tracer)

	// GetSpan start a tracer named span from context
	GetSpan(name string, ctx context.Context) (opentracing.Span, func())

	// Find returns a graphite like json (or other) response for a find query
	// /metrics/find/?query=stats.counters.goo.moo.*
	/*
		[
			{
			text: "accumulator",
			expandable: 1,
			leaf: 0,
			id: "stats.counters.goo.moo.accumulator",
			allowChildren: 1
			}
		]
	*/
	Find(ctx context.Context, metric string, tags repr.SortingTags) (indexer.MetricFindItems, error)

	// List list all "paths" w/ data
	List(hasData bool, page int) (indexer.MetricFindItems, error)

	// Expand another graphite like function to expand a tree
	// /metrics/expand?query=stats.counters.goo.moo.*
	Expand(metric string) (indexer.MetricExpandItem, error)

	// Start fire up the indexer
	Start()

	// Stop all processing
	Stop()

	// Write add a name to the index
	// not all backends may implement this
	Write(name string, tags repr.SortingTags) error

	// Delete remove an item from the index
	// not all backends may implement this
	Delete(name string) error

	// GetTagsByName the incoming can be a Regex of sorts on the name
	// not all backends may implement this
	GetTagsByName(name string, page int) (indexer.MetricTagItems, error)

	// GetTagsByNameValue the incoming can be a Regex of sorts on the value
	// not all backends may implement this
	GetTagsByNameValue(name string, value string, page int) (indexer.MetricTagItems, error)

	// GetUidsByTags given some tags, grab all the matching names
	// not all backends may implement this
	GetUidsByTags(key string, tags repr.SortingTags, page int) ([]string, error)
}
