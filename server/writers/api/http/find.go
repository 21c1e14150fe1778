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

   Http handlers for the "find me a metric" please

*/

package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	sapi "github.com/iksaif/graphite-datadog/server/schemas/api"
	sindexer "github.com/iksaif/graphite-datadog/server/schemas/indexer"
	"github.com/iksaif/graphite-datadog/server/stats"
	"github.com/iksaif/graphite-datadog/server/writers/indexer"
	"github.com/iksaif/graphite-datadog/server/writers/metrics"
	"github.com/opentracing/opentracing-go"
)

type FindAPI struct {
	a       *ApiLoop
	indexer indexer.Indexer
	metrics metrics.Metrics
}

func NewFindAPI(a *ApiLoop) *FindAPI {
	return &FindAPI{
		a:       a,
		indexer: a.Indexer,
		metrics: a.Metrics,
	}
}

func (f *FindAPI) AddHandlers(mux *mux.Router) {
	// the graphite-web remote finder paths
	mux.HandleFunc("/metrics/find/", f.Find)
	mux.HandleFunc("/metrics/find", f.Find)
	mux.HandleFunc("/metrics/expand/", f.Expand)
	mux.HandleFunc("/metrics/expand", f.Expand)

	// graphite-api style short names
	mux.HandleFunc("/find", f.Find)
	mux.HandleFunc("/paths", f.Find)
	mux.HandleFunc("/expand", f.Expand)

	mux.HandleFunc("/list", f.List)
}

func (f *FindAPI) spanLog(span opentracing.Span, args sapi.IndexQuery) {
	span.LogKV(
		"target", args.Query,
		"tags", args.Tags,
		"has_data", args.HasData,
	)
}

// Find metrics from the indexer from an input query
func (f *FindAPI) Find(w http.ResponseWriter, r *http.Request) {
	defer stats.StatsdSlowNanoTimeFunc("api.http.find.get-time-ns", time.Now())
	stats.StatsdClientSlow.Incr("api.http.find.hits", 1)

	span, ctx := f.a.GetSpan("Find", r)
	defer f.a.SpanStartEnd(span)()

	r.ParseForm()

	args, err := ParseFindQuery(r)
	if err != nil {
		f.a.AddSpanError(span, err)
		f.a.OutError(w, fmt.Sprintf("%v", err), http.StatusBadRequest)
		return
	}
	f.spanLog(span, args)

	if len(args.Query) == 0 {
		f.a.AddSpanError(span, fmt.Errorf("query/target param is required"))
		f.a.OutError(w, "Query is required", http.StatusBadRequest)
		return
	}

	data, err := f.indexer.Find(ctx, args.Query, args.Tags)
	if err != nil {
		f.a.AddSpanError(span, err)
		stats.StatsdClientSlow.Incr("api.http.find.errors", 1)
		f.a.OutError(w, fmt.Sprintf("%v", err), http.StatusServiceUnavailable)
		return
	}
	stats.StatsdClientSlow.Incr("api.http.find.ok", 1)
	f.a.OutOk(w, data, args.Format)
}

func (f *FindAPI) Expand(w http.ResponseWriter, r *http.Request) {
	span, _ := f.a.GetSpan("Expand", r)
	defer f.a.SpanStartEnd(span)()

	defer stats.StatsdSlowNanoTimeFunc("api.http.expand.get-time-ns", time.Now())
	stats.StatsdClientSlow.Incr("api.http.expand.hits", 1)
	r.ParseForm()

	query := strings.TrimSpace(r.FormValue("query"))
	format := r.FormValue("format")
	if len(format) == 0 {
		format = "json"
	}

	if len(query) == 0 {
		f.a.OutError(w, "Query is required", http.StatusBadRequest)
		return
	}

	data, err := f.indexer.Expand(query)
	if err != nil {
		f.a.AddSpanError(span, err)
		stats.StatsdClientSlow.Incr("api.http.expand.errors", 1)
		f.a.OutError(w, fmt.Sprintf("%v", err), http.StatusServiceUnavailable)
		return
	}
	stats.StatsdClientSlow.Incr("api.http.expand.ok", 1)
	f.a.OutOk(w, &data, format)
}

func (f *FindAPI) List(w http.ResponseWriter, r *http.Request) {
	span, _ := f.a.GetSpan("List", r)
	defer f.a.SpanStartEnd(span)()

	defer stats.StatsdSlowNanoTimeFunc("api.http.list.get-time-ns", time.Now())
	stats.StatsdClientSlow.Incr("api.http.list.hits", 1)

	args, err := ParseFindQuery(r)
	if err != nil {
		f.a.AddSpanError(span, err)
		f.a.OutError(w, fmt.Sprintf("%v", err), http.StatusBadRequest)
		return
	}
	f.spanLog(span, args)

	datas, err := f.indexer.List(args.HasData, int(args.Page))
	if err != nil {
		stats.StatsdClientSlow.Incr("api.http.list.errors", 1)
		f.a.AddSpanError(span, err)
		f.a.OutError(w, fmt.Sprintf("%v", err), http.StatusServiceUnavailable)
		return
	}
	if datas == nil {
		f.a.AddSpanLog(span, "nodata", "true")
		f.a.OutError(w, "No data found", http.StatusNoContent)
		return
	}
	res := []string{}
	for _, data := range datas {
		res = append(res, data.Path)
	}
	stats.StatsdClientSlow.Incr("api.http.list.ok", 1)
	f.a.OutOk(w, sindexer.MetricListItems(res), args.Format)
}
