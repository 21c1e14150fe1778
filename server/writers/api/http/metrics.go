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
   Get Metrics Handlers
*/

package http

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	sapi "github.com/iksaif/graphite-datadog/server/schemas/api"
	smetrics "github.com/iksaif/graphite-datadog/server/schemas/metrics"
	"github.com/iksaif/graphite-datadog/server/stats"
	"github.com/iksaif/graphite-datadog/server/writers/indexer"
	"github.com/iksaif/graphite-datadog/server/writers/metrics"
	"github.com/opentracing/opentracing-go"
	"golang.org/x/net/context"
)

type MetricsAPI struct {
	a       *ApiLoop
	Indexer indexer.Indexer
	Metrics metrics.Metrics
}

func NewMetricsAPI(a *ApiLoop) *MetricsAPI {
	return &MetricsAPI{
		a:       a,
		Indexer: a.Indexer,
		Metrics: a.Metrics,
	}
}

func (m *MetricsAPI) AddHandlers(mux *mux.Router) {
	// the graphite-web render path
	mux.HandleFunc("/render", m.GraphiteRender)
	mux.HandleFunc("/render/", m.GraphiteRender)
	mux.HandleFunc("/metrics", m.GraphiteRender)

	// the raw internal blobs
	mux.HandleFunc("/rawrender", m.RawRender)
}

func (re *MetricsAPI) GetMetrics(ctx context.Context, args sapi.MetricQuery) ([]*smetrics.RawRenderItem, error) {
	stp := re.a.minResolution(args.Start, args.End, args.Step)
	target := args.Target
	if len(args.Agg) > 0 {
		target = args.Agg + ":" + target
	}
	return re.Metrics.RawRender(ctx, target, args.Start, args.End, args.Tags, stp)
}

func (re *MetricsAPI) spanLog(span opentracing.Span, args sapi.MetricQuery) {
	span.LogKV(
		"target", args.Target,
		"tags", args.Tags,
		"start", args.Start,
		"end", args.End,
		"format", args.Format,
		"agg", args.Agg,
		"step", args.Step,
	)
}

// ToGraphiteApiRender take rawrender items and make the graphite-api json format
func (re *MetricsAPI) ToGraphiteApiRender(rawData []*smetrics.RawRenderItem) smetrics.GraphiteApiItems {
	graphite := make(smetrics.GraphiteApiItems, 0)

	if rawData == nil {
		return nil
	}

	for _, data := range rawData {
		if data == nil {
			continue
		}
		gItem := new(smetrics.GraphiteApiItem)
		gItem.Target = data.Metric
		gItem.Datapoints = data.Data
		graphite = append(graphite, gItem)
	}
	sort.Sort(graphite)
	return graphite
}

// GraphiteRender the graphite-api delivered format (aka grafana friendly)
func (re *MetricsAPI) GraphiteRender(w http.ResponseWriter, r *http.Request) {

	span, ctx := re.a.GetSpan("GraphiteRender", r)
	defer re.a.SpanStartEnd(span)()

	defer stats.StatsdSlowNanoTimeFunc("api.http.graphite-render.get-time-ns", time.Now())
	stats.StatsdClientSlow.Incr("api.http.graphite-render.hits", 1)

	args, err := ParseMetricQuery(r)
	if err != nil {
		re.a.AddSpanError(span, err)
		re.a.OutError(w, fmt.Sprintf("%v", err), http.StatusBadRequest)
		return
	}
	re.spanLog(span, args)

	data, err := re.GetMetrics(ctx, args)
	if err != nil {
		stats.StatsdClientSlow.Incr("api.http.graphite-render.errors", 1)
		re.a.AddSpanError(span, err)
		re.a.OutError(w, fmt.Sprintf("%v", err), http.StatusServiceUnavailable)
		return
	}
	if len(data) == 0 {
		stats.StatsdClientSlow.Incr("api.http.graphite-render.nodata", 1)
		re.a.AddSpanLog(span, "nodata", args.String())
		re.a.OutError(w, "No data found", http.StatusNoContent)
		return
	}

	renderData := re.ToGraphiteApiRender(data)

	stats.StatsdClientSlow.Incr("api.http.graphite-render.ok", 1)
	re.a.OutOk(w, renderData, args.Format)
}

// RawRender the internal raw series, mostly for debugging
func (re *MetricsAPI) RawRender(w http.ResponseWriter, r *http.Request) {

	defer stats.StatsdSlowNanoTimeFunc("api.http.rawrender.get-time-ns", time.Now())
	stats.StatsdClientSlow.Incr("api.http.rawrender.hits", 1)

	span, ctx := re.a.GetSpan("RawRender", r)
	defer re.a.SpanStartEnd(span)()

	args, err := ParseMetricQuery(r)
	if err != nil {
		re.a.AddSpanError(span, err)
		re.a.OutError(w, fmt.Sprintf("%v", err), http.StatusBadRequest)
		return
	}
	re.spanLog(span, args)

	data, err := re.GetMetrics(ctx, args)
	if err != nil {
		stats.StatsdClientSlow.Incr("api.http.rawrender.error", 1)
		re.a.AddSpanError(span, err)
		re.a.OutError(w, fmt.Sprintf("%v", err), http.StatusServiceUnavailable)
		return
	}

	if data == nil {
		stats.StatsdClientSlow.Incr("api.http.rawrender.nodata", 1)
		re.a.AddSpanLog(span, "nodata", args.String())
		re.a.OutError(w, "No data found", http.StatusNoContent)
		return
	}

	stats.StatsdClientSlow.Incr("api.http.rawrender.ok", 1)
	re.a.OutJson(w, smetrics.RawRenderItems(data))
}
