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
	Datadog metrics reader

	the render path goes through the datadog query api
	(/api/v1/query?from=...&to=...&query=avg:name{scope})

	a graphite target is a bare metric name, datadog queries want an
	aggregator and a scope, so "system.cpu.idle" becomes
	"avg:system.cpu.idle{*}" unless the target already carries them

	the query api hands back a pointlist on its own (sometimes uneven)
	interval, we re-quantize onto the step grid so graphite gets the
	nil-padded list it expects

	OPTIONS

		[graphite-datadog.api.metrics]
		driver="datadog"
		[graphite-datadog.api.metrics.options]
		api_key="XXXX"
		app_key="XXXX"
		# api_host="https://api.datadoghq.com"
		# timeout="30s"
		# default aggregator when the target does not name one
		# aggregator="avg"
*/

package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/iksaif/graphite-datadog/server/datadog"
	smetrics "github.com/iksaif/graphite-datadog/server/schemas/metrics"
	"github.com/iksaif/graphite-datadog/server/schemas/repr"
	"github.com/iksaif/graphite-datadog/server/stats"
	"github.com/iksaif/graphite-datadog/server/utils"
	"github.com/iksaif/graphite-datadog/server/utils/options"
	"github.com/iksaif/graphite-datadog/server/writers/indexer"
	"golang.org/x/net/context"
	logging "gopkg.in/op/go-logging.v1"
)

// the aggregators the datadog query language knows about
var datadogAggregators = []string{"avg", "sum", "min", "max", "last"}

const DATADOG_DEFAULT_AGGREGATOR = "avg"

// DatadogMetrics the main reader object
type DatadogMetrics struct {
	TracerMetrics

	cli        *datadog.Client
	indexer    indexer.Indexer
	aggregator string

	startstop utils.StartStop
	log       *logging.Logger
}

func NewDatadogMetrics() *DatadogMetrics {
	dd := new(DatadogMetrics)
	dd.log = logging.MustGetLogger("reader.datadog")
	return dd
}

func (dd *DatadogMetrics) Driver() string { return "datadog" }
func (dd *DatadogMetrics) Name() string   { return "datadog-metrics" }

func (dd *DatadogMetrics) Config(conf *options.Options) error {
	cli, err := datadog.NewFromOptions(conf)
	if err != nil {
		return err
	}

	agg := conf.String("aggregator", DATADOG_DEFAULT_AGGREGATOR)
	ok := false
	for _, a := range datadogAggregators {
		if a == agg {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("invalid aggregator `%s` (want one of %s)", agg, strings.Join(datadogAggregators, ", "))
	}

	dd.cli = cli
	dd.aggregator = agg
	return nil
}

func (dd *DatadogMetrics) SetIndexer(idx indexer.Indexer) error {
	dd.indexer = idx
	return nil
}

func (dd *DatadogMetrics) Start() {
	dd.startstop.Start(func() {
		dd.log.Notice("starting datadog reader: host=%s aggregator=%s", dd.cli.Host(), dd.aggregator)
	})
}

func (dd *DatadogMetrics) Stop() {
	dd.startstop.Stop(func() {
		dd.log.Notice("shutting down datadog reader")
	})
}

// hasAggregator does the target already name a datadog aggregator
func hasAggregator(target string) bool {
	idx := strings.Index(target, ":")
	if idx <= 0 {
		return false
	}
	pref := target[:idx]
	for _, a := range datadogAggregators {
		if a == pref {
			return true
		}
	}
	return false
}

// datadogQuery a graphite target into the datadog query language
func (dd *DatadogMetrics) datadogQuery(target string, tags repr.SortingTags) string {
	query := target
	if !hasAggregator(query) {
		query = dd.aggregator + ":" + query
	}
	if !strings.Contains(query, "{") {
		scope := "*"
		if !tags.IsEmpty() {
			scope = tags.DatadogString()
		}
		query = query + "{" + scope + "}"
	}
	return query
}

// seriesTarget the name we hand back up as the graphite target
func seriesTarget(ser *datadog.Series) string {
	if ser.Scope == "" || ser.Scope == "*" {
		return ser.Metric
	}
	return ser.Metric + "{" + ser.Scope + "}"
}

// toRenderItem one datadog series into the internal render object
func toRenderItem(ser *datadog.Series, id string, from int64, to int64, resample uint32) *smetrics.RawRenderItem {
	rawd := &smetrics.RawRenderItem{
		Metric:  seriesTarget(ser),
		Id:      id,
		Start:   uint32(from),
		End:     uint32(to),
		AggFunc: ser.Aggr,
		Step:    uint32(ser.Interval),
	}
	if rawd.Step == 0 {
		rawd.Step = 1
	}
	if resample > 0 && resample > rawd.Step {
		rawd.Step = resample
	}
	if ser.Scope != "" && ser.Scope != "*" {
		rawd.Tags = *repr.SortingTagsFromDatadog(strings.Split(ser.Scope, ","))
	}

	for _, pt := range ser.Pointlist {
		if len(pt) < 2 || pt[0] == nil || pt[1] == nil {
			// datadog nils out missing slots, quantize will re-add them
			continue
		}
		t := uint32(*pt[0] / 1000.0) // ms epoch on the wire
		rawd.Data = append(rawd.Data, &smetrics.DataPoint{Time: t, Value: *pt[1]})
	}

	if len(rawd.Data) > 0 {
		rawd.RealStart = rawd.Data[0].Time
		rawd.RealEnd = rawd.Data[len(rawd.Data)-1].Time
	}
	rawd.Quantize()
	return rawd
}

// RawRender the /render worker, a path can be a comma list of targets
func (dd *DatadogMetrics) RawRender(ctx context.Context, path string, from int64, to int64, tags repr.SortingTags, resample uint32) ([]*smetrics.RawRenderItem, error) {
	sp, closer := dd.GetSpan("RawRender", ctx)
	sp.LogKV("driver", "datadog", "path", path, "from", from, "to", to)
	defer closer()

	defer stats.StatsdSlowNanoTimeFunc("reader.datadog.rawrender.get-time-ns", time.Now())

	if to <= from {
		return nil, fmt.Errorf("rawrender: time span is invalid (from=%d to=%d)", from, to)
	}

	var raws []*smetrics.RawRenderItem
	for _, target := range SplitNamesByComma(path) {
		query := dd.datadogQuery(target, tags)
		res, err := dd.cli.QuerySeries(ctx, from, to, query)
		if err != nil {
			stats.StatsdClientSlow.Incr("reader.datadog.rawrender.errors", 1)
			return nil, err
		}
		for _, ser := range res.Series {
			raws = append(raws, toRenderItem(ser, target, from, to, resample))
		}
	}

	stats.StatsdClientSlow.Incr("reader.datadog.rawrender.series", int64(len(raws)))
	return raws, nil
}
