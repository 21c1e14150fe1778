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
	Datadog indexer

	the datadog api has no notion of a metric "tree", just a flat list of
	active metric names, so we pull the active set for a trailing window
	(/api/v1/metrics?from=...), infer the directories from the name
	components and glob filter the lot

	pretty inefficient for big accounts, when the first path components
	are literal we narrow the pull w/ the search api instead

	tag calls are mapped onto datadog host tags (/api/v1/tags/hosts)

	OPTIONS

		[graphite-datadog.api.indexer]
		driver="datadog"
		[graphite-datadog.api.indexer.options]
		api_key="XXXX"
		app_key="XXXX"
		# api_host="https://api.datadoghq.com"
		# timeout="30s"
		# only metrics active in this last window are indexed
		# find_window="1h"
		# use the search api when the query prefix is literal
		# use_search=true
*/

package indexer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iksaif/graphite-datadog/server/datadog"
	sindexer "github.com/iksaif/graphite-datadog/server/schemas/indexer"
	"github.com/iksaif/graphite-datadog/server/schemas/repr"
	"github.com/iksaif/graphite-datadog/server/stats"
	"github.com/iksaif/graphite-datadog/server/utils"
	"github.com/iksaif/graphite-datadog/server/utils/options"
	"golang.org/x/net/context"
	logging "gopkg.in/op/go-logging.v1"
)

const DATADOG_DEFAULT_WINDOW = time.Hour

// DatadogIndexer the main indexer object
type DatadogIndexer struct {
	TracerIndexer

	cli       *datadog.Client
	window    time.Duration
	useSearch bool

	startstop utils.StartStop
	log       *logging.Logger
}

func NewDatadogIndexer() *DatadogIndexer {
	dd := new(DatadogIndexer)
	dd.log = logging.MustGetLogger("indexer.datadog")
	return dd
}

func (dd *DatadogIndexer) Config(conf *options.Options) error {
	cli, err := datadog.NewFromOptions(conf)
	if err != nil {
		return err
	}
	dd.cli = cli
	dd.window = conf.Duration("find_window", DATADOG_DEFAULT_WINDOW)
	dd.useSearch = conf.Bool("use_search", true)
	return nil
}

func (dd *DatadogIndexer) Name() string { return "datadog-indexer" }

func (dd *DatadogIndexer) Start() {
	dd.startstop.Start(func() {
		dd.log.Notice("starting datadog indexer: host=%s window=%s", dd.cli.Host(), dd.window)

		// a bad key will make every query 403, better to know up front
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := dd.cli.Validate(ctx); err != nil {
			dd.log.Warning("datadog credential check failed: %v", err)
		}
	})
}

func (dd *DatadogIndexer) Stop() {
	dd.startstop.Stop(func() {
		dd.log.Notice("shutting down datadog indexer")
	})
}

// Write the datadog api can only be written via the agent/submit channels
func (dd *DatadogIndexer) Write(name string, tags repr.SortingTags) error {
	return ErrNotImplemented
}

// Delete there is nothing to delete, items fall out of the active
// window on their own
func (dd *DatadogIndexer) Delete(name string) error {
	return nil
}

// activeMetrics the raw name list for the trailing window, narrowed w/
// the search api when the query starts w/ literal components
func (dd *DatadogIndexer) activeMetrics(ctx context.Context, pattern string) ([]string, error) {
	if dd.useSearch {
		if prefix := firstNonGlobSegment(pattern); len(prefix) > 0 {
			res, err := dd.cli.SearchMetrics(ctx, prefix)
			if err == nil && len(res.Results.Metrics) > 0 {
				stats.StatsdClientSlow.Incr("indexer.datadog.search.hits", 1)
				return res.Results.Metrics, nil
			}
			// the search api is best effort, fall back to the full list
			if err != nil {
				dd.log.Warning("datadog search failed, falling back to metric list: %v", err)
			}
		}
	}

	from := time.Now().Add(-dd.window).Unix()
	res, err := dd.cli.ListActiveMetrics(ctx, from)
	if err != nil {
		return nil, err
	}
	return res.Metrics, nil
}

// directoriesOf infer the intermediate paths from a flat name list
func directoriesOf(metrics []string) []string {
	seen := make(map[string]bool)
	dirs := []string{}
	for _, metric := range metrics {
		components := strings.Split(metric, ".")
		for i := 1; i < len(components); i++ {
			dir := strings.Join(components[:i], ".")
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs
}

func lastComponent(path string) string {
	spl := strings.Split(path, ".")
	return spl[len(spl)-1]
}

// Find the graphite /metrics/find endpoint worker, branches first then
// leaves, a name can be both (a.b w/ data and a.b.c present)
func (dd *DatadogIndexer) Find(ctx context.Context, metric string, tags repr.SortingTags) (sindexer.MetricFindItems, error) {
	sp, closer := dd.GetSpan("Find", ctx)
	sp.LogKV("driver", "datadog", "metric", metric)
	defer closer()

	defer stats.StatsdSlowNanoTimeFunc("indexer.datadog.find.get-time-ns", time.Now())

	if !validGlob(metric) {
		return nil, fmt.Errorf("invalid find query `%s`", metric)
	}

	// a find target can be a comma list (but not a {moo,goo} glob)
	var dirs, leafs []string
	for _, pattern := range splitMetricsPath(metric) {
		metrics, err := dd.activeMetrics(ctx, pattern)
		if err != nil {
			stats.StatsdClientSlow.Incr("indexer.datadog.find.errors", 1)
			return nil, err
		}

		d, err := globFilter(directoriesOf(metrics), pattern)
		if err != nil {
			return nil, err
		}
		l, err := globFilter(metrics, pattern)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d...)
		leafs = append(leafs, l...)
	}

	items := make(sindexer.MetricFindItems, 0, len(dirs)+len(leafs))
	seen := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		if seen[dir] {
			continue
		}
		seen[dir] = true
		items = append(items, &sindexer.MetricFindItem{
			Text:          lastComponent(dir),
			Id:            dir,
			Path:          dir,
			Expandable:    1,
			AllowChildren: 1,
		})
	}
	for _, leaf := range leafs {
		if seen["*"+leaf] {
			continue
		}
		seen["*"+leaf] = true
		items = append(items, &sindexer.MetricFindItem{
			Text:     lastComponent(leaf),
			Id:       leaf,
			Path:     leaf,
			UniqueId: leaf,
			Leaf:     1,
		})
	}

	stats.StatsdClientSlow.Incr("indexer.datadog.find.hits", int64(len(items)))
	return items, nil
}

// Expand the graphite /metrics/expand endpoint worker, matching paths
// only, no leaf/branch markers
func (dd *DatadogIndexer) Expand(metric string) (sindexer.MetricExpandItem, error) {
	var out sindexer.MetricExpandItem

	defer stats.StatsdSlowNanoTimeFunc("indexer.datadog.expand.get-time-ns", time.Now())

	if !validGlob(metric) {
		return out, fmt.Errorf("invalid expand query `%s`", metric)
	}

	ctx := context.Background()
	metrics, err := dd.activeMetrics(ctx, metric)
	if err != nil {
		return out, err
	}

	dirs, err := globFilter(directoriesOf(metrics), metric)
	if err != nil {
		return out, err
	}
	leafs, err := globFilter(metrics, metric)
	if err != nil {
		return out, err
	}

	seen := make(map[string]bool)
	for _, nm := range append(dirs, leafs...) {
		if seen[nm] {
			continue
		}
		seen[nm] = true
		out.Results = append(out.Results, nm)
	}
	sort.Strings(out.Results)
	return out, nil
}

// List all active leaf paths, paged
func (dd *DatadogIndexer) List(hasData bool, page int) (sindexer.MetricFindItems, error) {
	defer stats.StatsdSlowNanoTimeFunc("indexer.datadog.list.get-time-ns", time.Now())

	from := time.Now().Add(-dd.window).Unix()
	res, err := dd.cli.ListActiveMetrics(context.Background(), from)
	if err != nil {
		return nil, err
	}
	metrics := res.Metrics
	sort.Strings(metrics)

	start := page * MAX_PER_PAGE
	if start >= len(metrics) {
		return sindexer.MetricFindItems{}, nil
	}
	end := start + MAX_PER_PAGE
	if end > len(metrics) {
		end = len(metrics)
	}

	items := make(sindexer.MetricFindItems, 0, end-start)
	for _, metric := range metrics[start:end] {
		items = append(items, &sindexer.MetricFindItem{
			Text:     lastComponent(metric),
			Id:       metric,
			Path:     metric,
			UniqueId: metric,
			Leaf:     1,
		})
	}
	return items, nil
}

// hostTags the full host tag map, tag string -> hosts
func (dd *DatadogIndexer) hostTags(ctx context.Context) (map[string][]string, error) {
	res, err := dd.cli.AllHostTags(ctx)
	if err != nil {
		return nil, err
	}
	return res.Tags, nil
}

// GetTagsByName find tag names matching the input, name can be a regex-ish glob
func (dd *DatadogIndexer) GetTagsByName(name string, page int) (sindexer.MetricTagItems, error) {
	defer stats.StatsdSlowNanoTimeFunc("indexer.datadog.tagsbyname.get-time-ns", time.Now())

	all, err := dd.hostTags(context.Background())
	if err != nil {
		return nil, err
	}

	var matcher func(string) bool
	if needRegex(name) {
		reged, err := regifyGlob(name)
		if err != nil {
			return nil, err
		}
		matcher = reged.MatchString
	} else {
		matcher = func(s string) bool { return s == name }
	}

	tgs := make([]string, 0, len(all))
	for tg := range all {
		tgs = append(tgs, tg)
	}
	sort.Strings(tgs)

	items := make(sindexer.MetricTagItems, 0)
	for _, tg := range tgs {
		parsed := repr.SortingTagsFromDatadog([]string{tg})
		for _, t := range *parsed {
			if matcher(t.Name) {
				items = append(items, &sindexer.MetricTagItem{Name: t.Name, Value: t.Value})
			}
		}
	}
	return pageTagItems(items, page), nil
}

// GetTagsByNameValue find tags matching name and value, value can be a regex-ish glob
func (dd *DatadogIndexer) GetTagsByNameValue(name string, value string, page int) (sindexer.MetricTagItems, error) {
	defer stats.StatsdSlowNanoTimeFunc("indexer.datadog.tagsbynamevalue.get-time-ns", time.Now())

	byName, err := dd.GetTagsByName(name, 0)
	if err != nil {
		return nil, err
	}

	var matcher func(string) bool
	if needRegex(value) {
		reged, err := regifyGlob(value)
		if err != nil {
			return nil, err
		}
		matcher = reged.MatchString
	} else {
		matcher = func(s string) bool { return s == value }
	}

	items := make(sindexer.MetricTagItems, 0)
	for _, t := range byName {
		if matcher(t.Value) {
			items = append(items, t)
		}
	}
	return pageTagItems(items, page), nil
}

// GetUidsByTags hosts carrying all the given tags, the "uid" on the
// datadog side of the fence is the host name
func (dd *DatadogIndexer) GetUidsByTags(key string, tags repr.SortingTags, page int) ([]string, error) {
	defer stats.StatsdSlowNanoTimeFunc("indexer.datadog.uidsbytags.get-time-ns", time.Now())

	if tags.IsEmpty() {
		return nil, fmt.Errorf("need at least one tag")
	}

	all, err := dd.hostTags(context.Background())
	if err != nil {
		return nil, err
	}

	var hosts []string
	for i, tg := range tags {
		onHosts := all[tg.Join(repr.COLON_SEPARATOR)]
		if i == 0 {
			hosts = append([]string{}, onHosts...)
			continue
		}
		keep := make(map[string]bool, len(onHosts))
		for _, h := range onHosts {
			keep[h] = true
		}
		filtered := hosts[:0]
		for _, h := range hosts {
			if keep[h] {
				filtered = append(filtered, h)
			}
		}
		hosts = filtered
	}
	sort.Strings(hosts)

	start := page * MAX_PER_PAGE
	if start >= len(hosts) {
		return []string{}, nil
	}
	end := start + MAX_PER_PAGE
	if end > len(hosts) {
		end = len(hosts)
	}
	return hosts[start:end], nil
}

func pageTagItems(items sindexer.MetricTagItems, page int) sindexer.MetricTagItems {
	start := page * MAX_PER_PAGE
	if start >= len(items) {
		return sindexer.MetricTagItems{}
	}
	end := start + MAX_PER_PAGE
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
