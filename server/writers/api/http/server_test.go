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

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	sindexer "github.com/iksaif/graphite-datadog/server/schemas/indexer"
	smetrics "github.com/iksaif/graphite-datadog/server/schemas/metrics"
	"github.com/iksaif/graphite-datadog/server/schemas/repr"
	"github.com/iksaif/graphite-datadog/server/utils/options"
	"github.com/iksaif/graphite-datadog/server/writers/indexer"
	"github.com/iksaif/graphite-datadog/server/writers/metrics"
	"github.com/opentracing/opentracing-go"
	"golang.org/x/net/context"
	logging "gopkg.in/op/go-logging.v1"
)

// a canned indexer so we can poke the handlers w/o a live backend

type fixedIndexer struct {
	indexer.TracerIndexer
}

func (f *fixedIndexer) Config(opts *options.Options) error { return nil }

func (f *fixedIndexer) Name() string { return "fixed" }
func (f *fixedIndexer) Start()       {}
func (f *fixedIndexer) Stop()        {}

func (f *fixedIndexer) Find(ctx context.Context, metric string, tags repr.SortingTags) (sindexer.MetricFindItems, error) {
	return sindexer.MetricFindItems{
		{Text: "cpu", Expandable: 1, AllowChildren: 1, Id: "system.cpu", Path: "system.cpu"},
		{Text: "load", Leaf: 1, Id: "system.load", Path: "system.load", UniqueId: "system.load"},
	}, nil
}

func (f *fixedIndexer) List(hasData bool, page int) (sindexer.MetricFindItems, error) {
	if page > 0 {
		return sindexer.MetricFindItems{}, nil
	}
	return sindexer.MetricFindItems{
		{Text: "load", Leaf: 1, Id: "system.load", Path: "system.load"},
	}, nil
}

func (f *fixedIndexer) Expand(metric string) (sindexer.MetricExpandItem, error) {
	return sindexer.MetricExpandItem{Results: []string{"system.cpu", "system.load"}}, nil
}

func (f *fixedIndexer) Write(name string, tags repr.SortingTags) error { return nil }

func (f *fixedIndexer) Delete(name string) error { return nil }

func (f *fixedIndexer) GetTagsByName(name string, page int) (sindexer.MetricTagItems, error) {
	return sindexer.MetricTagItems{{Name: "env", Value: "prod"}}, nil
}

func (f *fixedIndexer) GetTagsByNameValue(name string, value string, page int) (sindexer.MetricTagItems, error) {
	return sindexer.MetricTagItems{{Name: name, Value: value}}, nil
}

func (f *fixedIndexer) GetUidsByTags(key string, tags repr.SortingTags, page int) ([]string, error) {
	return []string{"web01"}, nil
}

type fixedMetrics struct {
	metrics.TracerMetrics
	idx indexer.Indexer
}

func (f *fixedMetrics) Driver() string { return "fixed" }
func (f *fixedMetrics) Name() string   { return "fixed" }

func (f *fixedMetrics) Config(opts *options.Options) error { return nil }

func (f *fixedMetrics) SetIndexer(idx indexer.Indexer) error {
	f.idx = idx
	return nil
}

func (f *fixedMetrics) Start() {}
func (f *fixedMetrics) Stop()  {}

func (f *fixedMetrics) RawRender(ctx context.Context, path string, from int64, to int64, tags repr.SortingTags, resample uint32) ([]*smetrics.RawRenderItem, error) {
	return []*smetrics.RawRenderItem{
		{
			Metric: path,
			Id:     path,
			Start:  uint32(from),
			End:    uint32(to),
			Step:   10,
			Data: []*smetrics.DataPoint{
				{Time: uint32(from), Value: 1.0},
				{Time: uint32(from) + 10, Value: 2.0},
			},
		},
	}, nil
}

func testApiLoop(t *testing.T) *ApiLoop {
	re := &ApiLoop{
		Metrics: new(fixedMetrics),
		Indexer: new(fixedIndexer),
		Tracer:  opentracing.NoopTracer{},
	}
	re.log = logging.MustGetLogger("api.http.test")
	re.Metrics.SetIndexer(re.Indexer)
	re.SetBasePath("/graphite/")
	re.RegisterHandlers(os.Stdout)
	return re
}

func TestApiFindHandler(t *testing.T) {
	re := testApiLoop(t)
	ts := httptest.NewServer(re.Mux)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/graphite/metrics/find?query=system.*")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var items sindexer.MetricFindItems
	if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].Text != "cpu" || items[0].AllowChildren != 1 {
		t.Errorf("branch item wrong: %+v", items[0])
	}
	if items[1].Leaf != 1 || items[1].Id != "system.load" {
		t.Errorf("leaf item wrong: %+v", items[1])
	}
}

func TestApiFindHandlerNoQuery(t *testing.T) {
	re := testApiLoop(t)
	ts := httptest.NewServer(re.Mux)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/graphite/metrics/find")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", res.StatusCode)
	}
}

func TestApiExpandHandler(t *testing.T) {
	re := testApiLoop(t)
	ts := httptest.NewServer(re.Mux)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/graphite/metrics/expand?query=system.*")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	var exp sindexer.MetricExpandItem
	if err := json.NewDecoder(res.Body).Decode(&exp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(exp.Results) != 2 || exp.Results[0] != "system.cpu" {
		t.Errorf("results = %v", exp.Results)
	}
}

func TestApiRenderHandler(t *testing.T) {
	re := testApiLoop(t)
	ts := httptest.NewServer(re.Mux)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/graphite/render?target=system.load&from=100000&to=100100")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}

	var items []struct {
		Target     string       `json:"target"`
		Datapoints [][2]float64 `json:"datapoints"`
	}
	if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].Target != "system.load" {
		t.Errorf("target = %q", items[0].Target)
	}
	if len(items[0].Datapoints) != 2 {
		t.Fatalf("datapoints = %d", len(items[0].Datapoints))
	}
	// datapoints are [value, time] tuples
	if items[0].Datapoints[0][0] != 1.0 || items[0].Datapoints[0][1] != 100000 {
		t.Errorf("datapoint = %v", items[0].Datapoints[0])
	}
}

func TestApiRenderHandlerNoTarget(t *testing.T) {
	re := testApiLoop(t)
	ts := httptest.NewServer(re.Mux)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/graphite/render")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", res.StatusCode)
	}
}

func TestApiTagHandlers(t *testing.T) {
	re := testApiLoop(t)
	ts := httptest.NewServer(re.Mux)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/graphite/tag/find/byname?name=env")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	var tags sindexer.MetricTagItems
	if err := json.NewDecoder(res.Body).Decode(&tags); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "env" {
		t.Errorf("tags = %+v", tags)
	}

	res2, err := http.Get(ts.URL + "/graphite/tag/uid/bytags?query=host{env=prod}")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res2.StatusCode)
	}
	var uids sindexer.UidList
	if err := json.NewDecoder(res2.Body).Decode(&uids); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(uids) != 1 || uids[0] != "web01" {
		t.Errorf("uids = %v", uids)
	}
}

func TestApiInfoHandlers(t *testing.T) {
	re := testApiLoop(t)
	ts := httptest.NewServer(re.Mux)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/graphite/ping")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	got := make(map[string]string)
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got["status"] != "ok" {
		t.Errorf("ping body = %v", got)
	}

	res2, err := http.Get(ts.URL + "/graphite/info")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res2.StatusCode)
	}
	var info map[string]interface{}
	if err := json.NewDecoder(res2.Body).Decode(&info); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if info["metric_driver"] != "fixed" {
		t.Errorf("info = %v", info)
	}
}

func TestApiYamlFormat(t *testing.T) {
	re := testApiLoop(t)
	ts := httptest.NewServer(re.Mux)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/graphite/metrics/find?query=system.*&format=yaml")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("content type = %q", ct)
	}
}

func TestSetBasePath(t *testing.T) {
	re := new(ApiLoop)
	re.SetBasePath("graphite")
	if re.Conf.BasePath != "/graphite/" {
		t.Errorf("base path = %q", re.Conf.BasePath)
	}
	re.SetBasePath("")
	if re.Conf.BasePath != "/" {
		t.Errorf("base path = %q", re.Conf.BasePath)
	}
}

func TestMinResolution(t *testing.T) {
	re := new(ApiLoop)

	if got := re.minResolution(0, 3600, 10); got != 10 {
		t.Errorf("step = %d", got)
	}
	// step smaller then the min gets bumped
	if got := re.minResolution(0, 3600, 0); got != DEFAULT_MIN_RESOLUTION {
		t.Errorf("step = %d", got)
	}
	// too many points gets resampled down
	span := int64(MAX_METRIC_POINTS) * 10
	if got := re.minResolution(0, span, 1); got != 10 {
		t.Errorf("step = %d", got)
	}
}

func TestParseConfigString(t *testing.T) {
	conf := `
listen = "127.0.0.1:8083"
base_path = "/graphite/"
log_file = "none"

[metrics]
driver = "noop"

[indexer]
driver = "noop"
`
	re, err := ParseConfigString(conf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if re.Conf.Listen != "127.0.0.1:8083" {
		t.Errorf("listen = %q", re.Conf.Listen)
	}
	if re.Conf.BasePath != "/graphite/" {
		t.Errorf("base path = %q", re.Conf.BasePath)
	}
	if re.Indexer.Name() != "noop-indexer" {
		t.Errorf("indexer = %q", re.Indexer.Name())
	}
	if !strings.Contains(re.Metrics.Driver(), "noop") {
		t.Errorf("metrics = %q", re.Metrics.Driver())
	}
}
