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

package metrics

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iksaif/graphite-datadog/server/schemas/repr"
	"github.com/iksaif/graphite-datadog/server/utils/options"
	"golang.org/x/net/context"
)

func fakeQueryAPI(t *testing.T, gotQueries *[]string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/query", func(w http.ResponseWriter, r *http.Request) {
		if gotQueries != nil {
			*gotQueries = append(*gotQueries, r.URL.Query().Get("query"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"series": []map[string]interface{}{
				{
					"metric":   "system.cpu.idle",
					"scope":    "host:web01",
					"interval": 10,
					"aggr":     "avg",
					"start":    100000,
					"end":      100040,
					"pointlist": [][]interface{}{
						{100000000.0, 90.0},
						{100010000.0, 91.5},
						// a hole at 100020
						{100030000.0, nil},
						{100040000.0, 93.0},
					},
				},
			},
		})
	})
	return httptest.NewServer(mux)
}

func testDatadogMetrics(t *testing.T, ts *httptest.Server) *DatadogMetrics {
	conf := options.New()
	conf.Set("api_key", "test-api-key")
	conf.Set("app_key", "test-app-key")
	conf.Set("api_host", ts.URL)

	dd := NewDatadogMetrics()
	if err := dd.Config(&conf); err != nil {
		t.Fatalf("config failed: %v", err)
	}
	return dd
}

func TestDatadogQueryBuilding(t *testing.T) {
	ts := fakeQueryAPI(t, nil)
	defer ts.Close()
	dd := testDatadogMetrics(t, ts)

	tests := []struct {
		target string
		tags   repr.SortingTags
		want   string
	}{
		{"system.cpu.idle", nil, "avg:system.cpu.idle{*}"},
		{"sum:system.cpu.idle", nil, "sum:system.cpu.idle{*}"},
		{"system.cpu.idle{host:web01}", nil, "avg:system.cpu.idle{host:web01}"},
		{"system.cpu.idle", *repr.SortingTagsFromDatadog([]string{"env:prod"}), "avg:system.cpu.idle{env:prod}"},
	}
	for _, tst := range tests {
		if got := dd.datadogQuery(tst.target, tst.tags); got != tst.want {
			t.Errorf("datadogQuery(%q) = %q, want %q", tst.target, got, tst.want)
		}
	}
}

func TestDatadogMetricsConfigBadAggregator(t *testing.T) {
	ts := fakeQueryAPI(t, nil)
	defer ts.Close()

	conf := options.New()
	conf.Set("api_key", "k")
	conf.Set("app_key", "k")
	conf.Set("api_host", ts.URL)
	conf.Set("aggregator", "p95")

	dd := NewDatadogMetrics()
	if err := dd.Config(&conf); err == nil {
		t.Errorf("expected invalid aggregator error")
	}
}

func TestDatadogMetricsRawRender(t *testing.T) {
	var queries []string
	ts := fakeQueryAPI(t, &queries)
	defer ts.Close()
	dd := testDatadogMetrics(t, ts)

	raws, err := dd.RawRender(context.Background(), "system.cpu.idle", 100000, 100040, nil, 0)
	if err != nil {
		t.Fatalf("rawrender failed: %v", err)
	}
	if len(queries) != 1 || queries[0] != "avg:system.cpu.idle{*}" {
		t.Errorf("queries sent = %v", queries)
	}
	if len(raws) != 1 {
		t.Fatalf("got %d series, want 1", len(raws))
	}

	raw := raws[0]
	if raw.Metric != "system.cpu.idle{host:web01}" {
		t.Errorf("metric = %q", raw.Metric)
	}
	if raw.Id != "system.cpu.idle" {
		t.Errorf("id = %q", raw.Id)
	}
	if raw.Step != 10 {
		t.Errorf("step = %d, want 10", raw.Step)
	}
	if raw.RealStart != 100000 || raw.RealEnd != 100040 {
		t.Errorf("real bounds = %d..%d", raw.RealStart, raw.RealEnd)
	}
	if raw.Tags.Get("host") != "web01" {
		t.Errorf("tags = %v", raw.Tags)
	}

	// quantized onto the 10s grid, nil-padded holes
	if len(raw.Data) != 5 {
		t.Fatalf("got %d points, want 5", len(raw.Data))
	}
	if raw.Data[0].Value != 90.0 || raw.Data[1].Value != 91.5 || raw.Data[4].Value != 93.0 {
		t.Errorf("values = %v", raw.Data)
	}
	if !math.IsNaN(raw.Data[2].Value) || !math.IsNaN(raw.Data[3].Value) {
		t.Errorf("holes should be NaN: %v", raw.Data)
	}
}

func TestDatadogMetricsRawRenderBadSpan(t *testing.T) {
	ts := fakeQueryAPI(t, nil)
	defer ts.Close()
	dd := testDatadogMetrics(t, ts)

	if _, err := dd.RawRender(context.Background(), "system.cpu.idle", 200, 100, nil, 0); err == nil {
		t.Errorf("expected invalid time span error")
	}
}

func TestSplitNamesByComma(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a.b.c", []string{"a.b.c"}},
		{"a.b,c.d", []string{"a.b", "c.d"}},
		{"a.{b,c}.d", []string{"a.{b,c}.d"}},
	}
	for _, tst := range tests {
		got := SplitNamesByComma(tst.in)
		if len(got) != len(tst.want) {
			t.Errorf("SplitNamesByComma(%q) = %v, want %v", tst.in, got, tst.want)
			continue
		}
		for i := range got {
			if got[i] != tst.want[i] {
				t.Errorf("SplitNamesByComma(%q) = %v, want %v", tst.in, got, tst.want)
			}
		}
	}
}

func TestNewMetricsRegistry(t *testing.T) {
	mets, err := NewMetrics("datadog")
	if err != nil {
		t.Fatalf("new datadog metrics: %v", err)
	}
	if mets.Driver() != "datadog" {
		t.Errorf("driver = %q", mets.Driver())
	}
	if err := RegisterMetrics("test-dd", mets); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := GetMetrics("test-dd"); got != mets {
		t.Errorf("registry did not return the registered reader")
	}
}
