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

package datadog

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iksaif/graphite-datadog/server/utils/options"
	"golang.org/x/net/context"
)

func fakeAPI(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	checkAuth := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("DD-API-KEY") != "apikey" || r.Header.Get("DD-APPLICATION-KEY") != "appkey" {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"errors": ["Forbidden"]}`)
			return false
		}
		return true
	}

	mux.HandleFunc("/api/v1/metrics", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		if r.URL.Query().Get("from") == "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"errors": ["from is required"]}`)
			return
		}
		fmt.Fprint(w, `{"from": "100", "metrics": ["system.cpu.idle", "system.load.1"]}`)
	})

	mux.HandleFunc("/api/v1/search", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		q := r.URL.Query().Get("q")
		if !strings.HasPrefix(q, "metrics:") {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"errors": ["bad facet"]}`)
			return
		}
		fmt.Fprint(w, `{"results": {"metrics": ["system.cpu.idle"], "hosts": []}}`)
	})

	mux.HandleFunc("/api/v1/query", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		// a 200 w/ an errors blob, the api really does this
		if r.URL.Query().Get("query") == "bad:query{*}" {
			fmt.Fprint(w, `{"status": "error", "errors": ["cannot parse query"]}`)
			return
		}
		fmt.Fprint(w, `{
			"status": "ok",
			"series": [{
				"metric": "system.cpu.idle",
				"scope": "host:web01",
				"interval": 10,
				"pointlist": [[100000000, 90.0], [100010000, null]]
			}]
		}`)
	})

	mux.HandleFunc("/api/v1/tags/hosts/web01", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		fmt.Fprint(w, `{"tags": ["env:prod", "role:web"]}`)
	})

	mux.HandleFunc("/api/v1/tags/hosts", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		fmt.Fprint(w, `{"tags": {"env:prod": ["web01", "web02"]}}`)
	})

	mux.HandleFunc("/api/v1/validate", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(w, r) {
			return
		}
		fmt.Fprint(w, `{"valid": true}`)
	})

	return httptest.NewServer(mux)
}

func testClient(t *testing.T, ts *httptest.Server) *Client {
	cli, err := New(ts.URL, "apikey", "appkey")
	if err != nil {
		t.Fatalf("client failed: %v", err)
	}
	return cli
}

func TestClientNew(t *testing.T) {
	if _, err := New("", "", "app"); err == nil {
		t.Errorf("expected error on missing api_key")
	}
	if _, err := New("", "api", ""); err == nil {
		t.Errorf("expected error on missing app_key")
	}
	cli, err := New("", "api", "app")
	if err != nil {
		t.Fatalf("client failed: %v", err)
	}
	if cli.Host() != DEFAULT_API_HOST {
		t.Errorf("host = %q", cli.Host())
	}
}

func TestClientNewFromOptions(t *testing.T) {
	opts := options.New()
	opts.Set("api_key", "apikey")
	opts.Set("app_key", "appkey")
	opts.Set("api_host", "https://api.datadoghq.eu")

	cli, err := NewFromOptions(&opts)
	if err != nil {
		t.Fatalf("client failed: %v", err)
	}
	if cli.Host() != "https://api.datadoghq.eu" {
		t.Errorf("host = %q", cli.Host())
	}

	missing := options.New()
	missing.Set("app_key", "appkey")
	if _, err = NewFromOptions(&missing); err == nil {
		t.Errorf("expected error on missing api_key")
	}
}

func TestClientListActiveMetrics(t *testing.T) {
	ts := fakeAPI(t)
	defer ts.Close()
	cli := testClient(t, ts)

	res, err := cli.ListActiveMetrics(context.Background(), 100)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(res.Metrics) != 2 || res.Metrics[0] != "system.cpu.idle" {
		t.Errorf("metrics = %v", res.Metrics)
	}
}

func TestClientSearchMetrics(t *testing.T) {
	ts := fakeAPI(t)
	defer ts.Close()
	cli := testClient(t, ts)

	res, err := cli.SearchMetrics(context.Background(), "system.cpu")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res.Results.Metrics) != 1 {
		t.Errorf("results = %v", res.Results.Metrics)
	}
}

func TestClientQuerySeries(t *testing.T) {
	ts := fakeAPI(t)
	defer ts.Close()
	cli := testClient(t, ts)

	res, err := cli.QuerySeries(context.Background(), 100000, 100100, "avg:system.cpu.idle{*}")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(res.Series) != 1 {
		t.Fatalf("series = %d", len(res.Series))
	}
	ser := res.Series[0]
	if ser.Metric != "system.cpu.idle" || ser.Scope != "host:web01" || ser.Interval != 10 {
		t.Errorf("series = %+v", ser)
	}
	if len(ser.Pointlist) != 2 {
		t.Fatalf("pointlist = %d", len(ser.Pointlist))
	}
	if *ser.Pointlist[0][0] != 100000000 || *ser.Pointlist[0][1] != 90.0 {
		t.Errorf("point = %v", ser.Pointlist[0])
	}
	// null value slot comes back as a nil pointer
	if ser.Pointlist[1][1] != nil {
		t.Errorf("expected nil value, got %v", *ser.Pointlist[1][1])
	}
}

func TestClientErrorsWithOkStatus(t *testing.T) {
	ts := fakeAPI(t)
	defer ts.Close()
	cli := testClient(t, ts)

	_, err := cli.QuerySeries(context.Background(), 100000, 100100, "bad:query{*}")
	if err == nil {
		t.Fatalf("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if len(apiErr.Errors) != 1 || !strings.Contains(apiErr.Error(), "cannot parse query") {
		t.Errorf("err = %v", apiErr)
	}
}

func TestClientBadCredentials(t *testing.T) {
	ts := fakeAPI(t)
	defer ts.Close()

	cli, err := New(ts.URL, "wrong", "wrong")
	if err != nil {
		t.Fatalf("client failed: %v", err)
	}
	_, err = cli.ListActiveMetrics(context.Background(), 100)
	if err == nil {
		t.Fatalf("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Error(), "Forbidden") {
		t.Errorf("err = %v", apiErr)
	}
}

func TestClientHostTags(t *testing.T) {
	ts := fakeAPI(t)
	defer ts.Close()
	cli := testClient(t, ts)

	res, err := cli.HostTags(context.Background(), "web01")
	if err != nil {
		t.Fatalf("host tags failed: %v", err)
	}
	if len(res.Tags) != 2 || res.Tags[0] != "env:prod" {
		t.Errorf("tags = %v", res.Tags)
	}

	all, err := cli.AllHostTags(context.Background())
	if err != nil {
		t.Fatalf("all tags failed: %v", err)
	}
	if hosts := all.Tags["env:prod"]; len(hosts) != 2 {
		t.Errorf("hosts = %v", hosts)
	}
}

func TestClientValidate(t *testing.T) {
	ts := fakeAPI(t)
	defer ts.Close()
	cli := testClient(t, ts)

	if err := cli.Validate(context.Background()); err != nil {
		t.Errorf("validate failed: %v", err)
	}
}
