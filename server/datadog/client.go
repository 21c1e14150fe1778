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
	The Datadog v1 api client.

	Just the read side: list/search metric names, fetch points, host tags.
	Credentials ride in the DD-API-KEY/DD-APPLICATION-KEY headers.

	There is deliberately no retry loop in here, the api is the system of
	record and the graphite host decides what to do when we 5xx.
*/

package datadog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iksaif/graphite-datadog/server/stats"
	"github.com/iksaif/graphite-datadog/server/utils/options"
	"golang.org/x/net/context"
	logging "gopkg.in/op/go-logging.v1"
)

const (
	// DEFAULT_API_HOST the main US endpoint
	DEFAULT_API_HOST = "https://api.datadoghq.com"
	// DEFAULT_TIMEOUT per call
	DEFAULT_TIMEOUT = 30 * time.Second

	apiKeyHeader = "DD-API-KEY"
	appKeyHeader = "DD-APPLICATION-KEY"
)

// Client talks to the Datadog HTTP api
type Client struct {
	apiHost string
	apiKey  string
	appKey  string

	hcli *http.Client
	log  *logging.Logger
}

// New a client w/ explicit credentials
func New(apiHost string, apiKey string, appKey string) (*Client, error) {
	if len(apiKey) == 0 {
		return nil, fmt.Errorf("api_key is required")
	}
	if len(appKey) == 0 {
		return nil, fmt.Errorf("app_key is required")
	}
	if len(apiHost) == 0 {
		apiHost = DEFAULT_API_HOST
	}
	if _, err := url.Parse(apiHost); err != nil {
		return nil, fmt.Errorf("bad api_host: %v", err)
	}

	cli := &Client{
		apiHost: apiHost,
		apiKey:  apiKey,
		appKey:  appKey,
		hcli:    &http.Client{Timeout: DEFAULT_TIMEOUT},
		log:     logging.MustGetLogger("datadog.client"),
	}
	return cli, nil
}

// NewFromOptions a client from a config options map
//
//	api_key = "..."  (required)
//	app_key = "..."  (required)
//	api_host = "https://api.datadoghq.com"
//	timeout = "30s"
func NewFromOptions(conf *options.Options) (*Client, error) {
	apiKey, err := conf.StringRequired("api_key")
	if err != nil {
		return nil, err
	}
	appKey, err := conf.StringRequired("app_key")
	if err != nil {
		return nil, err
	}

	cli, err := New(conf.String("api_host", DEFAULT_API_HOST), apiKey, appKey)
	if err != nil {
		return nil, err
	}
	cli.hcli.Timeout = conf.Duration("timeout", DEFAULT_TIMEOUT)
	return cli, nil
}

// SetHTTPClient swap the underlying http client (tests, custom transports)
func (c *Client) SetHTTPClient(h *http.Client) {
	c.hcli = h
}

// Host the api endpoint in use
func (c *Client) Host() string {
	return c.apiHost
}

// do a GET against an api path and decode the json body into out,
// sniffing the "errors" array the api likes to hand back w/ a 200
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out errorCarrier) error {
	u := c.apiHost + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set(appKeyHeader, c.appKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hcli.Do(req)
	if err != nil {
		stats.StatsdClientSlow.Incr("datadog.api.get.errors", 1)
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		stats.StatsdClientSlow.Incr("datadog.api.get.errors", 1)
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// the api usually explains itself in the body
		var eb baseResponse
		if jerr := json.Unmarshal(body, &eb); jerr == nil {
			apiErr.Errors = eb.Errors
		}
		c.log.Errorf("GET %s: %v", path, apiErr)
		return apiErr
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: bad json: %v", path, err)
	}

	if errs := out.apiErrors(); len(errs) > 0 {
		stats.StatsdClientSlow.Incr("datadog.api.get.errors", 1)
		return &APIError{StatusCode: resp.StatusCode, Errors: errs}
	}
	stats.StatsdClientSlow.Incr("datadog.api.get.ok", 1)
	return nil
}

// ListActiveMetrics all metric names w/ points since the given epoch
func (c *Client) ListActiveMetrics(ctx context.Context, fromEpoch int64) (*MetricListResponse, error) {
	defer stats.StatsdSlowNanoTimeFunc("datadog.api.metrics.list.get-time-ns", time.Now())

	params := url.Values{}
	params.Set("from", strconv.FormatInt(fromEpoch, 10))

	res := new(MetricListResponse)
	if err := c.getJSON(ctx, "/api/v1/metrics", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// SearchMetrics server side substring search on metric names
func (c *Client) SearchMetrics(ctx context.Context, q string) (*SearchResponse, error) {
	defer stats.StatsdSlowNanoTimeFunc("datadog.api.search.get-time-ns", time.Now())

	params := url.Values{}
	params.Set("q", "metrics:"+q)

	res := new(SearchResponse)
	if err := c.getJSON(ctx, "/api/v1/search", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// QuerySeries points for a datadog query string (i.e. `avg:system.cpu.user{*}`)
// between two epochs
func (c *Client) QuerySeries(ctx context.Context, from int64, to int64, query string) (*SeriesResponse, error) {
	defer stats.StatsdSlowNanoTimeFunc("datadog.api.query.get-time-ns", time.Now())

	params := url.Values{}
	params.Set("from", strconv.FormatInt(from, 10))
	params.Set("to", strconv.FormatInt(to, 10))
	params.Set("query", query)

	res := new(SeriesResponse)
	if err := c.getJSON(ctx, "/api/v1/query", params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// HostTags the tags on one host
func (c *Client) HostTags(ctx context.Context, host string) (*HostTagsResponse, error) {
	defer stats.StatsdSlowNanoTimeFunc("datadog.api.tags.host.get-time-ns", time.Now())

	res := new(HostTagsResponse)
	if err := c.getJSON(ctx, "/api/v1/tags/hosts/"+url.PathEscape(host), nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

// AllHostTags the tag -> hosts map for the whole org
func (c *Client) AllHostTags(ctx context.Context) (*AllTagsResponse, error) {
	defer stats.StatsdSlowNanoTimeFunc("datadog.api.tags.all.get-time-ns", time.Now())

	res := new(AllTagsResponse)
	if err := c.getJSON(ctx, "/api/v1/tags/hosts", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Validate check the credentials actually work, handy at startup
func (c *Client) Validate(ctx context.Context) error {
	res := new(ValidateResponse)
	if err := c.getJSON(ctx, "/api/v1/validate", nil, res); err != nil {
		return err
	}
	if !res.Valid {
		return &APIError{StatusCode: http.StatusForbidden, Errors: []string{"credentials are not valid"}}
	}
	return nil
}
