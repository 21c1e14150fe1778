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
  json shapes of the v1 api

  https://docs.datadoghq.com/api/

  every response can carry an "errors" array, even w/ a 200 status, so
  each type exposes it for the client to sniff
*/

package datadog

import (
	"fmt"
	"strings"
)

// APIError a non-2xx status or an "errors" payload from the api
type APIError struct {
	StatusCode int
	Errors     []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("datadog api: %s", strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("datadog api: http status %d", e.StatusCode)
}

type errorCarrier interface {
	apiErrors() []string
}

type baseResponse struct {
	Errors []string `json:"errors,omitempty"`
}

func (b *baseResponse) apiErrors() []string { return b.Errors }

// MetricListResponse GET /api/v1/metrics
type MetricListResponse struct {
	baseResponse
	From    string   `json:"from"`
	Metrics []string `json:"metrics"`
}

// SearchResults inner object of a search response
type SearchResults struct {
	Metrics []string `json:"metrics"`
	Hosts   []string `json:"hosts"`
}

// SearchResponse GET /api/v1/search
type SearchResponse struct {
	baseResponse
	Results SearchResults `json:"results"`
}

// Series a single series from a query response, pointlist entries are
// [ms_epoch, value] pairs w/ null for misses
type Series struct {
	Metric      string       `json:"metric"`
	DisplayName string       `json:"display_name"`
	Scope       string       `json:"scope"`
	Expression  string       `json:"expression"`
	Unit        interface{}  `json:"unit,omitempty"`
	Pointlist   [][]*float64 `json:"pointlist"`
	Start       int64        `json:"start"`
	End         int64        `json:"end"`
	Interval    int64        `json:"interval"`
	Length      int64        `json:"length"`
	Aggr        string       `json:"aggr"`
}

// SeriesResponse GET /api/v1/query
type SeriesResponse struct {
	baseResponse
	Status string    `json:"status"`
	Series []*Series `json:"series"`
}

// HostTagsResponse GET /api/v1/tags/hosts/{host}
type HostTagsResponse struct {
	baseResponse
	Tags []string `json:"tags"`
}

// AllTagsResponse GET /api/v1/tags/hosts, the map is tag -> hosts
type AllTagsResponse struct {
	baseResponse
	Tags map[string][]string `json:"tags"`
}

// ValidateResponse GET /api/v1/validate
type ValidateResponse struct {
	baseResponse
	Valid bool `json:"valid"`
}
