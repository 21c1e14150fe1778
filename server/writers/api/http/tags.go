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
   Find Tags api handlers
*/

package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	sindexer "github.com/iksaif/graphite-datadog/server/schemas/indexer"
	"github.com/iksaif/graphite-datadog/server/schemas/repr"
	"github.com/iksaif/graphite-datadog/server/stats"
	"github.com/iksaif/graphite-datadog/server/writers/indexer"
	"github.com/iksaif/graphite-datadog/server/writers/metrics"
)

type TagAPI struct {
	a       *ApiLoop
	Indexer indexer.Indexer
	Metrics metrics.Metrics
}

func NewTagAPI(a *ApiLoop) *TagAPI {
	return &TagAPI{
		a:       a,
		Indexer: a.Indexer,
		Metrics: a.Metrics,
	}
}

func (t *TagAPI) AddHandlers(mux *mux.Router) {
	mux.HandleFunc("/tag/find/byname", t.FindTagsByName)
	mux.HandleFunc("/tag/find/bynamevalue", t.FindTagsByNameAndValue)
	mux.HandleFunc("/tag/uid/bytags", t.FindUidsByTags)
}

func (re *TagAPI) FindTagsByName(w http.ResponseWriter, r *http.Request) {
	defer stats.StatsdSlowNanoTimeFunc("api.http.find.tag.name.get-time-ns", time.Now())
	stats.StatsdClientSlow.Incr("api.http.tagbyname.hits", 1)
	r.ParseForm()

	args, err := ParseFindQuery(r)
	if err != nil {
		re.a.OutError(w, fmt.Sprintf("%v", err), http.StatusBadRequest)
		return
	}
	if len(args.Query) == 0 {
		re.a.OutError(w, "Name is required", http.StatusBadRequest)
		return
	}

	data, err := re.Indexer.GetTagsByName(args.Query, int(args.Page))
	if err != nil {
		stats.StatsdClientSlow.Incr("api.http.tagbyname.errors", 1)
		re.a.OutError(w, fmt.Sprintf("%v", err), http.StatusServiceUnavailable)
		return
	}
	stats.StatsdClientSlow.Incr("api.http.tagbyname.ok", 1)
	re.a.OutJson(w, data)
}

func (re *TagAPI) FindTagsByNameAndValue(w http.ResponseWriter, r *http.Request) {
	defer stats.StatsdSlowNanoTimeFunc("api.http.find.tag.namevalue.get-time-ns", time.Now())
	stats.StatsdClientSlow.Incr("api.http.tagbynameval.hits", 1)
	r.ParseForm()
	args, err := ParseFindQuery(r)
	if err != nil {
		re.a.OutError(w, fmt.Sprintf("%v", err), http.StatusBadRequest)
		return
	}
	if len(args.Query) == 0 {
		re.a.OutError(w, "Name is required", http.StatusBadRequest)
		return
	}
	if len(args.Value) == 0 {
		re.a.OutError(w, "Value is required", http.StatusBadRequest)
		return
	}

	data, err := re.Indexer.GetTagsByNameValue(args.Query, args.Value, int(args.Page))
	if err != nil {
		stats.StatsdClientSlow.Incr("api.http.tagbynameval.errors", 1)
		re.a.OutError(w, fmt.Sprintf("%v", err), http.StatusServiceUnavailable)
		return
	}
	stats.StatsdClientSlow.Incr("api.http.tagbynameval.ok", 1)
	re.a.OutJson(w, data)
}

// finduidsbytag?query=key{name=val, name=val, ...}

func (re *TagAPI) FindUidsByTags(w http.ResponseWriter, r *http.Request) {
	defer stats.StatsdSlowNanoTimeFunc("api.http.find.tag.uids.get-time-ns", time.Now())
	stats.StatsdClientSlow.Incr("api.http.uidbytag.hits", 1)
	r.ParseForm()
	args, err := ParseFindQuery(r)
	if err != nil {
		re.a.OutError(w, fmt.Sprintf("%v", err), http.StatusBadRequest)
		return
	}
	if len(args.Query) == 0 {
		re.a.OutError(w, "`query` is required", http.StatusBadRequest)
		return
	}

	// the tags may have already come in as a `tags=` param or got peeled
	// off the query by ParseFindQuery, otherwise the query itself is the
	// opentsdb style key{name=val,...}
	key := args.Query
	tags := args.Tags
	if strings.Contains(key, "{") {
		var qTags repr.SortingTags
		key, qTags, err = indexer.ParseOpenTSDBTags(key)
		if err != nil {
			re.a.OutError(w, fmt.Sprintf("%s", err), http.StatusBadRequest)
			return
		}
		tags.Merge(&qTags)
	}
	if len(tags) == 0 {
		re.a.OutError(w, "No tags found", http.StatusBadRequest)
		return
	}
	if len(tags) > 64 {
		re.a.OutError(w, "Too many tags found", http.StatusBadRequest)
		return
	}

	data, err := re.Indexer.GetUidsByTags(key, tags, int(args.Page))
	if err != nil {
		stats.StatsdClientSlow.Incr("api.http.uidbytag.errors", 1)
		re.a.OutError(w, fmt.Sprintf("%v", err), http.StatusServiceUnavailable)
		return
	}
	stats.StatsdClientSlow.Incr("api.http.uidbytag.ok", 1)
	re.a.OutJson(w, sindexer.UidList(data))
}
