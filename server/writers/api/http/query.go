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
   functions to help parse the input params from ye old http interface
*/

package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	sapi "github.com/iksaif/graphite-datadog/server/schemas/api"
	"github.com/iksaif/graphite-datadog/server/schemas/repr"
	"github.com/iksaif/graphite-datadog/server/writers/metrics"
)

var ErrorTargetRequired = errors.New("Target is required")
var ErrorInvalidStep = errors.New("Invalid `step` size")
var ErrorInvalidMaxPts = errors.New("Invalid `max_points` size")
var ErrorInvalidStartTime = errors.New("Invalid `start` time")
var ErrorInvalidEndTime = errors.New("Invalid `end` time")
var ErrorInvalidPage = errors.New("Invalid `page`")
var ErrorBadTagQuery = errors.New("Invalid Tag query `{name=val, name=val}`")

func getCType(h string) string {
	switch h {
	case "application/x-msgpack", "application/msgpack", "msgpack", "mp":
		return "msgpack"
	case "application/yaml", "application/x-yaml", "text/yaml", "yaml", "yml":
		return "yaml"
	default:
		return "json"
	}
}

// FormatFromHeaders get the format (msgpack, json, yaml) from the http headers
func FormatFromHeaders(r *http.Request) string {
	// obey input content type first
	gHeader := strings.TrimSpace(r.Header.Get("Content-Type"))
	if len(gHeader) > 0 {
		return getCType(gHeader)
	}

	// pick the first one
	for _, h := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		return getCType(strings.TrimSpace(h))
	}
	return "json"
}

func GetOutFormat(r *http.Request) string {
	f := strings.TrimSpace(r.Form.Get("format"))
	if len(f) == 0 {
		return FormatFromHeaders(r)
	}
	return getCType(f)
}

// joinedFormValues a multi-param (?target=a&target=b) into a comma string
func joinedFormValues(r *http.Request, name string) string {
	out := ""
	l := len(r.Form[name])
	for idx, tar := range r.Form[name] {
		out += strings.TrimSpace(tar)
		if idx < l-1 {
			out += ","
		}
	}
	return out
}

// ParseNameToTags parse a tag query of the form key{name=val, name=val...}
func ParseNameToTags(query string) (key string, tags repr.SortingTags, err error) {
	// find the bits inside the {}

	inner := ""
	collecting := false
	keyCollecting := true
	for _, char := range query {
		switch char {
		case '{':
			collecting = true
			keyCollecting = false
		case '}':
			collecting = false
		default:
			if collecting {
				inner += string(char)
			}
			if keyCollecting {
				key += string(char)
			}
		}
	}

	if len(inner) == 0 || collecting {
		return key, tags, ErrorBadTagQuery
	}
	tArr := strings.Split(inner, ",")
	oTags := &repr.SortingTags{}
	for _, tg := range tArr {
		tSplit := strings.Split(strings.TrimSpace(tg), "=")
		if len(tSplit) == 2 {
			oTags.Set(tSplit[0], strings.Replace(tSplit[1], "\"", "", -1))
		}
	}
	// if there are no name=val pairs, then we really have a {moo,goo} like glob
	if len(*oTags) == 0 {
		return query, *oTags, nil
	}

	return key, *oTags, nil
}

func ParseMetricQuery(r *http.Request) (mq sapi.MetricQuery, err error) {
	r.ParseForm()
	tags := &repr.SortingTags{}

	target := joinedFormValues(r, "target")

	// if no target try "path"
	if len(target) == 0 {
		target = joinedFormValues(r, "path")
	}

	// if no target try "query"
	if len(target) == 0 {
		target = joinedFormValues(r, "query")
	}

	if tTags := joinedFormValues(r, "tags"); tTags != "" {
		tags = repr.SortingTagsFromString(tTags)
	}

	// find an agg if desired
	agg := strings.TrimSpace(r.Form.Get("agg"))

	if len(target) > 0 {
		// see if the name has a key{tag,tag}
		aKey, aTags, err := ParseNameToTags(target)
		if err == nil && len(aTags) > 0 {
			target = aKey
			tags.Merge(&aTags)
		}
	}

	from := strings.TrimSpace(r.Form.Get("from"))
	to := strings.TrimSpace(r.Form.Get("to"))

	if len(target) == 0 && tags.IsEmpty() {
		return mq, ErrorTargetRequired
	}

	if len(from) == 0 {
		// try "start"
		from = strings.TrimSpace(r.Form.Get("start"))
	}
	if len(from) == 0 {
		from = "-1h"
	}
	if len(to) == 0 {
		// try "end"
		to = strings.TrimSpace(r.Form.Get("end"))
	}
	if len(to) == 0 {
		to = "now"
	}

	start, err := metrics.ParseTime(from)
	if err != nil {
		return mq, ErrorInvalidStartTime
	}

	end, err := metrics.ParseTime(to)
	if err != nil {
		return mq, ErrorInvalidEndTime
	}
	if end < start {
		start, end = end, start
	}

	// grab a step if desired (resolution resampling)
	_step := strings.TrimSpace(r.Form.Get("step"))
	if len(_step) == 0 {
		_step = strings.TrimSpace(r.Form.Get("sample"))
	}

	step := uint32(0)
	if len(_step) > 0 {
		tstep, err := strconv.ParseUint(_step, 10, 32)
		if err != nil {
			return mq, ErrorInvalidStep
		}
		step = uint32(tstep)
	}

	// grab a maxPoints if desired (resolution resampling)
	_maxpts := strings.TrimSpace(r.Form.Get("maxDataPoints"))
	if len(_maxpts) == 0 {
		_maxpts = strings.TrimSpace(r.Form.Get("max_points"))
	}
	if len(_maxpts) == 0 {
		_maxpts = strings.TrimSpace(r.Form.Get("maxpts"))
	}

	maxpts := uint64(0)
	if len(_maxpts) > 0 {
		maxpts, err = strconv.ParseUint(_maxpts, 10, 32)
		if err != nil || maxpts == 0 {
			return mq, ErrorInvalidMaxPts
		}
		// if maxPoints, need to resample to fit things if data
		tStep := uint32(end-start) / uint32(maxpts)
		if tStep > step {
			step = tStep
		}
	}

	// finally limit the number of points that can be returned
	if step > 0 {
		onPts := uint32(end-start) / step
		if onPts > MAX_METRIC_POINTS {
			step = uint32(end-start) / MAX_METRIC_POINTS
		}
	}

	return sapi.MetricQuery{
		Target:    target,
		Start:     start,
		End:       end,
		Step:      step,
		MaxPoints: uint32(maxpts),
		Tags:      *tags,
		Agg:       agg,
		Format:    GetOutFormat(r),
	}, nil
}

func ParseFindQuery(r *http.Request) (mq sapi.IndexQuery, err error) {
	r.ParseForm()

	vars := mux.Vars(r)

	query := strings.TrimSpace(r.Form.Get("name"))
	val := strings.TrimSpace(r.Form.Get("value"))
	inpage := strings.TrimSpace(r.Form.Get("page"))
	hasData := strings.TrimSpace(r.Form.Get("hasdata"))

	if len(query) == 0 {
		query = joinedFormValues(r, "query")
	}
	// try target from the params
	if len(query) == 0 {
		query = joinedFormValues(r, "target")
	}
	// try name from the URL
	if len(query) == 0 {
		query = vars["name"]
	}
	// try target from the url
	if len(query) == 0 {
		query = vars["target"]
	}

	if len(val) == 0 {
		val = vars["value"]
	}

	tags := &repr.SortingTags{}
	if tTags := joinedFormValues(r, "tags"); tTags != "" {
		tags = repr.SortingTagsFromString(tTags)
	}

	if len(query) > 0 {
		// see if the name has a key{tag,tag}
		aKey, aTags, err := ParseNameToTags(query)
		if err == nil && len(aTags) > 0 {
			query = aKey
			tags.Merge(&aTags)
		}
	}

	mq.Tags = *tags
	mq.Query = query
	mq.Value = val
	mq.HasData = true
	mq.Format = GetOutFormat(r)

	if len(hasData) > 0 && (hasData == "0" || hasData == "false") {
		mq.HasData = false
	}

	if len(inpage) > 0 {
		pg, err := strconv.ParseUint(inpage, 10, 32)
		if err != nil {
			return mq, ErrorInvalidPage
		}
		mq.Page = uint32(pg)
	}

	return
}
