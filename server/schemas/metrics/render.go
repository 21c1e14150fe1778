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
  Render result objects.

  We mimic the Graphite API json blobs so the host graphite-web/graphite-api
  can hook us in directly as a remote storage backend.  The fancy DSL
  functions stay in graphite itself, we only move points around.
*/

package metrics

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/iksaif/graphite-datadog/server/schemas/repr"
)

// DataPoint a single point, a NaN value means "no data in this slot"
type DataPoint struct {
	Time  uint32
	Value float64
}

// MarshalJSON graphite wants [value, time] tuples w/ null for misses
func (d *DataPoint) MarshalJSON() ([]byte, error) {
	if math.IsNaN(d.Value) {
		return []byte(fmt.Sprintf("[null, %d]", d.Time)), nil
	}
	return []byte(fmt.Sprintf("[%f, %d]", d.Value, d.Time)), nil
}

// UnmarshalJSON inverse of the above
func (d *DataPoint) UnmarshalJSON(b []byte) error {
	var tup [2]*float64
	if err := json.Unmarshal(b, &tup); err != nil {
		return err
	}
	if tup[1] != nil {
		d.Time = uint32(*tup[1])
	}
	if tup[0] == nil {
		d.Value = math.NaN()
	} else {
		d.Value = *tup[0]
	}
	return nil
}

// RawRenderItem the internal render object, one per series the upstream
// api handed back
type RawRenderItem struct {
	Metric    string           `json:"metric"`
	Id        string           `json:"id"`
	Start     uint32           `json:"start"`
	End       uint32           `json:"end"`
	RealStart uint32           `json:"real_start"`
	RealEnd   uint32           `json:"real_end"`
	Step      uint32           `json:"step"`
	AggFunc   string           `json:"agg_func"`
	Tags      repr.SortingTags `json:"tags,omitempty"`
	Data      []*DataPoint     `json:"data"`
}

func (r *RawRenderItem) Len() int {
	return len(r.Data)
}

// Quantize resample the points onto the regular Start/End/Step grid,
// graphite needs the "nils" and expects a full list matching the step
func (r *RawRenderItem) Quantize() {
	if r.Step == 0 || r.End <= r.Start {
		return
	}

	// align the grid on the step
	start := r.Start - (r.Start % r.Step)
	numPts := (r.End-start)/r.Step + 1

	data := make([]*DataPoint, numPts)
	for i := range data {
		data[i] = &DataPoint{Time: start + uint32(i)*r.Step, Value: math.NaN()}
	}

	for _, pt := range r.Data {
		if pt.Time < start || pt.Time > r.End {
			continue
		}
		idx := (pt.Time - start) / r.Step
		if int(idx) < len(data) {
			data[idx].Value = pt.Value
		}
	}
	r.Start = start
	r.Data = data
}

// RawRenderItems sorted by metric name
type RawRenderItems []*RawRenderItem

func (p RawRenderItems) Len() int           { return len(p) }
func (p RawRenderItems) Less(i, j int) bool { return p[i].Metric < p[j].Metric }
func (p RawRenderItems) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// GraphiteApiItem the graphite-api/grafana render json element
//
//	{ target: "a.b.c", datapoints: [[val, ts], ...] }
type GraphiteApiItem struct {
	Target     string       `json:"target"`
	Datapoints []*DataPoint `json:"datapoints"`
}

// GraphiteApiItems sorted by target
type GraphiteApiItems []*GraphiteApiItem

func (p GraphiteApiItems) Len() int           { return len(p) }
func (p GraphiteApiItems) Less(i, j int) bool { return p[i].Target < p[j].Target }
func (p GraphiteApiItems) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
