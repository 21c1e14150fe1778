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
	"testing"
)

func TestDataPointJson(t *testing.T) {
	pt := &DataPoint{Time: 100000, Value: 1.5}
	bs, err := json.Marshal(pt)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(bs) != "[1.500000, 100000]" {
		t.Errorf("json = %s", bs)
	}

	nan := &DataPoint{Time: 100010, Value: math.NaN()}
	bs, err = json.Marshal(nan)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(bs) != "[null, 100010]" {
		t.Errorf("json = %s", bs)
	}

	var back DataPoint
	if err = json.Unmarshal([]byte("[null, 100010]"), &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.Time != 100010 || !math.IsNaN(back.Value) {
		t.Errorf("point = %+v", back)
	}

	if err = json.Unmarshal([]byte("[2.5, 100020]"), &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.Time != 100020 || back.Value != 2.5 {
		t.Errorf("point = %+v", back)
	}
}

func TestRawRenderItemQuantize(t *testing.T) {
	item := &RawRenderItem{
		Metric: "system.cpu.idle",
		Start:  100003,
		End:    100040,
		Step:   10,
		Data: []*DataPoint{
			{Time: 100000, Value: 90},
			{Time: 100010, Value: 91.5},
			{Time: 100040, Value: 93},
		},
	}
	item.Quantize()

	// grid snaps down to the step boundary
	if item.Start != 100000 {
		t.Errorf("start = %d", item.Start)
	}
	if len(item.Data) != 5 {
		t.Fatalf("points = %d", len(item.Data))
	}
	for i, pt := range item.Data {
		want := uint32(100000 + i*10)
		if pt.Time != want {
			t.Errorf("point %d time = %d, want %d", i, pt.Time, want)
		}
	}
	if item.Data[0].Value != 90 || item.Data[1].Value != 91.5 || item.Data[4].Value != 93 {
		t.Errorf("values wrong: %+v", item.Data)
	}
	// the holes are NaN
	if !math.IsNaN(item.Data[2].Value) || !math.IsNaN(item.Data[3].Value) {
		t.Errorf("expected NaN holes: %+v", item.Data)
	}
}

func TestRawRenderItemQuantizeNoop(t *testing.T) {
	// no step means nothing to grid onto
	item := &RawRenderItem{Start: 100, End: 200, Data: []*DataPoint{{Time: 100, Value: 1}}}
	item.Quantize()
	if len(item.Data) != 1 {
		t.Errorf("points = %d", len(item.Data))
	}

	// inverted range is left alone too
	item = &RawRenderItem{Start: 200, End: 100, Step: 10}
	item.Quantize()
	if item.Data != nil {
		t.Errorf("points = %v", item.Data)
	}
}
