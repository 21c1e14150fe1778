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
	the parsed http query args for the find/render/tag endpoints
*/

package api

import (
	"fmt"

	"github.com/iksaif/graphite-datadog/server/schemas/repr"
)

// IndexQuery args for the find/expand/list/tag endpoints
type IndexQuery struct {
	Query   string           `json:"query"`
	Value   string           `json:"value,omitempty"`
	Tags    repr.SortingTags `json:"tags,omitempty"`
	HasData bool             `json:"has_data"`
	Page    uint32           `json:"page"`
	Format  string           `json:"format"`
}

func (i *IndexQuery) String() string {
	return fmt.Sprintf("IndexQuery: query=%s value=%s page=%d tags=%s", i.Query, i.Value, i.Page, i.Tags.String())
}

// MetricQuery args for the render endpoints
type MetricQuery struct {
	Target    string           `json:"target"`
	Start     int64            `json:"start"`
	End       int64            `json:"end"`
	Step      uint32           `json:"step"`
	MaxPoints uint32           `json:"max_points"`
	Agg       string           `json:"agg,omitempty"`
	Tags      repr.SortingTags `json:"tags,omitempty"`
	Format    string           `json:"format"`
}

func (m *MetricQuery) String() string {
	return fmt.Sprintf("MetricQuery: target=%s start=%d end=%d step=%d agg=%s", m.Target, m.Start, m.End, m.Step, m.Agg)
}
