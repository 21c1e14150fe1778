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
  Index query results, shaped to match the GraphiteAPI find/expand json blobs
  so graphite-web can treat us as a remote finder
*/

package indexer

import (
	"github.com/iksaif/graphite-datadog/server/schemas/repr"
)

// MetricFindItem a single entry in a /metrics/find response
//
//	{
//	  text: "cpu",
//	  expandable: 1,
//	  leaf: 0,
//	  id: "system.cpu",
//	  path: "system.cpu",
//	  allowChildren: 1
//	}
type MetricFindItem struct {
	Text          string      `json:"text" yaml:"text"`
	Expandable    uint32      `json:"expandable" yaml:"expandable"`
	Leaf          uint32      `json:"leaf" yaml:"leaf"`
	Id            string      `json:"id" yaml:"id"`
	Path          string      `json:"path" yaml:"path"`
	AllowChildren uint32      `json:"allowChildren" yaml:"allowChildren"`
	UniqueId      string      `json:"uniqueid,omitempty" yaml:"uniqueid,omitempty"`
	Tags          []*repr.Tag `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// MetricExpandItem the /metrics/expand response
//
//	{ results: ["system.cpu.idle", ...] }
type MetricExpandItem struct {
	Results []string `json:"results" yaml:"results"`
}

// MetricTagItem a single tag name/value
type MetricTagItem struct {
	Name   string `json:"name" yaml:"name"`
	Value  string `json:"value" yaml:"value"`
	IsMeta bool   `json:"is_meta,omitempty" yaml:"is_meta,omitempty"`
}

// MetricFindItems slice of MetricFindItem
type MetricFindItems []*MetricFindItem

// MetricTagItems slice of MetricTagItem
type MetricTagItems []*MetricTagItem

// MetricListItems slice of strings
type MetricListItems []string

// UidList slice of uids
type UidList []string
