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
   Tag lists for metric names.

   graphite tag queries arrive as name=val pairs, Datadog hands tags
   back as "name:val" strings, so converters for both live here
*/

package repr

import (
	"fmt"
	"sort"
	"strings"
)

const (
	COMMA_SEPARATOR = ","
	SPACE_SEPARATOR = " "
	EQUAL_SEPARATOR = "="
	COLON_SEPARATOR = ":"
	IS_SEPARATOR    = "_is_"
)

// Tag a name=value pair
type Tag struct {
	Name  string `json:"name" toml:"name" yaml:"name"`
	Value string `json:"value" toml:"value" yaml:"value"`
}

func (t Tag) Join(sep string) string {
	return t.Name + sep + t.Value
}

type SortingTags []*Tag

// SortingTagsFromString make a tag array from a string input of the forms
// tag=val,tag=val or tag=val tag=val or tag:val,tag:val or tag_is_val,tag_is_val
func SortingTagsFromString(key string) *SortingTags {
	var parseTgs []string
	if strings.Contains(key, COMMA_SEPARATOR) {
		parseTgs = strings.Split(key, COMMA_SEPARATOR)
	} else {
		parseTgs = strings.Split(key, SPACE_SEPARATOR)
	}
	return SortingTagsFromArray(parseTgs)
}

func SortingTagsFromArray(keys []string) *SortingTags {

	outs := new(SortingTags)

	for _, tgs := range keys {
		spls := strings.SplitN(tgs, EQUAL_SEPARATOR, 2)
		if len(spls) < 2 {
			// try "_is_"
			spls = strings.SplitN(tgs, IS_SEPARATOR, 2)
			if len(spls) < 2 {
				// try ":"
				spls = strings.SplitN(tgs, COLON_SEPARATOR, 2)
				if len(spls) < 2 {
					continue
				}
			}
		}
		*outs = append(*outs, &Tag{Name: strings.TrimSpace(spls[0]), Value: strings.TrimSpace(spls[1])})
	}
	return outs
}

// SortingTagsFromDatadog tags in the datadog api are "name:value" strings,
// a bare "value" with no colon becomes {name: value, value: value}
func SortingTagsFromDatadog(tags []string) *SortingTags {
	outs := new(SortingTags)
	for _, tgs := range tags {
		spls := strings.SplitN(tgs, COLON_SEPARATOR, 2)
		if len(spls) < 2 {
			*outs = append(*outs, &Tag{Name: spls[0], Value: spls[0]})
			continue
		}
		*outs = append(*outs, &Tag{Name: spls[0], Value: spls[1]})
	}
	return outs
}

func (p SortingTags) Len() int           { return len(p) }
func (p SortingTags) Less(i, j int) bool { return strings.Compare(p[i].Name, p[j].Name) < 0 }
func (p SortingTags) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// String dump as {name}={value} {name}={value} ...
func (s *SortingTags) String() string {
	outs := make([]string, 0, len(*s))
	for _, t := range *s {
		outs = append(outs, t.Join(EQUAL_SEPARATOR))
	}
	return strings.Join(outs, SPACE_SEPARATOR)
}

// DatadogString dump as {name}:{value},... the way the datadog api scopes things
func (s *SortingTags) DatadogString() string {
	outs := make([]string, 0, len(*s))
	for _, t := range *s {
		outs = append(outs, t.Join(COLON_SEPARATOR))
	}
	return strings.Join(outs, COMMA_SEPARATOR)
}

func (s *SortingTags) Tags() []*Tag {
	return *s
}

func (s *SortingTags) Set(name string, val string) {
	for _, t := range *s {
		if t.Name == name {
			t.Value = val
			return
		}
	}
	*s = append(*s, &Tag{Name: name, Value: val})
}

func (s *SortingTags) Get(name string) string {
	for _, t := range *s {
		if t.Name == name {
			return t.Value
		}
	}
	return ""
}

func (s *SortingTags) Has(name string) bool {
	for _, t := range *s {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (s *SortingTags) IsEmpty() bool {
	return len(*s) == 0
}

func (s *SortingTags) Merge(other *SortingTags) *SortingTags {
	if other == nil {
		return s
	}
	for _, t := range *other {
		s.Set(t.Name, t.Value)
	}
	return s
}

func (s *SortingTags) Sort() {
	sort.Sort(s)
}

// SetTags replace the list entirely
func (s *SortingTags) SetTags(tags []*Tag) {
	*s = tags
}

func (s *SortingTags) ToStringList() (out []string) {
	for _, t := range *s {
		out = append(out, fmt.Sprintf("%s=%s", t.Name, t.Value))
	}
	return out
}
