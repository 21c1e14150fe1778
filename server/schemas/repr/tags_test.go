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

package repr

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSortingTags(t *testing.T) {

	Convey("Tags from strings", t, func() {
		tgs := SortingTagsFromString("host=web01,env=prod")
		So(tgs.Len(), ShouldEqual, 2)
		So(tgs.Get("host"), ShouldEqual, "web01")
		So(tgs.Get("env"), ShouldEqual, "prod")

		tgs = SortingTagsFromString("host=web01 env=prod")
		So(tgs.Len(), ShouldEqual, 2)

		tgs = SortingTagsFromString("host:web01,env:prod")
		So(tgs.Get("host"), ShouldEqual, "web01")

		tgs = SortingTagsFromString("host_is_web01")
		So(tgs.Get("host"), ShouldEqual, "web01")

		// junk w/o a separator gets skipped
		tgs = SortingTagsFromString("justaword,env=prod")
		So(tgs.Len(), ShouldEqual, 1)
	})

	Convey("Tags from the datadog api", t, func() {
		tgs := SortingTagsFromDatadog([]string{"env:prod", "role:web"})
		So(tgs.Len(), ShouldEqual, 2)
		So(tgs.Get("env"), ShouldEqual, "prod")

		// datadog allows value only tags
		tgs = SortingTagsFromDatadog([]string{"standalone"})
		So(tgs.Get("standalone"), ShouldEqual, "standalone")

		// values can carry colons
		tgs = SortingTagsFromDatadog([]string{"url:http://moo:8080"})
		So(tgs.Get("url"), ShouldEqual, "http://moo:8080")
	})

	Convey("Set Get Has Merge", t, func() {
		tgs := &SortingTags{}
		So(tgs.IsEmpty(), ShouldBeTrue)

		tgs.Set("host", "web01")
		tgs.Set("env", "prod")
		tgs.Set("host", "web02") // replaces
		So(tgs.Len(), ShouldEqual, 2)
		So(tgs.Get("host"), ShouldEqual, "web02")
		So(tgs.Has("env"), ShouldBeTrue)
		So(tgs.Has("moo"), ShouldBeFalse)

		other := &SortingTags{}
		other.Set("role", "web")
		other.Set("env", "staging")
		tgs.Merge(other)
		So(tgs.Len(), ShouldEqual, 3)
		So(tgs.Get("env"), ShouldEqual, "staging")
	})

	Convey("String forms", t, func() {
		tgs := &SortingTags{}
		tgs.Set("host", "web01")
		tgs.Set("env", "prod")

		So(tgs.String(), ShouldEqual, "host=web01 env=prod")
		So(tgs.DatadogString(), ShouldEqual, "host:web01,env:prod")

		tgs.Sort()
		So(tgs.String(), ShouldEqual, "env=prod host=web01")
	})
}
