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

package options

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOptions(t *testing.T) {

	Convey("String options", t, func() {
		opts := New()
		opts.Set("driver", "datadog")

		So(opts.String("driver", "def"), ShouldEqual, "datadog")
		So(opts.String("nope", "def"), ShouldEqual, "def")

		got, err := opts.StringRequired("driver")
		So(err, ShouldBeNil)
		So(got, ShouldEqual, "datadog")

		_, err = opts.StringRequired("nope")
		So(err, ShouldNotBeNil)
	})

	Convey("Int64 options", t, func() {
		opts := New()
		// toml hands back int64, but json decoding gives float64
		opts.Set("pages", int64(4))
		opts.Set("floaty", float64(8))

		So(opts.Int64("pages", 1), ShouldEqual, 4)
		So(opts.Int64("floaty", 1), ShouldEqual, 8)
		So(opts.Int64("nope", 42), ShouldEqual, 42)

		_, err := opts.Int64Required("nope")
		So(err, ShouldNotBeNil)
	})

	Convey("Bool and Duration options", t, func() {
		opts := New()
		opts.Set("use_search", false)
		opts.Set("timeout", "15s")

		So(opts.Bool("use_search", true), ShouldBeFalse)
		So(opts.Bool("nope", true), ShouldBeTrue)

		So(opts.Duration("timeout", time.Second), ShouldEqual, 15*time.Second)
		So(opts.Duration("nope", time.Second), ShouldEqual, time.Second)

		d, err := opts.DurationRequired("timeout")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, 15*time.Second)

		_, err = opts.DurationRequired("nope")
		So(err, ShouldNotBeNil)
	})
}
