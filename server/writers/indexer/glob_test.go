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

package indexer

import (
	"reflect"
	"testing"
)

func TestGlobToRegexString(t *testing.T) {
	tests := []struct {
		glob string
		want string
	}{
		{"a", "^a$"},
		{"a.b", `^a\.b$`},
		{"a-z", "^a-z$"},
		{"a?b", "^a.b$"},
		{"a*b", "^a[^.]*b$"},
		{"a**b", "^a.*b$"},
		{"a.**.b", `^a\..*\.b$`},
		{"[a-z]", "^[a-z]$"},
		{"[!a-z]", "^[^a-z]$"},
		{"{a,b}", "^(a|b)$"},
		{"{a,{b,c}}", "^(a|(b|c))$"},
		{"?.{b,c}?", `^.\.(b|c).$`},
		{"?.[0-9]?", `^.\.[0-9].$`},
	}
	for _, tst := range tests {
		if got := globToRegexString(tst.glob); got != tst.want {
			t.Errorf("globToRegexString(%q) = %q, want %q", tst.glob, got, tst.want)
		}
	}
}

func TestValidGlob(t *testing.T) {
	valid := []string{"a", "a.b", "{a,b}.c", "{a,{b,c}}.d", "a.*", "a.**.b"}
	invalid := []string{"{a.}.b", "{a,b", "a,b}", "}a{", "{a.b}"}

	for _, g := range valid {
		if !validGlob(g) {
			t.Errorf("validGlob(%q) = false, want true", g)
		}
	}
	for _, g := range invalid {
		if validGlob(g) {
			t.Errorf("validGlob(%q) = true, want false", g)
		}
	}
}

func TestGlobFilter(t *testing.T) {
	tests := []struct {
		names []string
		glob  string
		want  []string
	}{
		{[]string{"a", "a.b", "a.cc"}, "a.*", []string{"a.b", "a.cc"}},
		{[]string{"a.b", "a.cc"}, "a.?", []string{"a.b"}},
		{[]string{"a.b", "a.cc", "y.z"}, "?.{b,c}?", []string{"a.cc"}},
		{[]string{"a.b", "a.cc", "a.0b", "y.z"}, "?.[0-9]?", []string{"a.0b"}},
		{[]string{"a.b.c", "a.x.c", "a.x.y", "a.x.z"}, "a.{b,x}.{c,{y,z}}", []string{"a.b.c", "a.x.c", "a.x.y", "a.x.z"}},
		{[]string{"foo.bar", "foo.bart", "foo.bli", "foo.blo"}, "foo.{bar*,bli}", []string{"foo.bar", "foo.bart", "foo.bli"}},
		{[]string{"a.b.c", "a.b", "x.b.c"}, "a.**", []string{"a.b.c", "a.b"}},
		{[]string{"a.b.c.d", "a.x.y.d", "a.x.y.e"}, "a.**.d", []string{"a.b.c.d", "a.x.y.d"}},
		{[]string{"a.b.c", "a"}, "a.b.c.d", nil},
	}
	for _, tst := range tests {
		got, err := globFilter(tst.names, tst.glob)
		if err != nil {
			t.Errorf("globFilter(%q) unexpected error: %v", tst.glob, err)
			continue
		}
		if !reflect.DeepEqual(got, tst.want) {
			t.Errorf("globFilter(%q) = %v, want %v", tst.glob, got, tst.want)
		}
	}

	if _, err := globFilter([]string{"a.b"}, "{a.}.b"); err == nil {
		t.Errorf("globFilter with invalid glob should error")
	}
}

func TestFirstNonGlobSegment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"moo.goo.org", "moo.goo.org"},
		{"moo.goo.*", "moo.goo"},
		{"moo.{a,b}.c", "moo"},
		{"*.goo", ""},
	}
	for _, tst := range tests {
		if got := firstNonGlobSegment(tst.in); got != tst.want {
			t.Errorf("firstNonGlobSegment(%q) = %q, want %q", tst.in, got, tst.want)
		}
	}
}

func TestSplitMetricsPath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a.b.c", []string{"a.b.c"}},
		{"a.b,c.d", []string{"a.b", "c.d"}},
		{"a.{b,c}.d", []string{"a.{b,c}.d"}},
		{"a.{b,c}.d,x.y", []string{"a.{b,c}.d", "x.y"}},
	}
	for _, tst := range tests {
		if got := splitMetricsPath(tst.in); !reflect.DeepEqual(got, tst.want) {
			t.Errorf("splitMetricsPath(%q) = %v, want %v", tst.in, got, tst.want)
		}
	}
}

func TestParseOpenTSDBTags(t *testing.T) {
	key, tags, err := ParseOpenTSDBTags("cpu.load{host=web01, env=prod}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "cpu.load" {
		t.Errorf("key = %q, want cpu.load", key)
	}
	if tags.Get("host") != "web01" || tags.Get("env") != "prod" {
		t.Errorf("tags = %v", tags)
	}

	if _, _, err := ParseOpenTSDBTags("cpu.load"); err == nil {
		t.Errorf("expected error on missing tag group")
	}
}
