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
 little helper to get "options" from a map[string]interface{}

 this is the shape TOML sub-tables decode into, so driver configs
 ([api.indexer.options] and friends) all flow through here
*/

package options

import (
	"fmt"
	"time"
)

type Options map[string]interface{}

func New() Options {
	return Options(make(map[string]interface{}))
}

func (o *Options) get(name string) (interface{}, bool) {
	c := map[string]interface{}(*o)
	gots, ok := c[name]
	return gots, ok
}

func (o *Options) Set(name string, val interface{}) {
	c := map[string]interface{}(*o)
	c[name] = val
}

func (o *Options) String(name, def string) string {
	got, ok := o.get(name)
	if ok {
		return got.(string)
	}
	return def
}

func (o *Options) StringRequired(name string) (string, error) {
	got, ok := o.get(name)
	if ok {
		return got.(string), nil
	}
	return "", fmt.Errorf("%s is required", name)
}

func toInt64(got interface{}) (int64, error) {
	switch t := got.(type) {
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int:
		return int64(t), nil
	case uint64:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case float32:
		return int64(t), nil
	}
	return 0, fmt.Errorf("not an int (it's a `%T`)", got)
}

func (o *Options) Int64(name string, def int64) int64 {
	got, ok := o.get(name)
	if !ok {
		return def
	}
	i, err := toInt64(got)
	if err != nil {
		panic(fmt.Errorf("%s: %v", name, err))
	}
	return i
}

func (o *Options) Int64Required(name string) (int64, error) {
	got, ok := o.get(name)
	if !ok {
		return 0, fmt.Errorf("%s is required", name)
	}
	i, err := toInt64(got)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", name, err)
	}
	return i, nil
}

func (o *Options) Bool(name string, def bool) bool {
	got, ok := o.get(name)
	if ok {
		return got.(bool)
	}
	return def
}

func (o *Options) Duration(name string, def time.Duration) time.Duration {
	got, ok := o.get(name)
	if !ok {
		return def
	}
	rdur, err := time.ParseDuration(got.(string))
	if err != nil {
		panic(err)
	}
	return rdur
}

func (o *Options) DurationRequired(name string) (time.Duration, error) {
	got, ok := o.get(name)
	if !ok {
		return time.Duration(0), fmt.Errorf("%s is required", name)
	}
	return time.ParseDuration(got.(string))
}

func (o *Options) ToString() string {
	out := "Options("
	for k, v := range *o {
		out += fmt.Sprintf("%s=%v, ", k, v)
	}
	out += ")"
	return out
}
