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
   basic "who am i" blob for the /info endpoint
*/

package api

import (
	"os"
	"time"
)

const VERSION = "0.1.0"

// InfoData basic node info for the info handlers
type InfoData struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Hostname     string `json:"hostname"`
	MetricDriver string `json:"metric_driver"`
	IndexDriver  string `json:"index_driver"`
	BasePath     string `json:"base_path"`
	Time         int64  `json:"time"`
}

// Get fill in the base set of info
func (i *InfoData) Get() {
	i.Name = "graphite-datadog"
	i.Version = VERSION
	i.Time = time.Now().Unix()
	host, err := os.Hostname()
	if err == nil {
		i.Hostname = host
	}
}
