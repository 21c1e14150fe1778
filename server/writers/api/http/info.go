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
   Info/ping handlers
*/

package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iksaif/graphite-datadog/server/writers/api"
)

type InfoAPI struct {
	a    *ApiLoop
	info *api.InfoData
}

func NewInfoAPI(a *ApiLoop) *InfoAPI {
	return &InfoAPI{
		a:    a,
		info: new(api.InfoData),
	}
}

func (i *InfoAPI) AddHandlers(mux *mux.Router) {
	mux.HandleFunc("/info", i.Info)
	mux.HandleFunc("/ping", i.Ping)
}

func (i *InfoAPI) Info(w http.ResponseWriter, r *http.Request) {
	i.info.Get()
	i.info.MetricDriver = i.a.Metrics.Driver()
	i.info.IndexDriver = i.a.Indexer.Name()
	i.info.BasePath = i.a.Conf.BasePath
	i.a.OutJson(w, i.info)
}

func (i *InfoAPI) Ping(w http.ResponseWriter, r *http.Request) {
	i.a.OutJson(w, map[string]string{"status": "ok"})
}
