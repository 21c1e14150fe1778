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

/** HTTP access loggers **/

package http

import (
	golanglog "log"
	"net/http"
	"os"
	"time"
)

// tracks the status/length for the access line
type statusWriter struct {
	http.ResponseWriter
	status int
	length int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = 200
	}
	w.length += len(b)
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// WriteLog Logs the Http Status for a request into fileHandler and returns a
// http handler function which is a wrapper to log the requests.
func WriteLog(handle http.Handler, fileHandler *os.File) http.HandlerFunc {
	logger := golanglog.New(fileHandler, "", 0)
	return func(w http.ResponseWriter, request *http.Request) {
		start := time.Now()

		wr := &statusWriter{ResponseWriter: w}

		handle.ServeHTTP(wr, request)
		end := time.Now()
		latency := end.Sub(start)

		path := request.URL.Path
		if request.URL.RawQuery != "" {
			path += "?" + request.URL.RawQuery
		}
		logger.Printf(
			"%v %s %s \"%s %s %s\" %d %d \"%s\" %v",
			end.Format("2006/01/02 15:04:05"),
			request.Host,
			request.RemoteAddr,
			request.Method,
			path,
			request.Proto,
			wr.status,
			wr.length,
			request.Header.Get("User-Agent"),
			latency,
		)
	}
}
