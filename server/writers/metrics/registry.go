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
   Simple make of new objects
*/

package metrics

import (
	"errors"
	"fmt"
	"sync"
)

// ErrorAlreadyRegistered reader already registered
var ErrorAlreadyRegistered = errors.New("Metrics reader is already registered")

var metricsReg map[string]Metrics
var mtxLock sync.RWMutex

func init() {
	metricsReg = make(map[string]Metrics)
}

func RegisterMetrics(name string, mets Metrics) error {
	mtxLock.Lock()
	defer mtxLock.Unlock()
	if _, ok := metricsReg[name]; ok {
		return ErrorAlreadyRegistered
	}
	metricsReg[name] = mets
	return nil
}

func GetMetrics(name string) Metrics {
	mtxLock.RLock()
	defer mtxLock.RUnlock()
	return metricsReg[name]
}

func NewMetrics(name string) (Metrics, error) {
	switch {
	case name == "datadog":
		return NewDatadogMetrics(), nil
	case name == "noop":
		return NewNoopMetrics(), nil
	default:
		return nil, fmt.Errorf("Invalid metrics reader `%s`", name)
	}
}
