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

package utils

import "sync"

// StartStop guards a driver's Start/Stop pair, the hook runs only on a
// state flip so repeated Start (or Stop) calls are harmless, and a
// stopped driver can be started again
type StartStop struct {
	mu      sync.Mutex
	running bool
}

func (s *StartStop) Start(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	f()
}

// Stop before a Start is a no-op
func (s *StartStop) Stop(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	f()
}
