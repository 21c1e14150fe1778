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
	Package shutdown tracks teardown work that must drain before exit.

	Anything holding resources on the way down (the api listener,
	statsd buffers) adds itself when its Stop begins and releases when
	done, the signal handler waits on the lot before calling exit(0).
*/
package shutdown

import "sync"

var pending sync.WaitGroup

func AddToShutdown() { pending.Add(1) }

func ReleaseFromShutdown() { pending.Done() }

func WaitOnShutdown() { pending.Wait() }
