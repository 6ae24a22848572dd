/*
 * Copyright (c) SAS Institute Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package closeonce guards native handles that must be released exactly once.
package closeonce

import (
	"sync"
	"sync/atomic"
)

// Closed records whether a resource has been released and what releasing it
// returned. The zero value is open.
type Closed struct {
	done atomic.Bool
	mu   sync.Mutex
	err  error
}

// Closed reports whether Close has run
func (o *Closed) Closed() bool {
	return o.done.Load()
}

// Close runs release the first time it is called. Later calls return the same
// error without calling release again.
func (o *Closed) Close(release func() error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done.Load() {
		return o.err
	}
	if release != nil {
		o.err = release()
	}
	o.done.Store(true)
	return o.err
}
