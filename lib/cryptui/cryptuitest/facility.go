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

package cryptuitest

import (
	"github.com/vnetdev/signhelpers/lib/cryptui"
)

// Facility records what it was asked to sign and answers with a canned result.
type Facility struct {
	Arena *MemArena
	// Result and Err are returned from every DigitalSign call
	Result bool
	Err    error
	// ArenaErr, if set, is returned from NewArena
	ArenaErr error
	// Panic, if set, is raised from DigitalSign after the request is recorded
	Panic any

	Calls    int
	Requests []cryptui.SignInfo
	// Outstanding is the arena's live allocation count seen at call time
	Outstanding []int
}

var _ cryptui.Facility = (*Facility)(nil)

// NewFacility returns a facility backed by a fresh 64-bit MemArena
func NewFacility(result bool) *Facility {
	return &Facility{Arena: NewMemArena(), Result: result}
}

func (f *Facility) NewArena() (cryptui.Arena, error) {
	if f.ArenaErr != nil {
		return nil, f.ArenaErr
	}
	if f.Arena == nil {
		f.Arena = NewMemArena()
	}
	return f.Arena, nil
}

func (f *Facility) DigitalSign(addr uintptr) (bool, error) {
	f.Calls++
	info, err := f.Arena.Decode(addr)
	if err != nil {
		return false, err
	}
	f.Requests = append(f.Requests, info)
	f.Outstanding = append(f.Outstanding, f.Arena.Outstanding())
	if f.Panic != nil {
		panic(f.Panic)
	}
	return f.Result, f.Err
}
