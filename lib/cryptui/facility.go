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

package cryptui

import (
	"errors"
)

// Arena hands out native memory for one signing request. Every address
// returned by Alloc must be given back to Free exactly once.
type Arena interface {
	// PointerSize is the width of a native pointer in bytes
	PointerSize() int
	// Alloc copies data into newly allocated native memory and returns its address
	Alloc(data []byte) (uintptr, error)
	// Free releases memory returned by Alloc
	Free(addr uintptr) error
}

// Facility is the platform signing entry point.
type Facility interface {
	// NewArena returns an arena suitable for requests passed to DigitalSign,
	// or ErrUnsupported if the platform has no signing facility.
	NewArena() (Arena, error)
	// DigitalSign signs the subject described by the encoded request at addr.
	// It returns false along with the platform's last error when the platform
	// declines.
	DigitalSign(addr uintptr) (bool, error)
}

// ErrUnsupported is returned when the signing facility isn't available on
// this platform.
var ErrUnsupported = errors.New("authenticode signing facility is not available on this platform")
