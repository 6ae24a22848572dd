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
	"encoding/binary"
	"fmt"
)

// Layout holds the field offsets of both records for one pointer width,
// following the C alignment rules (each field aligned to its own size, the
// struct padded to its largest member).
type Layout struct {
	PointerSize int

	InfoSize             int
	InfoSubjectChoice    int
	InfoFileName         int
	InfoSigningChoice    int
	InfoSigningCert      int
	InfoTimestampURL     int
	InfoAdditionalChoice int
	InfoExtInfo          int

	ExtSize            int
	ExtAttrFlags       int
	ExtDescription     int
	ExtMoreInfo        int
	ExtHashAlg         int
	ExtDisplayString   int
	ExtAdditionalStore int
	ExtAuthenticated   int
	ExtUnauthenticated int
}

type structBuilder struct {
	off, max int
}

func (b *structBuilder) field(size int) int {
	b.off = alignUp(b.off, size)
	o := b.off
	b.off += size
	if size > b.max {
		b.max = size
	}
	return o
}

func (b *structBuilder) size() int {
	return alignUp(b.off, b.max)
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}

// NewLayout computes record layouts for 4 or 8 byte pointers.
func NewLayout(pointerSize int) (*Layout, error) {
	if pointerSize != 4 && pointerSize != 8 {
		return nil, fmt.Errorf("unsupported pointer size %d", pointerSize)
	}
	p := pointerSize
	l := &Layout{PointerSize: p}

	var info structBuilder
	info.field(4) // dwSize
	l.InfoSubjectChoice = info.field(4)
	l.InfoFileName = info.field(p)
	l.InfoSigningChoice = info.field(4)
	l.InfoSigningCert = info.field(p)
	l.InfoTimestampURL = info.field(p)
	l.InfoAdditionalChoice = info.field(4)
	l.InfoExtInfo = info.field(p)
	l.InfoSize = info.size()

	var ext structBuilder
	ext.field(4) // dwSize
	l.ExtAttrFlags = ext.field(4)
	l.ExtDescription = ext.field(p)
	l.ExtMoreInfo = ext.field(p)
	l.ExtHashAlg = ext.field(p)
	l.ExtDisplayString = ext.field(p)
	l.ExtAdditionalStore = ext.field(p)
	l.ExtAuthenticated = ext.field(p)
	l.ExtUnauthenticated = ext.field(p)
	l.ExtSize = ext.size()
	return l, nil
}

// record is a little-endian scratch buffer for one struct
type record struct {
	buf []byte
	ptr int
}

func newRecord(size, pointerSize int) *record {
	r := &record{buf: make([]byte, size), ptr: pointerSize}
	binary.LittleEndian.PutUint32(r.buf, uint32(size))
	return r
}

func (r *record) putUint32(off int, v uint32) {
	binary.LittleEndian.PutUint32(r.buf[off:], v)
}

func (r *record) putPointer(off int, v uintptr) {
	if r.ptr == 8 {
		binary.LittleEndian.PutUint64(r.buf[off:], uint64(v))
	} else {
		binary.LittleEndian.PutUint32(r.buf[off:], uint32(v))
	}
}
