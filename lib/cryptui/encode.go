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
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Encoded is a request laid out in arena memory. Addr points at the
// CRYPTUI_WIZ_DIGITAL_SIGN_INFO record; the extended info record and all
// strings hang off of it.
type Encoded struct {
	Addr    uintptr
	ExtAddr uintptr

	arena    Arena
	strs     []uintptr
	released bool
}

// Encode writes info into arena memory. Ownership of every allocation passes
// to the returned Encoded, which must be released by the caller. If encoding
// fails, whatever was allocated is released before returning.
func Encode(info SignInfo, arena Arena) (_ *Encoded, err error) {
	layout, err := NewLayout(arena.PointerSize())
	if err != nil {
		return nil, err
	}
	enc := &Encoded{arena: arena}
	ok := false
	defer func() {
		if !ok {
			if rerr := enc.Release(); rerr != nil && err != nil {
				err = errors.Join(err, rerr)
			}
		}
	}()

	fileName, err := enc.wide(&info.FileName)
	if err != nil {
		return nil, fmt.Errorf("file name: %w", err)
	}
	timestampURL, err := enc.wide(info.TimestampURL)
	if err != nil {
		return nil, fmt.Errorf("timestamp URL: %w", err)
	}
	description, err := enc.wide(&info.Ext.Description)
	if err != nil {
		return nil, fmt.Errorf("description: %w", err)
	}
	moreInfo, err := enc.wide(&info.Ext.MoreInfoLocation)
	if err != nil {
		return nil, fmt.Errorf("more info location: %w", err)
	}
	hashAlg, err := enc.ansi(info.Ext.HashAlg)
	if err != nil {
		return nil, fmt.Errorf("hash algorithm: %w", err)
	}

	ext := newRecord(layout.ExtSize, layout.PointerSize)
	ext.putUint32(layout.ExtAttrFlags, info.Ext.AttrFlags)
	ext.putPointer(layout.ExtDescription, description)
	ext.putPointer(layout.ExtMoreInfo, moreInfo)
	ext.putPointer(layout.ExtHashAlg, hashAlg)
	enc.ExtAddr, err = arena.Alloc(ext.buf)
	if err != nil {
		return nil, err
	}

	rec := newRecord(layout.InfoSize, layout.PointerSize)
	rec.putUint32(layout.InfoSubjectChoice, info.SubjectChoice)
	rec.putPointer(layout.InfoFileName, fileName)
	rec.putUint32(layout.InfoSigningChoice, info.SigningCertChoice)
	rec.putPointer(layout.InfoSigningCert, info.SigningCert)
	rec.putPointer(layout.InfoTimestampURL, timestampURL)
	rec.putUint32(layout.InfoAdditionalChoice, info.AdditionalCertChoice)
	rec.putPointer(layout.InfoExtInfo, enc.ExtAddr)
	enc.Addr, err = arena.Alloc(rec.buf)
	if err != nil {
		return nil, err
	}
	ok = true
	return enc, nil
}

// Release frees the extended record, then the primary record, then the
// strings. It is safe to call more than once.
func (e *Encoded) Release() error {
	if e == nil || e.released {
		return nil
	}
	e.released = true
	var errs []error
	for _, addr := range append([]uintptr{e.ExtAddr, e.Addr}, e.strs...) {
		if addr == 0 {
			continue
		}
		if err := e.arena.Free(addr); err != nil {
			errs = append(errs, err)
		}
	}
	e.ExtAddr, e.Addr, e.strs = 0, 0, nil
	return errors.Join(errs...)
}

// wide allocates a NUL-terminated UTF-16LE copy of s. nil encodes as a NULL
// pointer, "" as an empty string.
func (e *Encoded) wide(s *string) (uintptr, error) {
	if s == nil {
		return 0, nil
	}
	if strings.IndexByte(*s, 0) >= 0 {
		return 0, errors.New("string contains NUL")
	}
	if !utf8.ValidString(*s) {
		return 0, errors.New("string is not valid UTF-8")
	}
	units := utf16.Encode([]rune(*s))
	buf := make([]byte, 2*len(units)+2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[2*i:], u)
	}
	return e.alloc(buf)
}

// ansi allocates a NUL-terminated single byte copy of s, which must be ASCII
func (e *Encoded) ansi(s *string) (uintptr, error) {
	if s == nil {
		return 0, nil
	}
	buf := make([]byte, len(*s)+1)
	for i := 0; i < len(*s); i++ {
		c := (*s)[i]
		if c == 0 || c > 0x7f {
			return 0, errors.New("string must be ASCII")
		}
		buf[i] = c
	}
	return e.alloc(buf)
}

func (e *Encoded) alloc(buf []byte) (uintptr, error) {
	addr, err := e.arena.Alloc(buf)
	if err != nil {
		return 0, err
	}
	e.strs = append(e.strs, addr)
	return addr, nil
}
