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

// Package cryptuitest provides in-memory stand-ins for the native signing
// facility, for use in tests.
package cryptuitest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"

	"github.com/vnetdev/signhelpers/lib/cryptui"
)

const baseAddr = 0x10000

// MemArena is a Go heap backed arena that hands out fake addresses and counts
// allocations and releases.
type MemArena struct {
	// Pointer is the simulated pointer width, 8 if unset
	Pointer int
	// FailAt makes the Nth call to Alloc (1-based) fail. Zero never fails.
	FailAt int

	Allocs    int
	Frees     int
	FreeOrder []uintptr

	next   uintptr
	blocks map[uintptr][]byte
}

var ErrAllocFailed = errors.New("simulated allocation failure")

func NewMemArena() *MemArena {
	return &MemArena{Pointer: 8}
}

func (a *MemArena) PointerSize() int {
	if a.Pointer == 0 {
		return 8
	}
	return a.Pointer
}

func (a *MemArena) Alloc(data []byte) (uintptr, error) {
	if a.FailAt != 0 && a.Allocs+1 == a.FailAt {
		return 0, ErrAllocFailed
	}
	if a.blocks == nil {
		a.blocks = make(map[uintptr][]byte)
		a.next = baseAddr
	}
	addr := a.next
	a.next += uintptr((len(data)+15)/16*16 + 16)
	a.blocks[addr] = append([]byte(nil), data...)
	a.Allocs++
	return addr, nil
}

func (a *MemArena) Free(addr uintptr) error {
	if _, ok := a.blocks[addr]; !ok {
		return fmt.Errorf("free of unknown address %#x", addr)
	}
	delete(a.blocks, addr)
	a.Frees++
	a.FreeOrder = append(a.FreeOrder, addr)
	return nil
}

// Outstanding returns the number of allocations not yet freed
func (a *MemArena) Outstanding() int {
	return len(a.blocks)
}

// Bytes returns a copy of the block at addr, or nil if it isn't live
func (a *MemArena) Bytes(addr uintptr) []byte {
	block, ok := a.blocks[addr]
	if !ok {
		return nil
	}
	return append([]byte(nil), block...)
}

// Decode reads a request written by cryptui.Encode back out of the arena.
func (a *MemArena) Decode(addr uintptr) (cryptui.SignInfo, error) {
	var info cryptui.SignInfo
	l, err := cryptui.NewLayout(a.PointerSize())
	if err != nil {
		return info, err
	}
	rec, err := a.record(addr, l.InfoSize)
	if err != nil {
		return info, err
	}
	info.SubjectChoice = binary.LittleEndian.Uint32(rec[l.InfoSubjectChoice:])
	if info.FileName, err = a.wide(a.pointer(rec, l.InfoFileName)); err != nil {
		return info, err
	}
	info.SigningCertChoice = binary.LittleEndian.Uint32(rec[l.InfoSigningChoice:])
	info.SigningCert = a.pointer(rec, l.InfoSigningCert)
	if p := a.pointer(rec, l.InfoTimestampURL); p != 0 {
		s, err := a.wide(p)
		if err != nil {
			return info, err
		}
		info.TimestampURL = &s
	}
	info.AdditionalCertChoice = binary.LittleEndian.Uint32(rec[l.InfoAdditionalChoice:])

	ext, err := a.record(a.pointer(rec, l.InfoExtInfo), l.ExtSize)
	if err != nil {
		return info, fmt.Errorf("extended info: %w", err)
	}
	info.Ext.AttrFlags = binary.LittleEndian.Uint32(ext[l.ExtAttrFlags:])
	if info.Ext.Description, err = a.wide(a.pointer(ext, l.ExtDescription)); err != nil {
		return info, err
	}
	if info.Ext.MoreInfoLocation, err = a.wide(a.pointer(ext, l.ExtMoreInfo)); err != nil {
		return info, err
	}
	if p := a.pointer(ext, l.ExtHashAlg); p != 0 {
		block, ok := a.blocks[p]
		if !ok || len(block) == 0 || block[len(block)-1] != 0 {
			return info, fmt.Errorf("bad hash algorithm string at %#x", p)
		}
		s := string(block[:len(block)-1])
		info.Ext.HashAlg = &s
	}
	for _, off := range []int{l.ExtDisplayString, l.ExtAdditionalStore, l.ExtAuthenticated, l.ExtUnauthenticated} {
		if a.pointer(ext, off) != 0 {
			return info, fmt.Errorf("unused extended info field at offset %d is set", off)
		}
	}
	return info, nil
}

func (a *MemArena) record(addr uintptr, size int) ([]byte, error) {
	rec, ok := a.blocks[addr]
	if !ok {
		return nil, fmt.Errorf("no live record at %#x", addr)
	}
	if len(rec) != size {
		return nil, fmt.Errorf("record at %#x is %d bytes, expected %d", addr, len(rec), size)
	}
	if dwSize := binary.LittleEndian.Uint32(rec); int(dwSize) != size {
		return nil, fmt.Errorf("record at %#x has dwSize %d, expected %d", addr, dwSize, size)
	}
	return rec, nil
}

func (a *MemArena) pointer(rec []byte, off int) uintptr {
	if a.PointerSize() == 8 {
		return uintptr(binary.LittleEndian.Uint64(rec[off:]))
	}
	return uintptr(binary.LittleEndian.Uint32(rec[off:]))
}

func (a *MemArena) wide(addr uintptr) (string, error) {
	block, ok := a.blocks[addr]
	if !ok {
		return "", fmt.Errorf("no live string at %#x", addr)
	}
	if len(block)%2 != 0 || len(block) < 2 {
		return "", fmt.Errorf("bad wide string at %#x", addr)
	}
	units := make([]uint16, len(block)/2-1)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(block[2*i:])
	}
	if binary.LittleEndian.Uint16(block[len(block)-2:]) != 0 {
		return "", fmt.Errorf("wide string at %#x is not terminated", addr)
	}
	return string(utf16.Decode(units)), nil
}
