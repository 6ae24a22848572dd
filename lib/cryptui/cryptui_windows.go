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

//go:build windows

package cryptui

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modcryptui = windows.NewLazySystemDLL("cryptui.dll")

	procCryptUIWizDigitalSign = modcryptui.NewProc("CryptUIWizDigitalSign")
)

const lptr = 0x0040 // LMEM_FIXED | LMEM_ZEROINIT

// localArena allocates from the process heap with LocalAlloc, which is what
// cryptui expects for caller-owned records.
type localArena struct{}

func (localArena) PointerSize() int {
	return int(unsafe.Sizeof(uintptr(0)))
}

func (localArena) Alloc(data []byte) (uintptr, error) {
	addr, err := windows.LocalAlloc(lptr, uint32(len(data)))
	if err != nil {
		return 0, err
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(data)), data)
	return addr, nil
}

func (localArena) Free(addr uintptr) error {
	_, err := windows.LocalFree(windows.Handle(addr))
	return err
}

type platformFacility struct{}

// Platform returns the CryptUIWizDigitalSign facility from cryptui.dll
func Platform() Facility {
	return platformFacility{}
}

func (platformFacility) NewArena() (Arena, error) {
	if err := procCryptUIWizDigitalSign.Find(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	return localArena{}, nil
}

func (platformFacility) DigitalSign(addr uintptr) (bool, error) {
	r1, _, e1 := syscall.SyscallN(procCryptUIWizDigitalSign.Addr(),
		WizNoUI,
		0, // hwndParent
		0, // pwszWizardTitle
		addr,
		0, // ppSignContext
	)
	if r1 == 0 {
		if e1 != 0 {
			return false, e1
		}
		return false, syscall.EINVAL
	}
	return true, nil
}
