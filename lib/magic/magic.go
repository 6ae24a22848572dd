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

// Package magic guesses which kind of Authenticode subject a file is.
package magic

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypePECOFF
	FileTypeCAB
	FileTypeMSI
	FileTypeCatalog
	FileTypeAppx
	FileTypePowerShell
)

var typeNames = map[FileType]string{
	FileTypeUnknown:    "unknown",
	FileTypePECOFF:     "PE/COFF",
	FileTypeCAB:        "cabinet",
	FileTypeMSI:        "MSI",
	FileTypeCatalog:    "catalog",
	FileTypeAppx:       "APPX",
	FileTypePowerShell: "PowerShell",
}

func (t FileType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return typeNames[FileTypeUnknown]
}

var (
	oidSignedData = []byte{0x06, 0x09, 0x2A, 0x86, 0x48, 0x86, 0xF7, 0x0D, 0x01, 0x07, 0x02}
	oleMagic      = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}
	zipMagic      = []byte{0x50, 0x4b, 0x03, 0x04}
)

// Detect looks at the start of a file's contents
func Detect(r io.Reader) FileType {
	var buf [1024]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil && err != io.ErrUnexpectedEOF {
		return FileTypeUnknown
	}
	blob := buf[:n]
	switch {
	case bytes.HasPrefix(blob, []byte("MZ")) && len(blob) >= 0x40:
		peOff := binary.LittleEndian.Uint32(blob[0x3c:0x40])
		if uint64(peOff)+4 <= uint64(len(blob)) && bytes.Equal(blob[peOff:peOff+4], []byte("PE\x00\x00")) {
			return FileTypePECOFF
		}
	case bytes.HasPrefix(blob, []byte("MSCF")):
		return FileTypeCAB
	case bytes.HasPrefix(blob, oleMagic):
		return FileTypeMSI
	case bytes.HasPrefix(blob, zipMagic):
		if bytes.Contains(blob, []byte("AppxManifest.xml")) || bytes.Contains(blob, []byte("AppxBlockMap.xml")) {
			return FileTypeAppx
		}
	case bytes.HasPrefix(blob, []byte{0x30}) && bytes.Contains(blob, oidSignedData):
		return FileTypeCatalog
	}
	return FileTypeUnknown
}

// DetectFile detects by content, falling back to the extension for script
// types that have no magic
func DetectFile(path string) (FileType, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileTypeUnknown, err
	}
	defer f.Close()
	if t := Detect(f); t != FileTypeUnknown {
		return t, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ps1", ".psm1", ".psd1", ".ps1xml", ".psc1":
		return FileTypePowerShell, nil
	}
	return FileTypeUnknown, nil
}
