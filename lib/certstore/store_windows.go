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

package certstore

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/vnetdev/signhelpers/internal/closeonce"
)

const (
	certStoreProvSystemW        = 10         // CERT_STORE_PROV_SYSTEM_W
	certSystemStoreCurrentUser  = 1 << 16    // CERT_SYSTEM_STORE_CURRENT_USER
	certSystemStoreLocalMachine = 2 << 16    // CERT_SYSTEM_STORE_LOCAL_MACHINE
	certStoreReadOnlyFlag       = 0x00008000 // CERT_STORE_READONLY_FLAG

	certKeyProvInfoPropID     = 2  // CERT_KEY_PROV_INFO_PROP_ID
	certKeyContextPropID      = 5  // CERT_KEY_CONTEXT_PROP_ID
	certNCryptKeyHandlePropID = 78 // CERT_NCRYPT_KEY_HANDLE_PROP_ID

	pkcs12NoPersistKey = 0x00008000 // PKCS12_NO_PERSIST_KEY

	cryptENotFound   = 0x80092004 // CRYPT_E_NOT_FOUND
	errorNoMoreFiles = 0x12       // ERROR_NO_MORE_FILES
)

var (
	modcrypt32 = windows.NewLazySystemDLL("crypt32.dll")

	procCertGetCertificateContextProperty = modcrypt32.NewProc("CertGetCertificateContextProperty")
)

// Default returns the system store opener, or a directory store if root is set
func Default(root string) Opener {
	if root != "" {
		return OpenDir(root)
	}
	return Open
}

// Open opens a system certificate store read-only
func Open(name StoreName, location StoreLocation) (Store, error) {
	systemName := name.SystemName()
	if systemName == "" {
		return nil, fmt.Errorf("unknown certificate store %s", name)
	}
	var flags uint32
	switch location {
	case CurrentUser:
		flags = certSystemStoreCurrentUser
	case LocalMachine:
		flags = certSystemStoreLocalMachine
	default:
		return nil, fmt.Errorf("unknown certificate store location %s", location)
	}
	storeName, err := windows.UTF16PtrFromString(systemName)
	if err != nil {
		return nil, err
	}
	h, err := windows.CertOpenStore(certStoreProvSystemW, 0, 0, flags|certStoreReadOnlyFlag, uintptr(unsafe.Pointer(storeName)))
	if err != nil {
		return nil, fmt.Errorf("opening certificate store %s\\%s: %w", location, name, err)
	}
	return &systemStore{handle: h}, nil
}

type systemStore struct {
	handle windows.Handle
	closed closeonce.Closed
}

func (s *systemStore) Certificates() ([]*Certificate, error) {
	if s.closed.Closed() {
		return nil, errStoreClosed
	}
	var certs []*Certificate
	var ctx *windows.CertContext
	for {
		var err error
		// frees the previous context
		ctx, err = windows.CertEnumCertificatesInStore(s.handle, ctx)
		if isEndOfEnum(err) {
			return certs, nil
		} else if err != nil {
			CloseAll(certs)
			return nil, err
		}
		certs = append(certs, fromContext(windows.CertDuplicateCertificateContext(ctx)))
	}
}

func (s *systemStore) Close() error {
	return s.closed.Close(func() error {
		return windows.CertCloseStore(s.handle, 0)
	})
}

func isEndOfEnum(err error) bool {
	if err == nil {
		return false
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == cryptENotFound || errno == errorNoMoreFiles
	}
	return false
}

// fromContext takes ownership of ctx. The encoded certificate is copied out,
// so a certificate crypto/x509 refuses still keeps its thumbprint.
func fromContext(ctx *windows.CertContext) *Certificate {
	raw := append([]byte(nil), unsafe.Slice(ctx.EncodedCert, ctx.Length)...)
	return NewNative(raw, hasPrivateKey(ctx), uintptr(unsafe.Pointer(ctx)), func() error {
		return windows.CertFreeCertificateContext(ctx)
	})
}

func hasPrivateKey(ctx *windows.CertContext) bool {
	for _, prop := range []uint32{certKeyProvInfoPropID, certKeyContextPropID, certNCryptKeyHandlePropID} {
		var size uint32
		r1, _, _ := procCertGetCertificateContextProperty.Call(
			uintptr(unsafe.Pointer(ctx)),
			uintptr(prop),
			0,
			uintptr(unsafe.Pointer(&size)),
		)
		if r1 != 0 {
			return true
		}
	}
	return false
}

// LoadPFX imports a PKCS#12 blob into an in-memory store and returns the
// first certificate that has a private key. The key is not persisted.
func LoadPFX(blob []byte, password string) (*Certificate, error) {
	if len(blob) == 0 {
		return nil, errors.New("empty PKCS#12 data")
	}
	// parse it in Go first, for a readable error on a wrong password
	if _, err := decodePKCS12(blob, password); err != nil {
		return nil, err
	}
	pw, err := windows.UTF16PtrFromString(password)
	if err != nil {
		return nil, err
	}
	data := windows.CryptDataBlob{Size: uint32(len(blob)), Data: &blob[0]}
	store, err := windows.PFXImportCertStore(&data, pw, pkcs12NoPersistKey)
	if err != nil {
		return nil, fmt.Errorf("importing PKCS#12: %w", err)
	}
	defer windows.CertCloseStore(store, 0)
	var ctx *windows.CertContext
	for {
		ctx, err = windows.CertEnumCertificatesInStore(store, ctx)
		if err != nil {
			break
		}
		if hasPrivateKey(ctx) {
			cert := fromContext(windows.CertDuplicateCertificateContext(ctx))
			windows.CertFreeCertificateContext(ctx)
			return cert, nil
		}
	}
	return nil, errors.New("no certificate with a private key in PKCS#12 data")
}
