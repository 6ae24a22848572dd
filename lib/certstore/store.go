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

// Package certstore locates signing certificates, either in the Windows system
// certificate stores or in a directory tree laid out the same way.
package certstore

import (
	"errors"
	"fmt"
	"strings"
)

var errStoreClosed = errors.New("certificate store is closed")

// StoreName selects a system certificate store. The zero value is My.
type StoreName int

const (
	My StoreName = iota
	Root
	CertificateAuthority
	TrustedPublisher
	TrustedPeople
	AuthRoot
	AddressBook
	Disallowed
)

var storeNames = []struct {
	name, system string
}{
	My:                   {"My", "MY"},
	Root:                 {"Root", "Root"},
	CertificateAuthority: {"CertificateAuthority", "CA"},
	TrustedPublisher:     {"TrustedPublisher", "TrustedPublisher"},
	TrustedPeople:        {"TrustedPeople", "TrustedPeople"},
	AuthRoot:             {"AuthRoot", "AuthRoot"},
	AddressBook:          {"AddressBook", "AddressBook"},
	Disallowed:           {"Disallowed", "Disallowed"},
}

func (n StoreName) String() string {
	if n < 0 || int(n) >= len(storeNames) {
		return fmt.Sprintf("StoreName(%d)", int(n))
	}
	return storeNames[n].name
}

// SystemName is the name the platform uses for the store, e.g. "CA"
func (n StoreName) SystemName() string {
	if n < 0 || int(n) >= len(storeNames) {
		return ""
	}
	return storeNames[n].system
}

// ParseStoreName accepts either the long or the system name, ignoring case
func ParseStoreName(s string) (StoreName, error) {
	for i, n := range storeNames {
		if strings.EqualFold(s, n.name) || strings.EqualFold(s, n.system) {
			return StoreName(i), nil
		}
	}
	return 0, fmt.Errorf("unknown certificate store %q", s)
}

func (n *StoreName) UnmarshalText(text []byte) error {
	v, err := ParseStoreName(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

func (n StoreName) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// StoreLocation selects between the per-user and machine-wide stores. The
// zero value is LocalMachine.
type StoreLocation int

const (
	LocalMachine StoreLocation = iota
	CurrentUser
)

func (l StoreLocation) String() string {
	switch l {
	case LocalMachine:
		return "LocalMachine"
	case CurrentUser:
		return "CurrentUser"
	default:
		return fmt.Sprintf("StoreLocation(%d)", int(l))
	}
}

func ParseStoreLocation(s string) (StoreLocation, error) {
	switch strings.ToLower(s) {
	case "localmachine", "machine":
		return LocalMachine, nil
	case "currentuser", "user":
		return CurrentUser, nil
	}
	return 0, fmt.Errorf("unknown certificate store location %q", s)
}

func (l *StoreLocation) UnmarshalText(text []byte) error {
	v, err := ParseStoreLocation(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (l StoreLocation) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// LookupKey identifies a certificate by thumbprint within one store
type LookupKey struct {
	Name       StoreName
	Location   StoreLocation
	Thumbprint string
}

// StorePath formats the store as Location\Name
func (k LookupKey) StorePath() string {
	return k.Location.String() + `\` + k.Name.String()
}

// Store is an open, read-only certificate store.
type Store interface {
	// Certificates returns every certificate in enumeration order. The caller
	// owns the returned certificates and must Close the ones it doesn't keep.
	Certificates() ([]*Certificate, error)
	// Close releases the store handle. Certificates already returned stay valid.
	Close() error
}

// Opener opens a store read-only
type Opener func(name StoreName, location StoreLocation) (Store, error)

// CloseAll closes every certificate in certs
func CloseAll(certs []*Certificate) {
	for _, cert := range certs {
		cert.Close()
	}
}
