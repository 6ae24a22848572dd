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

package certstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/vnetdev/signhelpers/internal/closeonce"
)

// KeyringService is the OS keyring service holding PKCS#12 passwords
const KeyringService = "signhelpers"

// DirStore serves certificates from files under Root/<location>/<name>/, for
// example Root/LocalMachine/My/release.pfx. Files are enumerated in lexical
// order; anything without a certificate extension is ignored. A missing
// directory is an empty store.
type DirStore struct {
	Root     string
	Password PasswordFunc
}

// OpenDir returns an Opener over a directory tree, with PKCS#12 passwords
// taken from the OS keyring.
func OpenDir(root string) Opener {
	return DirStore{Root: root, Password: KeyringPassword}.Open
}

func (d DirStore) Open(name StoreName, location StoreLocation) (Store, error) {
	if d.Root == "" {
		return nil, errors.New("certificate store directory is not configured")
	}
	if name.SystemName() == "" {
		return nil, fmt.Errorf("unknown certificate store %s", name)
	}
	return &dirStore{
		dir:      filepath.Join(d.Root, location.String(), name.String()),
		password: d.Password,
	}, nil
}

type dirStore struct {
	dir      string
	password PasswordFunc
	closed   closeonce.Closed
}

func (s *dirStore) Certificates() ([]*Certificate, error) {
	if s.closed.Closed() {
		return nil, errStoreClosed
	}
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var certs []*Certificate
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !isCertFile(entry.Name()) {
			continue
		}
		cert, err := LoadFile(filepath.Join(s.dir, entry.Name()), s.password)
		if err != nil {
			CloseAll(certs)
			return nil, err
		}
		certs = append(certs, cert)
	}
	return certs, nil
}

func (s *dirStore) Close() error {
	return s.closed.Close(nil)
}

func isCertFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pfx", ".p12", ".pem", ".crt", ".cer", ".der":
		return true
	}
	return false
}

// KeyringPassword looks up a PKCS#12 password in the OS keyring under the
// file's base name. A missing entry means the file has no password.
func KeyringPassword(path string) (string, error) {
	password, err := keyring.Get(KeyringService, filepath.Base(path))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("reading keyring: %w", err)
	}
	return password, nil
}

// DefaultRoot is where file-backed stores live when nothing else is
// configured: $SIGNHELPERS_STORE, or a stores directory under the user config
// dir.
func DefaultRoot() string {
	if root := os.Getenv("SIGNHELPERS_STORE"); root != "" {
		return root
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "signhelpers", "stores")
	}
	return ""
}
