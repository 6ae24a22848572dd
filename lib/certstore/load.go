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
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"software.sslmate.com/src/go-pkcs12"

	"github.com/vnetdev/signhelpers/lib/x509tools"
)

const asn1Magic = 0x30

var ErrNoCerts = errors.New("no certificates found")

// PasswordFunc supplies the password for a PKCS#12 file
type PasswordFunc func(path string) (string, error)

// LoadFile loads a certificate from a PKCS#12 (.pfx, .p12) file or a PEM/DER
// bundle. For PKCS#12 files on Windows the certificate is imported so it has a
// native handle usable for signing.
func LoadFile(path string, password PasswordFunc) (*Certificate, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isPKCS12(path) {
		var pw string
		if password != nil {
			pw, err = password(path)
			if err != nil {
				return nil, err
			}
		}
		cert, err := LoadPFX(blob, pw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return cert, nil
	}
	cert, err := ParseBundle(blob)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cert, nil
}

func isPKCS12(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pfx", ".p12":
		return true
	}
	return false
}

// decodePKCS12 parses a PKCS#12 blob without touching any platform store
func decodePKCS12(blob []byte, password string) (*Certificate, error) {
	priv, leaf, chain, err := pkcs12.DecodeChain(blob, password)
	if errors.Is(err, pkcs12.ErrIncorrectPassword) {
		return nil, errors.New("incorrect PKCS#12 password")
	} else if err != nil {
		return nil, err
	}
	return New(leaf, chain, priv), nil
}

// ParseBundle reads certificates and an optional private key from PEM or DER
// data. The first certificate is the leaf; a private key, if present, must
// belong to it.
func ParseBundle(blob []byte) (*Certificate, error) {
	if len(blob) > 0 && blob[0] == asn1Magic {
		certs, err := x509.ParseCertificates(blob)
		if err != nil {
			return nil, err
		} else if len(certs) == 0 {
			return nil, ErrNoCerts
		}
		return New(certs[0], certs[1:], nil), nil
	}
	var certs []*x509.Certificate
	var key crypto.PrivateKey
	for {
		var block *pem.Block
		block, blob = pem.Decode(blob)
		if block == nil {
			break
		}
		switch {
		case block.Type == "CERTIFICATE":
			newcerts, err := x509.ParseCertificates(block.Bytes)
			if err != nil {
				return nil, err
			}
			certs = append(certs, newcerts...)
		case block.Type == "PRIVATE KEY" || strings.HasSuffix(block.Type, " PRIVATE KEY"):
			if key != nil {
				return nil, errors.New("more than one private key in bundle")
			}
			var err error
			key, err = x509tools.ParsePrivateKey(block.Bytes)
			if err != nil {
				return nil, err
			}
		}
	}
	if len(certs) == 0 {
		return nil, ErrNoCerts
	}
	if key != nil && !x509tools.SameKey(certs[0].PublicKey, key) {
		return nil, errors.New("private key does not match certificate")
	}
	return New(certs[0], certs[1:], key), nil
}
