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

	"github.com/vnetdev/signhelpers/internal/closeonce"
	"github.com/vnetdev/signhelpers/lib/x509tools"
)

// Certificate is a certificate found in a store or loaded from a file. When it
// came from the platform store, NativeHandle is the PCCERT_CONTEXT the
// signing facility needs.
type Certificate struct {
	leaf       *x509.Certificate
	chain      []*x509.Certificate
	raw        []byte
	thumbprint string
	key        crypto.PrivateKey
	hasKey     bool
	handle     uintptr
	free       func() error
	closed     closeonce.Closed
}

// New wraps an in-memory certificate and optional private key. It has no
// native handle.
func New(leaf *x509.Certificate, chain []*x509.Certificate, key crypto.PrivateKey) *Certificate {
	return &Certificate{
		leaf:       leaf,
		chain:      chain,
		raw:        leaf.Raw,
		thumbprint: x509tools.Thumbprint(leaf),
		key:        key,
		hasKey:     key != nil,
	}
}

// NewNative wraps a certificate context obtained from the platform. free, if
// not nil, is called once by Close to release the context.
func NewNative(raw []byte, hasKey bool, handle uintptr, free func() error) *Certificate {
	leaf, _ := x509.ParseCertificate(raw)
	return &Certificate{
		leaf:       leaf,
		raw:        raw,
		thumbprint: x509tools.Thumbprint(&x509.Certificate{Raw: raw}),
		hasKey:     hasKey,
		handle:     handle,
		free:       free,
	}
}

// Leaf returns the parsed certificate, or nil if the platform store held
// something crypto/x509 can't parse.
func (c *Certificate) Leaf() *x509.Certificate {
	if c == nil {
		return nil
	}
	return c.leaf
}

// Chain returns any additional certificates loaded alongside the leaf
func (c *Certificate) Chain() []*x509.Certificate { return c.chain }

// Raw returns the DER encoding
func (c *Certificate) Raw() []byte { return c.raw }

func (c *Certificate) Thumbprint() string {
	if c == nil {
		return ""
	}
	return c.thumbprint
}

func (c *Certificate) HasPrivateKey() bool { return c != nil && c.hasKey }

// PrivateKey is only available for certificates loaded from files
func (c *Certificate) PrivateKey() crypto.PrivateKey { return c.key }

// NativeHandle returns the certificate context, or 0 if there is none or it
// has been released
func (c *Certificate) NativeHandle() uintptr {
	if c == nil || c.closed.Closed() {
		return 0
	}
	return c.handle
}

// Close releases the native handle, if any. Only the first call has an effect.
func (c *Certificate) Close() error {
	if c == nil {
		return nil
	}
	return c.closed.Close(c.free)
}
