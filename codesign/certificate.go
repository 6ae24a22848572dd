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

package codesign

import (
	"crypto/x509"
	"fmt"

	"github.com/vnetdev/signhelpers/lib/certstore"
	"github.com/vnetdev/signhelpers/lib/x509tools"
)

// Certificate is what the signer needs from a certificate. *certstore.Certificate
// implements it.
type Certificate interface {
	Leaf() *x509.Certificate
	HasPrivateKey() bool
	Thumbprint() string
	// NativeHandle is the PCCERT_CONTEXT, borrowed for the duration of a call
	NativeHandle() uintptr
}

var _ Certificate = (*certstore.Certificate)(nil)

// IsEligible reports whether cert can be used for code signing: the private
// key must be available and the extended key usage must list code signing.
func IsEligible(cert Certificate) bool {
	return cert != nil && cert.HasPrivateKey() && x509tools.IsCodeSigning(cert.Leaf())
}

// missing also catches a typed nil pointer, which has neither a certificate
// nor a handle
func missing(cert Certificate) bool {
	return cert == nil || (cert.Leaf() == nil && cert.NativeHandle() == 0)
}

func checkEligible(cert Certificate) error {
	if IsEligible(cert) {
		return nil
	}
	reason := "does not allow code signing"
	if !cert.HasPrivateKey() {
		reason = "has no private key"
	}
	return &SigningCertificateError{
		Thumbprint: cert.Thumbprint(),
		Kind:       ErrCertificateNotEligible,
		Msg:        fmt.Sprintf("certificate %s is not good for signing: %s", cert.Thumbprint(), reason),
	}
}

// Resolve finds the first certificate in the store whose thumbprint is
// exactly key.Thumbprint. The store is closed before returning, and so is
// every certificate except the one returned.
func Resolve(open certstore.Opener, key certstore.LookupKey) (*certstore.Certificate, error) {
	store, err := open(key.Name, key.Location)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	certs, err := store.Certificates()
	if err != nil {
		return nil, fmt.Errorf("reading certificate store %s: %w", key.StorePath(), err)
	}
	for i, cert := range certs {
		if cert.Thumbprint() == key.Thumbprint {
			certstore.CloseAll(certs[:i])
			certstore.CloseAll(certs[i+1:])
			return cert, nil
		}
	}
	certstore.CloseAll(certs)
	return nil, &SigningCertificateError{
		Thumbprint: key.Thumbprint,
		Store:      key.StorePath(),
		Kind:       ErrCertificateNotFound,
		Msg:        fmt.Sprintf("certificate with thumbprint %s was not found in %s", key.Thumbprint, key.StorePath()),
	}
}
