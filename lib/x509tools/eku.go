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

package x509tools

import (
	"crypto/x509"
	"encoding/asn1"
	"errors"
)

var (
	OidExtensionExtKeyUsage  = asn1.ObjectIdentifier{2, 5, 29, 37}
	OidKeyPurposeCodeSigning = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 3}
)

// ExtKeyUsageOIDs returns the raw key purpose OIDs from the extended key usage
// extension, in certificate order. A certificate without the extension yields
// nil.
func ExtKeyUsageOIDs(cert *x509.Certificate) ([]asn1.ObjectIdentifier, error) {
	for _, ext := range cert.Extensions {
		if !ext.Id.Equal(OidExtensionExtKeyUsage) {
			continue
		}
		var oids []asn1.ObjectIdentifier
		rest, err := asn1.Unmarshal(ext.Value, &oids)
		if err != nil {
			return nil, err
		} else if len(rest) != 0 {
			return nil, errors.New("trailing garbage after extended key usage")
		}
		return oids, nil
	}
	return nil, nil
}

// HasExtKeyUsage reports whether the certificate lists the given key purpose.
// A malformed extension counts as not listing anything.
func HasExtKeyUsage(cert *x509.Certificate, purpose asn1.ObjectIdentifier) bool {
	oids, err := ExtKeyUsageOIDs(cert)
	if err != nil {
		return false
	}
	for _, oid := range oids {
		if oid.Equal(purpose) {
			return true
		}
	}
	return false
}

// IsCodeSigning reports whether the certificate is marked for code signing
func IsCodeSigning(cert *x509.Certificate) bool {
	return cert != nil && HasExtKeyUsage(cert, OidKeyPurposeCodeSigning)
}
