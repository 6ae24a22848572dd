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
	"crypto/sha1"
	"crypto/x509"
	"encoding/hex"
	"strings"
	"unicode"
)

// Thumbprint returns the SHA-1 digest of the encoded certificate as upper-case
// hex, the same form certificate stores report.
func Thumbprint(cert *x509.Certificate) string {
	digest := sha1.Sum(cert.Raw)
	return strings.ToUpper(hex.EncodeToString(digest[:]))
}

// NormalizeThumbprint cleans up a thumbprint pasted from a certificate viewer:
// separators and invisible marks are dropped and hex digits upper-cased.
func NormalizeThumbprint(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'F':
			b.WriteRune(r)
		case r >= 'a' && r <= 'f':
			b.WriteRune(unicode.ToUpper(r))
		case r == ':' || unicode.IsSpace(r) || unicode.Is(unicode.Cf, r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
