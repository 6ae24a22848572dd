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
	"crypto/x509/pkix"
	"encoding/asn1"
	"strings"
)

const InvalidName = "<invalid>"

// Attribute names as the Windows certificate UI shows them, per [MS-OSCO]
var attrNames = []struct {
	oid  asn1.ObjectIdentifier
	name string
}{
	{asn1.ObjectIdentifier{2, 5, 4, 3}, "CN"},
	{asn1.ObjectIdentifier{2, 5, 4, 7}, "L"},
	{asn1.ObjectIdentifier{2, 5, 4, 10}, "O"},
	{asn1.ObjectIdentifier{2, 5, 4, 11}, "OU"},
	{asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}, "E"},
	{asn1.ObjectIdentifier{2, 5, 4, 6}, "C"},
	{asn1.ObjectIdentifier{2, 5, 4, 8}, "S"},
	{asn1.ObjectIdentifier{2, 5, 4, 9}, "STREET"},
	{asn1.ObjectIdentifier{2, 5, 4, 12}, "T"},
	{asn1.ObjectIdentifier{2, 5, 4, 42}, "G"},
	{asn1.ObjectIdentifier{2, 5, 4, 43}, "I"},
	{asn1.ObjectIdentifier{2, 5, 4, 4}, "SN"},
	{asn1.ObjectIdentifier{2, 5, 4, 5}, "SERIALNUMBER"},
	{asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 25}, "DC"},
	{asn1.ObjectIdentifier{2, 5, 4, 13}, "Description"},
	{asn1.ObjectIdentifier{2, 5, 4, 17}, "PostalCode"},
	{asn1.ObjectIdentifier{2, 5, 4, 18}, "POBox"},
	{asn1.ObjectIdentifier{2, 5, 4, 20}, "Phone"},
}

// FormatName renders a DER-encoded distinguished name the way Windows does,
// most specific RDN first, e.g. `CN=Build Signing, O=Example, C=US`
func FormatName(der []byte) string {
	var seq pkix.RDNSequence
	if rest, err := asn1.Unmarshal(der, &seq); err != nil || len(rest) != 0 {
		return InvalidName
	}
	rdns := make([]string, 0, len(seq))
	for i := len(seq) - 1; i >= 0; i-- {
		attrs := make([]string, 0, len(seq[i]))
		for _, attr := range seq[i] {
			value, ok := attr.Value.(string)
			if !ok {
				return InvalidName
			}
			attrs = append(attrs, attrName(attr.Type)+"="+quoteValue(value))
		}
		rdns = append(rdns, strings.Join(attrs, " + "))
	}
	return strings.Join(rdns, ", ")
}

func attrName(oid asn1.ObjectIdentifier) string {
	for _, n := range attrNames {
		if n.oid.Equal(oid) {
			return n.name
		}
	}
	return "OID." + oid.String()
}

func quoteValue(value string) string {
	quote := value == "" ||
		strings.HasPrefix(value, " ") || strings.HasSuffix(value, " ") ||
		strings.ContainsAny(value, ",+=\n<>#;'\"")
	value = strings.ReplaceAll(value, `"`, `""`)
	if quote {
		value = `"` + value + `"`
	}
	return value
}

func FormatSubject(cert *x509.Certificate) string {
	return FormatName(cert.RawSubject)
}

func FormatIssuer(cert *x509.Certificate) string {
	return FormatName(cert.RawIssuer)
}
