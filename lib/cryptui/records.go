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

// Package cryptui lays out CRYPTUI_WIZ_DIGITAL_SIGN_INFO requests in native
// memory and hands them to CryptUIWizDigitalSign.
//
// The records are built as plain Go values and only turned into raw memory by
// Encode, which writes them into an Arena using the arena's pointer width.
// Nothing outside this package deals with addresses.
package cryptui

// Values for CRYPTUI_WIZ_DIGITAL_SIGN_INFO
const (
	WizNoUI = 0x0001 // CRYPTUI_WIZ_NO_UI

	SubjectFile = 0x01 // CRYPTUI_WIZ_DIGITAL_SIGN_SUBJECT_FILE
	SubjectBlob = 0x02 // CRYPTUI_WIZ_DIGITAL_SIGN_SUBJECT_BLOB

	SigningCertContext = 0x01 // CRYPTUI_WIZ_DIGITAL_SIGN_CERT
	SigningCertStore   = 0x02 // CRYPTUI_WIZ_DIGITAL_SIGN_STORE
	SigningCertPvk     = 0x03 // CRYPTUI_WIZ_DIGITAL_SIGN_PVK

	AddCertNone        = 0x00 // only the signing certificate
	AddCertChain       = 0x01 // CRYPTUI_WIZ_DIGITAL_SIGN_ADD_CHAIN
	AddCertChainNoRoot = 0x02 // CRYPTUI_WIZ_DIGITAL_SIGN_ADD_CHAIN_NO_ROOT
	AddCertFromStore   = 0x03 // CRYPTUI_WIZ_DIGITAL_SIGN_ADD_STORE
)

// SignInfo mirrors CRYPTUI_WIZ_DIGITAL_SIGN_INFO.
type SignInfo struct {
	SubjectChoice        uint32
	FileName             string
	SigningCertChoice    uint32
	SigningCert          uintptr // PCCERT_CONTEXT, borrowed
	TimestampURL         *string
	AdditionalCertChoice uint32
	Ext                  ExtendedInfo
}

// ExtendedInfo mirrors CRYPTUI_WIZ_DIGITAL_SIGN_EXTENDED_INFO. The display
// string, additional store and attribute fields are never set and always
// encode as NULL.
type ExtendedInfo struct {
	AttrFlags        uint32
	Description      string
	MoreInfoLocation string
	HashAlg          *string // pszHashAlg, NULL selects the platform default
}

// NewSignInfo fills in a file signing request using a certificate context.
// Description and more-info strings are empty, not NULL.
func NewSignInfo(fileName string, certContext uintptr, timestampURL *string, additionalCert uint32) SignInfo {
	return SignInfo{
		SubjectChoice:        SubjectFile,
		FileName:             fileName,
		SigningCertChoice:    SigningCertContext,
		SigningCert:          certContext,
		TimestampURL:         timestampURL,
		AdditionalCertChoice: additionalCert,
	}
}
