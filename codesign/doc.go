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

// Package codesign signs files with Authenticode through the platform signing
// facility.
//
// A certificate is either passed in directly or looked up by thumbprint in a
// certificate store. Before anything native is allocated the file must exist
// and the certificate must carry a private key and the code signing extended
// key usage; violations are returned as *ArgumentError or
// *SigningCertificateError. Once the platform has been asked to sign, its
// answer is reported as a bool: false means it declined, and is not an error.
//
//	ok, err := codesign.SignFileByThumbprint("setup.exe", thumbprint,
//		codesign.WithTimestampURL("http://timestamp.digicert.com"),
//		codesign.WithStore(certstore.My, certstore.CurrentUser))
package codesign
