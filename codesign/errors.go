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
	"errors"
)

var (
	// ErrInvalidArgument is matched by every *ArgumentError
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCertificateNotFound means a thumbprint lookup came up empty
	ErrCertificateNotFound = errors.New("certificate not found")
	// ErrCertificateNotEligible means the certificate lacks a private key or
	// the code signing usage
	ErrCertificateNotEligible = errors.New("certificate is not good for signing")
	// ErrNoNativeHandle means the certificate didn't come from the platform
	// store, so the signing facility can't use it
	ErrNoNativeHandle = errors.New("certificate has no platform handle")
)

// ArgumentError reports a missing or unusable parameter. Nothing native has
// been touched when it is returned.
type ArgumentError struct {
	Name   string
	Reason string
	Err    error
}

func (e *ArgumentError) Error() string {
	msg := e.Name + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// SigningCertificateError reports that the certificate was not found or is not
// usable for signing. Kind is one of the ErrCertificate* sentinels.
type SigningCertificateError struct {
	Thumbprint string
	Store      string
	Kind       error
	Msg        string
}

func (e *SigningCertificateError) Error() string {
	return e.Msg
}

func (e *SigningCertificateError) Unwrap() error {
	return e.Kind
}
