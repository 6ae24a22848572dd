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
	"os"

	"github.com/rs/zerolog"

	"github.com/vnetdev/signhelpers/lib/cryptui"
)

// Request describes one signing operation. It lives for a single call and
// borrows its certificate.
type Request struct {
	FilePath    string
	Certificate Certificate
	// TimestampURL is the timestamp authority, nil for an untimestamped
	// signature. It is handed to the platform as given.
	TimestampURL *string
	ChainPolicy  ChainPolicy
}

// SignInfo builds the native record values for the request
func (r *Request) SignInfo() cryptui.SignInfo {
	return cryptui.NewSignInfo(r.FilePath, r.Certificate.NativeHandle(), r.TimestampURL, r.ChainPolicy.Code())
}

func checkFile(path string) error {
	if path == "" {
		return &ArgumentError{Name: "filePath", Reason: "is required"}
	}
	st, err := os.Stat(path)
	if err != nil {
		return &ArgumentError{Name: "filePath", Reason: "file not found", Err: err}
	} else if !st.Mode().IsRegular() {
		return &ArgumentError{Name: "filePath", Reason: "file not found: not a regular file"}
	}
	return nil
}

// timestampURL returns nil when no timestamp authority was asked for
func timestampURL(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Result is the outcome of a signing attempt that got as far as the platform
type Result struct {
	Signed bool
	// Err is the platform's reason for declining, if it gave one
	Err error
}

// invoke encodes the request into arena memory, calls the facility and frees
// the records on the way out, however the call ends.
func invoke(facility cryptui.Facility, arena cryptui.Arena, info cryptui.SignInfo, logger zerolog.Logger) (Result, error) {
	enc, err := cryptui.Encode(info, arena)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := enc.Release(); err != nil {
			logger.Error().Err(err).Msg("failed to release signing request")
		}
	}()
	ok, err := facility.DigitalSign(enc.Addr)
	if ok {
		return Result{Signed: true}, nil
	}
	return Result{Err: err}, nil
}
