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
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vnetdev/signhelpers/lib/certstore"
	"github.com/vnetdev/signhelpers/lib/cryptui"
)

// Signer signs files through the platform signing facility. The zero value
// is not usable; see DefaultSigner.
type Signer struct {
	// Opener opens certificate stores for thumbprint lookups
	Opener certstore.Opener
	// Facility performs the actual signing
	Facility cryptui.Facility
	Logger   zerolog.Logger
}

// DefaultSigner uses the system certificate stores and cryptui.dll, and logs
// nothing.
func DefaultSigner() *Signer {
	return &Signer{
		Opener:   certstore.Open,
		Facility: cryptui.Platform(),
		Logger:   zerolog.Nop(),
	}
}

type options struct {
	timestampURL string
	chainPolicy  ChainPolicy
	store        certstore.StoreName
	location     certstore.StoreLocation
}

type Option func(*options)

// WithTimestampURL timestamps the signature using the given authority
func WithTimestampURL(url string) Option {
	return func(o *options) { o.timestampURL = url }
}

// WithChainPolicy selects which chain certificates are embedded. The default
// is FullChainExceptRoot.
func WithChainPolicy(policy ChainPolicy) Option {
	return func(o *options) { o.chainPolicy = policy }
}

// WithStore selects the store searched by thumbprint lookups. The default is
// My in LocalMachine.
func WithStore(name certstore.StoreName, location certstore.StoreLocation) Option {
	return func(o *options) {
		o.store = name
		o.location = location
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		chainPolicy: FullChainExceptRoot,
		store:       certstore.My,
		location:    certstore.LocalMachine,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SignFile signs the file at path with cert. Missing arguments, a missing
// file, or an ineligible certificate return an error before anything is
// signed. Otherwise the result is whether the platform signed the file; a
// refusal is false with a nil error.
func (s *Signer) SignFile(path string, cert Certificate, opts ...Option) (bool, error) {
	res, err := s.SignFileResult(path, cert, opts...)
	return res.Signed, err
}

// SignFileResult is SignFile, but also returns the platform's reason when it
// declines.
func (s *Signer) SignFileResult(path string, cert Certificate, opts ...Option) (Result, error) {
	o := newOptions(opts)
	if missing(cert) {
		return Result{}, &ArgumentError{Name: "certificate", Reason: "is required"}
	}
	if err := checkFile(path); err != nil {
		return Result{}, err
	}
	return s.sign(&Request{
		FilePath:     path,
		Certificate:  cert,
		TimestampURL: timestampURL(o.timestampURL),
		ChainPolicy:  o.chainPolicy,
	})
}

// SignFileByThumbprint looks up the certificate by thumbprint in the selected
// store (see WithStore) and signs the file at path with it.
func (s *Signer) SignFileByThumbprint(path, thumbprint string, opts ...Option) (bool, error) {
	res, err := s.SignFileByThumbprintResult(path, thumbprint, opts...)
	return res.Signed, err
}

// SignFileByThumbprintResult is SignFileByThumbprint, but also returns the
// platform's reason when it declines.
func (s *Signer) SignFileByThumbprintResult(path, thumbprint string, opts ...Option) (Result, error) {
	o := newOptions(opts)
	if thumbprint == "" {
		return Result{}, &ArgumentError{Name: "certificateThumbprint", Reason: "is required"}
	}
	if err := checkFile(path); err != nil {
		return Result{}, err
	}
	if s.Opener == nil {
		return Result{}, &ArgumentError{Name: "storeName", Reason: "no certificate store opener configured"}
	}
	cert, err := Resolve(s.Opener, certstore.LookupKey{
		Name:       o.store,
		Location:   o.location,
		Thumbprint: thumbprint,
	})
	if err != nil {
		return Result{}, err
	}
	defer cert.Close()
	return s.sign(&Request{
		FilePath:     path,
		Certificate:  cert,
		TimestampURL: timestampURL(o.timestampURL),
		ChainPolicy:  o.chainPolicy,
	})
}

func (s *Signer) sign(req *Request) (Result, error) {
	if err := checkEligible(req.Certificate); err != nil {
		return Result{}, err
	}
	if s.Facility == nil {
		return Result{}, cryptui.ErrUnsupported
	}
	arena, err := s.Facility.NewArena()
	if err != nil {
		return Result{}, err
	}
	if req.Certificate.NativeHandle() == 0 {
		return Result{}, &SigningCertificateError{
			Thumbprint: req.Certificate.Thumbprint(),
			Kind:       ErrNoNativeHandle,
			Msg:        fmt.Sprintf("certificate %s is not backed by the platform certificate store", req.Certificate.Thumbprint()),
		}
	}
	ev := s.Logger.Debug().
		Str("file", req.FilePath).
		Str("thumbprint", req.Certificate.Thumbprint()).
		Stringer("chain", req.ChainPolicy)
	if req.TimestampURL != nil {
		ev = ev.Str("timestamp", *req.TimestampURL)
	}
	ev.Msg("signing file")
	res, err := invoke(s.Facility, arena, req.SignInfo(), s.Logger)
	if err != nil {
		return res, fmt.Errorf("building signing request: %w", err)
	}
	if !res.Signed {
		s.Logger.Debug().Err(res.Err).Str("file", req.FilePath).Msg("signing declined")
	}
	return res, nil
}

// Handle attaches signing to a certificate
type Handle struct {
	Certificate
	signer *Signer
}

// Handle binds cert to this signer
func (s *Signer) Handle(cert Certificate) *Handle {
	return &Handle{Certificate: cert, signer: s}
}

// SignFile signs the file at path with the bound certificate
func (h *Handle) SignFile(path string, opts ...Option) (bool, error) {
	return h.signer.SignFile(path, h.Certificate, opts...)
}

// Wrap binds cert to the default signer
func Wrap(cert Certificate) *Handle {
	return DefaultSigner().Handle(cert)
}

// SignFile signs using DefaultSigner
func SignFile(path string, cert Certificate, opts ...Option) (bool, error) {
	return DefaultSigner().SignFile(path, cert, opts...)
}

// SignFileByThumbprint signs using DefaultSigner
func SignFileByThumbprint(path, thumbprint string, opts ...Option) (bool, error) {
	return DefaultSigner().SignFileByThumbprint(path, thumbprint, opts...)
}
