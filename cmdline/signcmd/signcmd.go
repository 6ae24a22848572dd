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

package signcmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vnetdev/signhelpers/cmdline/shared"
	"github.com/vnetdev/signhelpers/codesign"
	"github.com/vnetdev/signhelpers/lib/certstore"
	"github.com/vnetdev/signhelpers/lib/magic"
	"github.com/vnetdev/signhelpers/lib/x509tools"
)

var SignCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a file with a certificate loaded from a PKCS#12 or PEM file",
	RunE:  signCmd,
}

var SignThumbprintCmd = &cobra.Command{
	Use:   "sign-thumbprint",
	Short: "Sign a file with a certificate from the system certificate store",
	RunE:  signThumbprintCmd,
}

var (
	argFile       string
	argCertFile   string
	argThumbprint string
	argNoPrompt   bool
)

func init() {
	shared.RootCmd.AddCommand(SignCmd)
	SignCmd.Flags().StringVarP(&argFile, "file", "f", "", "File to sign")
	SignCmd.Flags().StringVarP(&argCertFile, "cert-file", "C", "", "PKCS#12 (.pfx) or PEM file holding the certificate and key")
	SignCmd.Flags().BoolVar(&argNoPrompt, "no-prompt", false, "Don't prompt for a PKCS#12 password that isn't in the keyring")
	shared.AddSignFlags(SignCmd)

	shared.RootCmd.AddCommand(SignThumbprintCmd)
	SignThumbprintCmd.Flags().StringVarP(&argFile, "file", "f", "", "File to sign")
	SignThumbprintCmd.Flags().StringVarP(&argThumbprint, "thumbprint", "T", "", "SHA-1 thumbprint of the signing certificate")
	shared.AddSignFlags(SignThumbprintCmd)
	shared.AddStoreFlags(SignThumbprintCmd)
}

func signCmd(cmd *cobra.Command, args []string) error {
	if argFile == "" || argCertFile == "" {
		return errors.New("--file and --cert-file are required")
	}
	signer, err := shared.NewSigner()
	if err != nil {
		return err
	}
	checkFileType(argFile)
	cert, err := certstore.LoadFile(argCertFile, passwordFunc(!argNoPrompt))
	if err != nil {
		return shared.Fail(fmt.Errorf("loading certificate: %w", err))
	}
	defer cert.Close()
	res, err := signer.SignFileResult(argFile, cert, shared.SignOptions(cmd)...)
	return shared.Fail(report(os.Stderr, argFile, res, err))
}

func signThumbprintCmd(cmd *cobra.Command, args []string) error {
	if argFile == "" || argThumbprint == "" {
		return errors.New("--file and --thumbprint are required")
	}
	signer, err := shared.NewSigner()
	if err != nil {
		return err
	}
	checkFileType(argFile)
	thumbprint := x509tools.NormalizeThumbprint(argThumbprint)
	res, err := signer.SignFileByThumbprintResult(argFile, thumbprint, shared.SignOptions(cmd)...)
	return shared.Fail(report(os.Stderr, argFile, res, err))
}

var errDeclined = errors.New("signing was declined")

// checkFileType warns about files Authenticode probably can't sign. The
// platform has the final say.
func checkFileType(path string) magic.FileType {
	ft, err := magic.DetectFile(path)
	if err != nil {
		// reported properly by the signer
		return magic.FileTypeUnknown
	}
	if ft == magic.FileTypeUnknown {
		log.Warn().Str("file", path).Msg("file does not look like a PE, cabinet, MSI, catalog, APPX or PowerShell file")
		return ft
	}
	log.Debug().Str("file", path).Stringer("type", ft).Msg("detected file type")
	return ft
}

// report turns the outcome of a signing call into the command's error
func report(w io.Writer, path string, res codesign.Result, err error) error {
	if err != nil {
		return err
	}
	if !res.Signed {
		if res.Err != nil {
			return fmt.Errorf("%s: %w: %w", path, errDeclined, res.Err)
		}
		return fmt.Errorf("%s: %w", path, errDeclined)
	}
	log.Debug().Str("file", path).Msg("signed")
	fmt.Fprintf(w, "Signed %s\n", path)
	return nil
}
