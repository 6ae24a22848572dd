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

package certcmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vnetdev/signhelpers/cmdline/shared"
	"github.com/vnetdev/signhelpers/codesign"
	"github.com/vnetdev/signhelpers/lib/certstore"
	"github.com/vnetdev/signhelpers/lib/x509tools"
)

var CertsCmd = &cobra.Command{
	Use:   "certs",
	Short: "Inspect certificates available for signing",
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the certificates in a store",
	RunE:  listCmd,
}

var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a certificate can be used for code signing",
	RunE:  checkCmd,
}

var (
	argJSON       bool
	argSigning    bool
	argThumbprint string
)

func init() {
	shared.RootCmd.AddCommand(CertsCmd)
	CertsCmd.AddCommand(ListCmd)
	ListCmd.Flags().BoolVarP(&argJSON, "json-output", "j", false, "Print JSON instead of text")
	ListCmd.Flags().BoolVar(&argSigning, "signing-only", false, "Only list certificates eligible for code signing")
	shared.AddStoreFlags(ListCmd)

	CertsCmd.AddCommand(CheckCmd)
	CheckCmd.Flags().StringVarP(&argThumbprint, "thumbprint", "T", "", "SHA-1 thumbprint of the certificate")
	CheckCmd.Flags().BoolVarP(&argJSON, "json-output", "j", false, "Print JSON instead of text")
	shared.AddStoreFlags(CheckCmd)
}

type certInfo struct {
	Thumbprint    string    `json:"thumbprint"`
	Subject       string    `json:"subject"`
	Issuer        string    `json:"issuer"`
	NotAfter      time.Time `json:"not_after"`
	HasPrivateKey bool      `json:"has_private_key"`
	CodeSigning   bool      `json:"code_signing"`
}

func describe(cert *certstore.Certificate) certInfo {
	info := certInfo{
		Thumbprint:    cert.Thumbprint(),
		HasPrivateKey: cert.HasPrivateKey(),
		CodeSigning:   codesign.IsEligible(cert),
		Subject:       x509tools.InvalidName,
		Issuer:        x509tools.InvalidName,
	}
	if leaf := cert.Leaf(); leaf != nil {
		info.Subject = x509tools.FormatSubject(leaf)
		info.Issuer = x509tools.FormatIssuer(leaf)
		info.NotAfter = leaf.NotAfter
	}
	return info
}

func (i certInfo) write(w io.Writer) {
	fmt.Fprintf(w, "%s  %s\n", i.Thumbprint, i.Subject)
	fmt.Fprintf(w, "    issuer:       %s\n", i.Issuer)
	if !i.NotAfter.IsZero() {
		fmt.Fprintf(w, "    expires:      %s\n", i.NotAfter.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "    private key:  %t\n", i.HasPrivateKey)
	fmt.Fprintf(w, "    code signing: %t\n", i.CodeSigning)
}

// listStore writes every certificate in the store to w, closing each one
func listStore(open certstore.Opener, name certstore.StoreName, location certstore.StoreLocation, signingOnly, asJSON bool, w io.Writer) error {
	store, err := open(name, location)
	if err != nil {
		return err
	}
	defer store.Close()
	certs, err := store.Certificates()
	if err != nil {
		return err
	}
	defer certstore.CloseAll(certs)
	infos := []certInfo{}
	for _, cert := range certs {
		info := describe(cert)
		if signingOnly && !info.CodeSigning {
			continue
		}
		infos = append(infos, info)
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	for _, info := range infos {
		info.write(w)
	}
	return nil
}

func listCmd(cmd *cobra.Command, args []string) error {
	if err := shared.InitConfig(); err != nil {
		return err
	}
	name, location := shared.SelectedStore(cmd)
	err := listStore(shared.CurrentConfig.Opener(), name, location, argSigning, argJSON, os.Stdout)
	return shared.Fail(err)
}

// checkStore reports on one certificate. The error wraps
// codesign.ErrCertificateNotEligible if it can't sign.
func checkStore(open certstore.Opener, key certstore.LookupKey, asJSON bool, w io.Writer) error {
	cert, err := codesign.Resolve(open, key)
	if err != nil {
		return err
	}
	defer cert.Close()
	info := describe(cert)
	if asJSON {
		if err := json.NewEncoder(w).Encode(info); err != nil {
			return err
		}
	} else {
		info.write(w)
	}
	if !info.CodeSigning {
		return &codesign.SigningCertificateError{
			Thumbprint: key.Thumbprint,
			Store:      key.StorePath(),
			Kind:       codesign.ErrCertificateNotEligible,
			Msg:        fmt.Sprintf("certificate %s is not good for signing", key.Thumbprint),
		}
	}
	return nil
}

func checkCmd(cmd *cobra.Command, args []string) error {
	if argThumbprint == "" {
		return errors.New("--thumbprint is required")
	}
	if err := shared.InitConfig(); err != nil {
		return err
	}
	name, location := shared.SelectedStore(cmd)
	key := certstore.LookupKey{
		Name:       name,
		Location:   location,
		Thumbprint: x509tools.NormalizeThumbprint(argThumbprint),
	}
	return shared.Fail(checkStore(shared.CurrentConfig.Opener(), key, argJSON, os.Stdout))
}
