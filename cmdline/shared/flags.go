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

package shared

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vnetdev/signhelpers/codesign"
	"github.com/vnetdev/signhelpers/lib/certstore"
)

type ChainPolicyFlag struct{ codesign.ChainPolicy }

func (f *ChainPolicyFlag) Set(s string) error { return f.UnmarshalText([]byte(s)) }
func (f *ChainPolicyFlag) Type() string       { return "policy" }

type StoreNameFlag struct{ certstore.StoreName }

func (f *StoreNameFlag) Set(s string) error { return f.UnmarshalText([]byte(s)) }
func (f *StoreNameFlag) Type() string       { return "store" }

type StoreLocationFlag struct{ certstore.StoreLocation }

func (f *StoreLocationFlag) Set(s string) error { return f.UnmarshalText([]byte(s)) }
func (f *StoreLocationFlag) Type() string       { return "location" }

var (
	_ pflag.Value = (*ChainPolicyFlag)(nil)
	_ pflag.Value = (*StoreNameFlag)(nil)
	_ pflag.Value = (*StoreLocationFlag)(nil)
)

var (
	argTimestamp string
	argChain     = ChainPolicyFlag{codesign.FullChainExceptRoot}
	argStore     StoreNameFlag
	argLocation  StoreLocationFlag
)

// AddSignFlags adds the options shared by every signing command
func AddSignFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&argTimestamp, "timestamp", "t", "", "Timestamp authority URL (default from config)")
	cmd.Flags().Var(&argChain, "chain", "Certificates to embed: leaf, chain or chain-except-root")
}

// AddStoreFlags adds the options selecting a certificate store
func AddStoreFlags(cmd *cobra.Command) {
	cmd.Flags().Var(&argStore, "store", "Certificate store name, e.g. My or TrustedPublisher")
	cmd.Flags().Var(&argLocation, "location", "Certificate store location: LocalMachine or CurrentUser")
}

// SignOptions combines the configured defaults with whatever was given on
// the command line
func SignOptions(cmd *cobra.Command) []codesign.Option {
	opts := CurrentConfig.SignOptions()
	flags := cmd.Flags()
	if flags.Changed("timestamp") {
		opts = append(opts, codesign.WithTimestampURL(argTimestamp))
	}
	if flags.Changed("chain") {
		opts = append(opts, codesign.WithChainPolicy(argChain.ChainPolicy))
	}
	if flags.Changed("store") || flags.Changed("location") {
		name, location := SelectedStore(cmd)
		opts = append(opts, codesign.WithStore(name, location))
	}
	return opts
}

// SelectedStore returns the store chosen on the command line, falling back
// to the configured one
func SelectedStore(cmd *cobra.Command) (certstore.StoreName, certstore.StoreLocation) {
	name := CurrentConfig.Defaults.Store
	location := CurrentConfig.Defaults.Location
	if f := cmd.Flags().Lookup("store"); f != nil && f.Changed {
		name = argStore.StoreName
	}
	if f := cmd.Flags().Lookup("location"); f != nil && f.Changed {
		location = argLocation.StoreLocation
	}
	return name, location
}
