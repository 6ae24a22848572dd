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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vnetdev/signhelpers/codesign"
	"github.com/vnetdev/signhelpers/lib/certstore"
)

var (
	Version = "unknown"
	Commit  = "unknown"
)

// Defaults apply to every signing command unless overridden on the command line
type Defaults struct {
	Store        certstore.StoreName     `yaml:"store"`        // Store searched for thumbprints (default My)
	Location     certstore.StoreLocation `yaml:"location"`     // LocalMachine or CurrentUser (default LocalMachine)
	TimestampURL string                  `yaml:"timestampUrl"` // Timestamp authority, none if empty
	ChainPolicy  codesign.ChainPolicy    `yaml:"chainPolicy"`  // leaf, chain or chain-except-root
}

type Config struct {
	Defaults Defaults `yaml:"defaults"`
	// StoreRoot switches thumbprint lookups to a file-backed store tree
	StoreRoot string `yaml:"storeRoot"`

	path string
}

// New returns a configuration with the built-in defaults
func New() *Config {
	return &Config{
		Defaults: Defaults{
			Store:       certstore.My,
			Location:    certstore.LocalMachine,
			ChainPolicy: codesign.FullChainExceptRoot,
		},
	}
}

func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	config.path = path
	return config, nil
}

// Parse reads a YAML configuration. Keys that aren't recognized are an error.
func Parse(data []byte) (*Config, error) {
	config := New()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := config.Normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// Normalize fills in defaults and checks values that can be checked up front
func (config *Config) Normalize() error {
	if config.Defaults.ChainPolicy == 0 {
		config.Defaults.ChainPolicy = codesign.FullChainExceptRoot
	}
	if config.Defaults.Store.SystemName() == "" {
		return fmt.Errorf("defaults.store: unknown certificate store %s", config.Defaults.Store)
	}
	return nil
}

// Path returns the file the configuration was read from, if any
func (config *Config) Path() string {
	return config.path
}

// Opener returns the certificate store opener selected by the configuration
func (config *Config) Opener() certstore.Opener {
	return certstore.Default(config.StoreRoot)
}

// SignOptions converts the defaults to signing options. Options given later
// on the same call take precedence.
func (config *Config) SignOptions() []codesign.Option {
	d := config.Defaults
	opts := []codesign.Option{
		codesign.WithChainPolicy(d.ChainPolicy),
		codesign.WithStore(d.Store, d.Location),
	}
	if d.TimestampURL != "" {
		opts = append(opts, codesign.WithTimestampURL(d.TimestampURL))
	}
	return opts
}
