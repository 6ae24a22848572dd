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
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/vnetdev/signhelpers/codesign"
	"github.com/vnetdev/signhelpers/config"
	"github.com/vnetdev/signhelpers/lib/cryptui"
)

// InitConfig loads --config, or the default configuration if it exists. A
// missing default file means built-in defaults.
func InitConfig() error {
	if CurrentConfig != nil {
		return nil
	}
	usedDefault := false
	if ArgConfig == "" {
		ArgConfig = config.DefaultConfig()
		usedDefault = true
	}
	if ArgConfig == "" {
		CurrentConfig = config.New()
		return nil
	}
	cfg, err := config.ReadFile(ArgConfig)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && usedDefault {
			log.Debug().Str("path", ArgConfig).Msg("no configuration file, using defaults")
			CurrentConfig = config.New()
			return nil
		}
		return err
	}
	CurrentConfig = cfg
	return nil
}

// NewSigner builds a signer from the current configuration that logs to the
// CLI logger
func NewSigner() (*codesign.Signer, error) {
	if err := InitConfig(); err != nil {
		return nil, err
	}
	return &codesign.Signer{
		Opener:   CurrentConfig.Opener(),
		Facility: cryptui.Platform(),
		Logger:   log.Logger,
	}, nil
}

// Fail prints err and exits with a distinct status for signing failures
func Fail(err error) error {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(70)
	}
	return err
}
