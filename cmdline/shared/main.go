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

	"github.com/spf13/cobra"

	"github.com/vnetdev/signhelpers/config"
)

var (
	ArgConfig     string
	CurrentConfig *config.Config

	argVersion bool
	argDebug   bool
	argLogFile string
)

var RootCmd = &cobra.Command{
	Use:               "signhelpers",
	Short:             "Authenticode-sign files using the Windows signing facility",
	PersistentPreRunE: preRun,
	RunE:              bailUnlessVersion,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&ArgConfig, "config", "c", "", "Configuration file")
	RootCmd.PersistentFlags().BoolVar(&argVersion, "version", false, "Show version and exit")
	RootCmd.PersistentFlags().BoolVar(&argDebug, "debug", false, "Log each signing request")
	RootCmd.PersistentFlags().StringVar(&argLogFile, "log-file", "", "Write JSON logs to this file instead of the terminal")
}

func preRun(cmd *cobra.Command, args []string) error {
	if argVersion {
		fmt.Printf("signhelpers version %s (%s)\n", config.Version, config.Commit)
		os.Exit(0)
	}
	level := "info"
	if argDebug {
		level = "debug"
	}
	return SetupLogging(level, argLogFile)
}

func bailUnlessVersion(cmd *cobra.Command, args []string) error {
	if !argVersion {
		return errors.New("expected a command")
	}
	return nil
}

func Main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
