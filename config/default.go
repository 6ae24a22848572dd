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
	"os"
	"path/filepath"
)

// DefaultDir is the per-user configuration directory
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "signhelpers")
}

// DefaultConfig is $SIGNHELPERS_CONFIG if set, otherwise signhelpers.yml in
// DefaultDir
func DefaultConfig() string {
	if path := os.Getenv("SIGNHELPERS_CONFIG"); path != "" {
		return path
	}
	dir := DefaultDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "signhelpers.yml")
}
