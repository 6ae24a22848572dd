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
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/vnetdev/signhelpers/lib/certstore"
)

// passwordFunc looks the PKCS#12 password up in the keyring, then asks on the
// terminal if allowed and possible
func passwordFunc(prompt bool) certstore.PasswordFunc {
	return func(path string) (string, error) {
		password, err := certstore.KeyringPassword(path)
		if err != nil || password != "" {
			return password, err
		}
		fd := int(os.Stdin.Fd())
		if !prompt || !term.IsTerminal(fd) {
			return "", nil
		}
		fmt.Fprintf(os.Stderr, "Password for %s: ", filepath.Base(path))
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(pw), nil
	}
}
