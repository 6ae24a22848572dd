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

//go:build !windows

package certstore

// Default returns a directory store opener rooted at root, or at DefaultRoot
// if root is empty. There are no system stores on this platform.
func Default(root string) Opener {
	if root == "" {
		root = DefaultRoot()
	}
	return OpenDir(root)
}

// Open opens a store under DefaultRoot
func Open(name StoreName, location StoreLocation) (Store, error) {
	return OpenDir(DefaultRoot())(name, location)
}

// LoadPFX decodes a PKCS#12 blob. The result has no native handle.
func LoadPFX(blob []byte, password string) (*Certificate, error) {
	return decodePKCS12(blob, password)
}
