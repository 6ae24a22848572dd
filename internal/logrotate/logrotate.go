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

// Package logrotate appends to a log file that an external tool may rotate
// out from under it.
package logrotate

import (
	"errors"
	"io/fs"
	"os"
	"sync"
)

// Writer appends to path, reopening it whenever the file at path is no longer
// the one it has open
type Writer struct {
	path string
	mu   sync.Mutex
	f    *os.File
	fi   os.FileInfo
}

func NewWriter(path string) (*Writer, error) {
	w := &Writer{path: path}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) open() error {
	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	if w.f != nil {
		w.f.Close()
	}
	w.f, w.fi = f, fi
	return nil
}

func (w *Writer) current() error {
	if w.f == nil {
		return w.open()
	}
	fi, err := os.Stat(w.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if fi != nil && os.SameFile(fi, w.fi) {
		return nil
	}
	return w.open()
}

func (w *Writer) Write(d []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.current(); err != nil {
		return 0, err
	}
	return w.f.Write(d)
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}
