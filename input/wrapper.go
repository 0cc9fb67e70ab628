// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-deflateviz.
//
// go-deflateviz is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-deflateviz is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-deflateviz.  If not, see <https://www.gnu.org/licenses/>.

package input

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// Wrapper removes an outer compression layer that is not itself DEFLATE.
type Wrapper interface {
	// Name identifies the layer in results and logs.
	Name() string
	// Unwrap decodes src, reading at most limit+1 bytes of output when limit > 0.
	Unwrap(src []byte, limit int64) ([]byte, error)
}

// wrapperRegistry maps lower-case file extensions to wrapper factories.
var (
	wrapperRegistry   = make(map[string]func() Wrapper)
	wrapperRegistryMu sync.RWMutex
)

func init() {
	RegisterWrapper(".xz", func() Wrapper { return xzWrapper{} })
	RegisterWrapper(".lzma", func() Wrapper { return lzmaWrapper{} })
	RegisterWrapper(".zst", func() Wrapper { return zstdWrapper{} })
}

// RegisterWrapper registers a wrapper factory for a file extension (with leading dot).
func RegisterWrapper(ext string, factory func() Wrapper) {
	wrapperRegistryMu.Lock()
	defer wrapperRegistryMu.Unlock()
	wrapperRegistry[strings.ToLower(ext)] = factory
}

// wrapperFor returns the wrapper for ext, or nil.
func wrapperFor(ext string) Wrapper {
	wrapperRegistryMu.RLock()
	factory, ok := wrapperRegistry[strings.ToLower(ext)]
	wrapperRegistryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

// readLimited drains r, failing once more than limit bytes appear.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(out)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes after unwrapping", ErrTooLarge, limit)
	}
	return out, nil
}

type xzWrapper struct{}

func (xzWrapper) Name() string {
	return "xz"
}

func (xzWrapper) Unwrap(src []byte, limit int64) ([]byte, error) {
	reader, err := xz.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: xz init: %w", ErrUnwrapFailed, err)
	}
	out, err := readLimited(reader, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: xz: %w", ErrUnwrapFailed, err)
	}
	return out, nil
}

// lzmaWrapper reads the classic .lzma format (13-byte header then LZMA stream).
type lzmaWrapper struct{}

func (lzmaWrapper) Name() string {
	return "lzma"
}

func (lzmaWrapper) Unwrap(src []byte, limit int64) ([]byte, error) {
	reader, err := lzma.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: lzma init: %w", ErrUnwrapFailed, err)
	}
	out, err := readLimited(reader, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: lzma: %w", ErrUnwrapFailed, err)
	}
	return out, nil
}

type zstdWrapper struct{}

func (zstdWrapper) Name() string {
	return "zstd"
}

func (zstdWrapper) Unwrap(src []byte, limit int64) ([]byte, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd init: %w", ErrUnwrapFailed, err)
	}
	defer decoder.Close()

	out, err := readLimited(decoder, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrUnwrapFailed, err)
	}
	return out, nil
}
