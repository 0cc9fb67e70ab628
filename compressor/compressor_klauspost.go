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

package compressor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

func init() {
	Register(NameKlauspost, func() Compressor { return &gzipCompressor{name: NameKlauspost} })
	Register(NameHuffmanOnly, func() Compressor {
		return &gzipCompressor{name: NameHuffmanOnly, fixedLevel: gzip.HuffmanOnly, fixed: true}
	})
	Register(NameStored, func() Compressor {
		return &gzipCompressor{name: NameStored, fixedLevel: gzip.NoCompression, fixed: true}
	})
}

// gzipCompressor wraps klauspost/compress/gzip. Unless fixed is set the level
// follows the iteration hint.
type gzipCompressor struct {
	name       string
	fixedLevel int
	fixed      bool
}

func (c *gzipCompressor) Name() string {
	return c.name
}

// Compress produces a gzip member holding input.
func (c *gzipCompressor) Compress(ctx context.Context, input []byte, iterations int) ([]byte, error) {
	level := Level(iterations)
	if c.fixed {
		level = c.fixedLevel
	}

	return run(ctx, func() ([]byte, error) {
		var buf bytes.Buffer
		zw, err := gzip.NewWriterLevel(&buf, level)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		if _, err := zw.Write(input); err != nil {
			return nil, fmt.Errorf("%s: write: %w", c.name, err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("%s: close: %w", c.name, err)
		}
		return buf.Bytes(), nil
	})
}
