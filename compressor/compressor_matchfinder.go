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

	"github.com/andybalholm/brotli/flate"
)

func init() {
	Register(NameMatchfinder, func() Compressor { return &matchfinderCompressor{} })
}

// matchfinderCompressor uses the brotli module's matchfinder-based gzip
// encoder. Levels 8 and 9 run its optimal-parse Pathfinder.
type matchfinderCompressor struct{}

func (*matchfinderCompressor) Name() string {
	return NameMatchfinder
}

// Compress produces a gzip member holding input.
func (*matchfinderCompressor) Compress(ctx context.Context, input []byte, iterations int) ([]byte, error) {
	level := Level(iterations)

	return run(ctx, func() ([]byte, error) {
		var buf bytes.Buffer
		zw := flate.NewGZIPWriter(&buf, level)
		if _, err := zw.Write(input); err != nil {
			return nil, fmt.Errorf("%s: write: %w", NameMatchfinder, err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("%s: close: %w", NameMatchfinder, err)
		}
		return buf.Bytes(), nil
	})
}
