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

package deflateviz

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/go-deflateviz/compressor"
	"github.com/ZaparooProject/go-deflateviz/envelope"
)

// CompressOptions controls Compress.
type CompressOptions struct {
	// Raw returns the bare DEFLATE payload instead of a zlib stream.
	Raw bool
	// Iterations is the effort hint passed to the compressor; zero selects
	// compressor.DefaultIterations.
	Iterations int
	// Compressor is a registered compressor name; empty selects compressor.DefaultName.
	Compressor string
}

// Compress runs an external compressor on input, strips its gzip envelope,
// and returns either the raw DEFLATE payload or that payload rewrapped as zlib
// with the Adler-32 of input.
func Compress(ctx context.Context, input []byte, opts CompressOptions) ([]byte, error) {
	c, err := compressor.Get(opts.Compressor)
	if err != nil {
		return nil, err
	}

	gz, err := c.Compress(ctx, input, opts.Iterations)
	if err != nil {
		return nil, fmt.Errorf("compress with %s: %w", c.Name(), err)
	}

	member, err := envelope.UnwrapGzip(gz)
	if err != nil {
		return nil, fmt.Errorf("unwrap %s output: %w", c.Name(), err)
	}
	if opts.Raw {
		return member.Payload, nil
	}
	return envelope.WrapZlib(member.Payload, envelope.Adler32(input)), nil
}

// CompressAndDecode compresses input and decodes the result in the matching mode.
func CompressAndDecode(ctx context.Context, input []byte, opts CompressOptions) ([]byte, *Result, error) {
	compressed, err := Compress(ctx, input, opts)
	if err != nil {
		return nil, nil, err
	}
	res, err := Decode(compressed, opts.Raw)
	if err != nil {
		return nil, nil, err
	}
	return compressed, res, nil
}
