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
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Comparison is one compressor's result within CompareAll.
type Comparison struct {
	Name string `json:"name"`
	// Size is the length of the gzip member.
	Size   int    `json:"size"`
	Output []byte `json:"-"`
}

// CompareAll runs the named compressors concurrently on the same input and
// returns their results in the order given. An empty names list compares every
// registered compressor. The first failure cancels the others.
func CompareAll(ctx context.Context, input []byte, iterations int, names []string) ([]Comparison, error) {
	if len(names) == 0 {
		names = Names()
	}

	compressors := make([]Compressor, len(names))
	for i, name := range names {
		c, err := Get(name)
		if err != nil {
			return nil, err
		}
		compressors[i] = c
	}

	results := make([]Comparison, len(compressors))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range compressors {
		g.Go(func() error {
			out, err := c.Compress(gctx, input, iterations)
			if err != nil {
				return fmt.Errorf("compare %s: %w", c.Name(), err)
			}
			results[i] = Comparison{Name: c.Name(), Size: len(out), Output: out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
