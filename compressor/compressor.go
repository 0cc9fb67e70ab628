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

// Package compressor adapts external DEFLATE encoders to a common interface.
// Every compressor returns a single gzip member; callers unwrap the payload
// with the envelope package.
package compressor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registered compressor names.
const (
	NameKlauspost   = "klauspost"
	NameHuffmanOnly = "huffman-only"
	NameStored      = "stored"
	NameMatchfinder = "matchfinder"

	// DefaultName is used when no compressor is named.
	DefaultName = NameKlauspost
)

// DefaultIterations is the effort hint used when the caller passes zero.
const DefaultIterations = 10

// ErrUnknownCompressor indicates a name with no registered factory.
var ErrUnknownCompressor = errors.New("unknown compressor")

// Compressor produces a gzip member from raw input. The iteration count is an
// effort hint; implementations map it onto their own levels.
type Compressor interface {
	Name() string
	Compress(ctx context.Context, input []byte, iterations int) ([]byte, error)
}

// registry holds registered compressor factories.
var (
	registry   = make(map[string]func() Compressor)
	registryMu sync.RWMutex
)

// Register registers a compressor factory under name, replacing any previous one.
func Register(name string, factory func() Compressor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get returns a new compressor for name. An empty name selects DefaultName.
func Get(name string) (Compressor, error) {
	if name == "" {
		name = DefaultName
	}

	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompressor, name)
	}
	return factory(), nil
}

// Names returns the registered compressor names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Level maps an iteration hint onto a 1-9 compression level.
// Zero selects DefaultIterations.
func Level(iterations int) int {
	if iterations == 0 {
		iterations = DefaultIterations
	}
	return min(max(iterations, 1), 9)
}

// run executes fn on its own goroutine. If ctx ends first the result is
// abandoned; fn itself is not interrupted.
func run(ctx context.Context, fn func() ([]byte, error)) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := fn()
		done <- result{out: out, err: err}
	}()

	select {
	case r := <-done:
		return r.out, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
