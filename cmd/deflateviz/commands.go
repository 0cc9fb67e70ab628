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

package main

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	deflateviz "github.com/ZaparooProject/go-deflateviz"
	"github.com/ZaparooProject/go-deflateviz/compressor"
	"github.com/ZaparooProject/go-deflateviz/server"
)

// DecodeCmd decodes one reference.
type DecodeCmd struct {
	Ref    string `kong:"arg,help='Input: file, archive member, hex:<digits>, b64:<text> or - for stdin'"`
	Raw    bool   `kong:"help='Treat input as a bare DEFLATE stream',short='r'"`
	Tokens bool   `kong:"help='List every token',short='t'"`
	Tables bool   `kong:"help='Show code length tables of dynamic blocks'"`
}

func (c *DecodeCmd) Run(g *Globals) error {
	src, err := g.Resolver.Resolve(c.Ref)
	if err != nil {
		return errors.Wrap(err, "error reading input")
	}

	raw := c.Raw || g.Config.Decode.Raw || src.Hint.Raw()
	res, err := deflateviz.DecodeWithOptions(src.Data, deflateviz.Options{
		Raw:    raw,
		Logger: g.Log.WithField("ref", src.Ref),
	})
	if err != nil {
		return errors.Wrap(err, "error decoding input")
	}

	if g.JSON {
		return writeJSON(g.Stdout, struct {
			Source *sourceInfo        `json:"source"`
			Result *deflateviz.Result `json:"result"`
		}{newSourceInfo(src), res})
	}
	printSource(g.Stdout, src)
	printResult(g.Stdout, res, textOptions{tokens: c.Tokens, tables: c.Tables})
	return nil
}

// CompressCmd compresses one reference and traces the result.
type CompressCmd struct {
	Ref        string `kong:"arg,help='Input to compress (see decode), or literal text with --text'"`
	Text       bool   `kong:"help='Treat the argument as literal text'"`
	Raw        bool   `kong:"help='Emit a bare DEFLATE stream instead of zlib',short='r'"`
	Compressor string `kong:"help='Compressor name (see compressors)'"`
	Iterations int    `kong:"help='Compressor effort hint',short='i'"`
	Output     string `kong:"help='Write the compressed stream to this file',type='path',short='o'"`
	Tokens     bool   `kong:"help='List every token',short='t'"`
	Tables     bool   `kong:"help='Show code length tables of dynamic blocks'"`
}

func (c *CompressCmd) Run(g *Globals) error {
	data := []byte(c.Ref)
	if !c.Text {
		src, err := g.Resolver.Resolve(c.Ref)
		if err != nil {
			return errors.Wrap(err, "error reading input")
		}
		data = src.Data
	}

	opts := deflateviz.CompressOptions{
		Raw:        c.Raw,
		Iterations: firstNonZero(c.Iterations, g.Config.Compress.Iterations),
		Compressor: firstNonEmpty(c.Compressor, g.Config.Compress.Compressor),
	}
	g.Log.WithFields(logrus.Fields{
		"compressor": opts.Compressor,
		"iterations": opts.Iterations,
		"raw":        opts.Raw,
		"size":       len(data),
	}).Debug("compressing")

	compressed, res, err := deflateviz.CompressAndDecode(g.Ctx, data, opts)
	if err != nil {
		return errors.Wrap(err, "error compressing input")
	}

	if c.Output != "" {
		if err := os.WriteFile(c.Output, compressed, 0o644); err != nil { //nolint:gosec // output is meant to be readable
			return errors.Wrap(err, "error writing output")
		}
	}

	if g.JSON {
		return writeJSON(g.Stdout, struct {
			Compressor string             `json:"compressor"`
			Size       int                `json:"size"`
			Compressed []byte             `json:"compressed"`
			Result     *deflateviz.Result `json:"result"`
		}{opts.Compressor, len(compressed), compressed, res})
	}
	printCompressed(g.Stdout, opts.Compressor, len(data), compressed)
	printResult(g.Stdout, res, textOptions{tokens: c.Tokens, tables: c.Tables})
	return nil
}

// CompareCmd runs several compressors on the same input.
type CompareCmd struct {
	Ref         string   `kong:"arg,help='Input to compress (see decode), or literal text with --text'"`
	Text        bool     `kong:"help='Treat the argument as literal text'"`
	Compressors []string `kong:"help='Compressors to compare (default all)',sep=','"`
	Iterations  int      `kong:"help='Compressor effort hint',short='i'"`
}

func (c *CompareCmd) Run(g *Globals) error {
	data := []byte(c.Ref)
	if !c.Text {
		src, err := g.Resolver.Resolve(c.Ref)
		if err != nil {
			return errors.Wrap(err, "error reading input")
		}
		data = src.Data
	}

	results, err := compressor.CompareAll(g.Ctx, data, firstNonZero(c.Iterations, g.Config.Compress.Iterations), c.Compressors)
	if err != nil {
		return errors.Wrap(err, "error comparing compressors")
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Size < results[j].Size })

	if g.JSON {
		return writeJSON(g.Stdout, struct {
			InputSize int                     `json:"input_size"`
			Results   []compressor.Comparison `json:"results"`
		}{len(data), results})
	}
	printComparison(g.Stdout, len(data), results)
	return nil
}

// CompressorsCmd lists registered compressors.
type CompressorsCmd struct{}

func (*CompressorsCmd) Run(g *Globals) error {
	if g.JSON {
		return writeJSON(g.Stdout, struct {
			Compressors []string `json:"compressors"`
			Default     string   `json:"default"`
		}{compressor.Names(), compressor.DefaultName})
	}
	printCompressors(g.Stdout)
	return nil
}

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	Listen string `kong:"help='Address to listen on (overrides server.listen)',short='l'"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg := g.Config
	srv, err := server.New(server.Config{
		Logger:      g.Log,
		Compressor:  cfg.Compress.Compressor,
		MaxBodySize: cfg.Server.MaxBodySize,
		CacheSize:   cfg.Server.CacheSize,
		Iterations:  cfg.Compress.Iterations,
	})
	if err != nil {
		return errors.Wrap(err, "error creating server")
	}

	addr := firstNonEmpty(c.Listen, cfg.Server.Listen)
	g.Log.WithField("addr", addr).Info("serving")
	return server.ListenAndServe(g.Ctx, addr, srv, cfg.Server.ReadTimeout.Duration(), cfg.Server.WriteTimeout.Duration())
}

func firstNonZero(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
