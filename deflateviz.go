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

// Package deflateviz decodes DEFLATE streams, optionally inside a zlib or gzip
// envelope, into the reconstructed bytes plus a token-level trace suitable for
// visualization, and produces such streams from external compressors.
package deflateviz

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ZaparooProject/go-deflateviz/envelope"
	"github.com/ZaparooProject/go-deflateviz/inflate"
)

// Token is an alias for inflate.Token for convenience.
type Token = inflate.Token

// Block is an alias for inflate.Block for convenience.
type Block = inflate.Block

// Envelope names the container a stream was found in.
type Envelope string

// Envelope kinds.
const (
	EnvelopeRaw  Envelope = "raw"
	EnvelopeZlib Envelope = "zlib"
	EnvelopeGzip Envelope = "gzip"
)

// Result is the outcome of decoding one buffer.
type Result struct {
	*inflate.Trace
	Envelope  Envelope               `json:"envelope"`
	Zlib      *envelope.ZlibHeader   `json:"zlib,omitempty"`
	Gzip      *envelope.GzipMember   `json:"gzip,omitempty"`
	Checksum  *envelope.Checksum     `json:"checksum,omitempty"`
	Summaries []inflate.BlockSummary `json:"summaries"`
}

// Options controls DecodeWithOptions.
type Options struct {
	// Raw treats the whole buffer as a bare DEFLATE stream.
	Raw bool
	// Logger receives per-block debug entries. Nil disables logging.
	Logger logrus.FieldLogger
}

// Decode decodes data. When raw is false a zlib header is detected and
// stripped, and its Adler-32 trailer checked; a gzip member is unwrapped the
// same way. A buffer with neither envelope is decoded as raw DEFLATE.
func Decode(data []byte, raw bool) (*Result, error) {
	return DecodeWithOptions(data, Options{Raw: raw})
}

// DecodeWithOptions decodes data as described for Decode.
func DecodeWithOptions(data []byte, opts Options) (*Result, error) {
	res := &Result{Envelope: EnvelopeRaw}
	payload := data

	if !opts.Raw {
		hdr, err := envelope.DetectZlib(data)
		if err != nil {
			return nil, fmt.Errorf("zlib envelope: %w", err)
		}
		switch {
		case hdr != nil:
			res.Envelope = EnvelopeZlib
			res.Zlib = hdr
			payload = hdr.Payload(data)
		case envelope.IsGzip(data):
			member, err := envelope.UnwrapGzip(data)
			if err != nil {
				return nil, fmt.Errorf("gzip envelope: %w", err)
			}
			res.Envelope = EnvelopeGzip
			res.Gzip = member
			payload = member.Payload
		}
	}

	var inflateOpts []inflate.Option
	if opts.Logger != nil {
		log := opts.Logger.WithField("envelope", res.Envelope)
		inflateOpts = append(inflateOpts, inflate.WithBlockHook(func(b *inflate.Block) {
			log.WithFields(logrus.Fields{
				"block": b.Index,
				"type":  b.Type,
				"final": b.Final,
				"bits":  b.BitEnd - b.BitStart,
			}).Debug("block decoded")
		}))
	}

	trace, err := inflate.Decode(payload, inflateOpts...)
	if err != nil {
		return nil, fmt.Errorf("decode %s stream: %w", res.Envelope, err)
	}
	res.Trace = trace
	res.Summaries = inflate.Summarize(trace)

	switch res.Envelope { //nolint:exhaustive // raw streams carry no checksum
	case EnvelopeZlib:
		res.Checksum = envelope.VerifyZlib(res.Zlib, trace.Output)
	case EnvelopeGzip:
		res.Checksum = envelope.VerifyGzip(res.Gzip, trace.Output)
	}

	if opts.Logger != nil && res.Checksum != nil && !res.Checksum.Match {
		opts.Logger.WithField("checksum", res.Checksum.String()).Warn("envelope checksum mismatch")
	}
	return res, nil
}
