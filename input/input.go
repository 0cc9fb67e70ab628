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

// Package input turns command-line and request references into the bytes the
// decoder traces. A reference is inline hex or base64, standard input, a file,
// or a member of a zip, 7z or rar archive. Files wrapped in xz, lzma or zstd
// are unwrapped first, and the file extension suggests the DEFLATE envelope.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ZaparooProject/go-deflateviz/archive"
	"github.com/ZaparooProject/go-deflateviz/internal/binary"
)

// DefaultMaxSize caps how much a Resolver reads when MaxSize is zero.
const DefaultMaxSize = 64 << 20

// Reference prefixes for inline data.
const (
	PrefixHex    = "hex:"
	PrefixBase64 = "b64:"
	StdinRef     = "-"
)

// Hint is the envelope a file name suggests. HintNone leaves detection to the decoder.
type Hint string

// Envelope hints.
const (
	HintNone Hint = ""
	HintRaw  Hint = "raw"
	HintZlib Hint = "zlib"
	HintGzip Hint = "gzip"
)

// Raw reports whether the hint asks for the buffer to be decoded without envelope detection.
func (h Hint) Raw() bool {
	return h == HintRaw
}

// HintForName returns the envelope hint for a file name's extension.
func HintForName(name string) Hint {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return HintGzip
	case ".zz", ".zlib":
		return HintZlib
	case ".deflate", ".raw":
		return HintRaw
	default:
		return HintNone
	}
}

// Source is a resolved reference.
type Source struct {
	Ref    string `json:"ref"`
	Data   []byte `json:"-"`
	Hint   Hint   `json:"hint,omitempty"`
	Member string `json:"member,omitempty"` // archive member the data came from
	// Unwrapped lists the outer layers removed, outermost first.
	Unwrapped []string `json:"unwrapped,omitempty"`
}

// Resolver reads references. The zero value reads os.Stdin with DefaultMaxSize.
type Resolver struct {
	Stdin   io.Reader
	Logger  logrus.FieldLogger
	MaxSize int64
}

// Resolve reads ref with a zero Resolver.
func Resolve(ref string) (*Source, error) {
	var r Resolver
	return r.Resolve(ref)
}

// Resolve reads ref into memory.
func (r *Resolver) Resolve(ref string) (*Source, error) {
	if ref == "" {
		return nil, ErrEmptyReference
	}

	var (
		src *Source
		err error
	)
	switch {
	case strings.HasPrefix(ref, PrefixHex):
		src, err = r.inline(ref, "hex", binary.ParseHex)
	case strings.HasPrefix(ref, PrefixBase64):
		src, err = r.inline(ref, "base64", binary.ParseBase64)
	case ref == StdinRef:
		src, err = r.stdin()
	default:
		src, err = r.path(ref)
	}
	if err != nil {
		return nil, err
	}

	r.logger().WithFields(logrus.Fields{
		"ref":       src.Ref,
		"member":    src.Member,
		"size":      len(src.Data),
		"hint":      src.Hint,
		"unwrapped": src.Unwrapped,
	}).Debug("input resolved")
	return src, nil
}

func (r *Resolver) maxSize() int64 {
	if r.MaxSize > 0 {
		return r.MaxSize
	}
	return DefaultMaxSize
}

func (r *Resolver) logger() logrus.FieldLogger {
	if r.Logger != nil {
		return r.Logger
	}
	return logrus.StandardLogger()
}

func (r *Resolver) checkSize(ref string, n int) error {
	if int64(n) > r.maxSize() {
		return fmt.Errorf("%w: %s has %d bytes, limit %d", ErrTooLarge, ref, n, r.maxSize())
	}
	return nil
}

func (r *Resolver) inline(ref, kind string, parse func(string) ([]byte, error)) (*Source, error) {
	_, text, _ := strings.Cut(ref, ":")
	data, err := parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", kind, err)
	}
	if err := r.checkSize("inline data", len(data)); err != nil {
		return nil, err
	}
	return &Source{Ref: ref, Data: data}, nil
}

func (r *Resolver) stdin() (*Source, error) {
	in := r.Stdin
	if in == nil {
		in = os.Stdin
	}
	data, err := readLimited(in, r.maxSize())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return &Source{Ref: StdinRef, Data: data}, nil
}

func (r *Resolver) path(ref string) (*Source, error) {
	archivePath, err := archive.ParsePath(ref)
	if err != nil {
		return nil, err
	}
	if archivePath != nil {
		return r.member(ref, archivePath)
	}

	info, err := os.Stat(ref)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if err := r.checkSize(ref, int(min(info.Size(), r.maxSize()+1))); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(ref) //nolint:gosec // reading user-named inputs is the point
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return r.unwrap(&Source{Ref: ref, Data: data}, filepath.Base(ref))
}

func (r *Resolver) member(ref string, p *archive.Path) (*Source, error) {
	arc, err := archive.Open(p.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", p.ArchivePath, err)
	}
	defer func() { _ = arc.Close() }()

	name := p.InternalPath
	if name == "" {
		info, err := archive.DetectSample(arc, p.ArchivePath)
		if err != nil {
			return nil, err
		}
		name = info.Name
		r.logger().WithFields(logrus.Fields{
			"archive": p.ArchivePath,
			"member":  name,
		}).Debug("detected sample in archive")
	}

	src := &Source{Ref: ref, Member: name}

	// A member without a sample extension is traced as the container's own
	// DEFLATE payload when the container exposes it.
	if opener, ok := arc.(archive.RawOpener); ok && !archive.IsSampleFile(name) {
		data, err := opener.OpenRaw(name)
		var notDeflated archive.NotDeflatedError
		switch {
		case err == nil:
			if err := r.checkSize(ref, len(data)); err != nil {
				return nil, err
			}
			src.Data = data
			src.Hint = HintRaw
			return src, nil
		case !errors.As(err, &notDeflated):
			return nil, err
		}
	}

	data, err := archive.ReadFile(arc, name, r.maxSize())
	if err != nil {
		var tooLarge archive.TooLargeError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: %w", ErrTooLarge, err)
		}
		return nil, err
	}
	src.Data = data
	return r.unwrap(src, name)
}

// unwrap strips registered outer layers named by name's extensions, then
// sets the hint from the remaining extension.
func (r *Resolver) unwrap(src *Source, name string) (*Source, error) {
	for {
		ext := filepath.Ext(name)
		wrapper := wrapperFor(ext)
		if wrapper == nil {
			break
		}
		data, err := wrapper.Unwrap(src.Data, r.maxSize())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		src.Data = data
		src.Unwrapped = append(src.Unwrapped, wrapper.Name())
		name = strings.TrimSuffix(name, ext)
	}
	src.Hint = HintForName(name)
	return src, nil
}
