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

// Package archive reads compressed samples out of zip, 7z and rar containers.
// Zip members stored with DEFLATE can also be read as their raw compressed
// bytes, which is the form the decoder traces.
package archive

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Member methods reported in FileInfo.Method.
const (
	MethodStore   = "store"
	MethodDeflate = "deflate"
)

// FileInfo describes one member of an archive.
type FileInfo struct {
	Name string // full path within the archive, slash separated
	Size int64  // uncompressed size
	// Method is the container's compression method for the member, when the
	// format exposes one per member (zip). Empty otherwise.
	Method string
}

// Archive provides read access to the members of an archive.
type Archive interface {
	// List returns every non-directory member.
	List() ([]FileInfo, error)

	// Open opens a member for reading its uncompressed bytes.
	// Names match case-insensitively. Returns the reader and uncompressed size.
	Open(name string) (io.ReadCloser, int64, error)

	// Close releases the archive.
	Close() error
}

// RawOpener is implemented by archives that can return a member's compressed
// bytes without decompressing them.
type RawOpener interface {
	// OpenRaw returns the raw DEFLATE payload of a deflate-compressed member.
	OpenRaw(name string) ([]byte, error)
}

// Open opens an archive based on its extension (.zip, .7z or .rar).
func Open(path string) (Archive, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".zip":
		return OpenZIP(path)
	case ".7z":
		return OpenSevenZip(path)
	case ".rar":
		return OpenRAR(path)
	default:
		return nil, FormatError{Format: ext}
	}
}

// IsArchiveExtension reports whether ext (with leading dot) is a supported container.
func IsArchiveExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".zip", ".7z", ".rar":
		return true
	default:
		return false
	}
}

// ReadFile reads a whole member into memory. A limit above zero caps the
// number of bytes read; larger members fail with TooLargeError.
func ReadFile(arc Archive, name string, limit int64) ([]byte, error) {
	reader, size, err := arc.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	if limit > 0 && size > limit {
		return nil, TooLargeError{InternalPath: name, Size: size, Limit: limit}
	}

	var src io.Reader = reader
	if limit > 0 {
		// Sizes in headers can lie; read one byte past the limit to notice.
		src = io.LimitReader(reader, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s from archive: %w", name, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, TooLargeError{InternalPath: name, Size: int64(len(data)), Limit: limit}
	}
	return data, nil
}

// sameName compares member names the way archives are searched: slash
// separated and case-insensitive.
func sameName(member, want string) bool {
	return strings.EqualFold(filepath.ToSlash(member), filepath.ToSlash(want))
}
