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

package archive

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nwaples/rardecode/v2"
)

// RARArchive provides access to the members of a rar file. RAR is read
// sequentially, so every List and Open rescans from the first volume.
type RARArchive struct {
	path string
}

// OpenRAR checks that path is readable as a rar archive.
func OpenRAR(path string) (*RARArchive, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open RAR archive: %w", err)
	}
	return &RARArchive{path: path}, nil
}

// scan walks the headers of the archive, calling fn for each file. Returning
// stop=true from fn leaves the reader positioned at that file and hands
// ownership of it to the caller.
func (ra *RARArchive) scan(fn func(r *rardecode.ReadCloser, h *rardecode.FileHeader) (stop bool)) error {
	reader, err := rardecode.OpenReader(ra.path)
	if err != nil {
		return fmt.Errorf("create RAR reader: %w", err)
	}

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = reader.Close()
			return fmt.Errorf("read RAR header: %w", err)
		}
		if header.IsDir {
			continue
		}
		if fn(reader, header) {
			return nil
		}
	}
	return reader.Close() //nolint:wrapcheck // Close error passthrough is intentional
}

// List returns all files in the rar archive.
func (ra *RARArchive) List() ([]FileInfo, error) {
	var files []FileInfo //nolint:prealloc // RAR file count unknown until full scan
	err := ra.scan(func(_ *rardecode.ReadCloser, h *rardecode.FileHeader) bool {
		files = append(files, FileInfo{Name: h.Name, Size: h.UnPackedSize})
		return false
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Open opens a member for reading its uncompressed bytes. The returned reader
// owns the underlying archive handle until closed.
func (ra *RARArchive) Open(name string) (io.ReadCloser, int64, error) {
	var (
		found io.ReadCloser
		size  int64
	)
	err := ra.scan(func(r *rardecode.ReadCloser, h *rardecode.FileHeader) bool {
		if !sameName(h.Name, name) {
			return false
		}
		found, size = r, h.UnPackedSize
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	if found == nil {
		return nil, 0, FileNotFoundError{Archive: ra.path, InternalPath: name}
	}
	return found, size, nil
}

// Close is a no-op; handles are opened per call.
func (*RARArchive) Close() error {
	return nil
}
