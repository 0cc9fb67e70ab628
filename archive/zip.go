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
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// ZIPArchive provides access to the members of a zip file.
type ZIPArchive struct {
	reader *zip.ReadCloser
	path   string
}

// OpenZIP opens a zip file for reading.
func OpenZIP(path string) (*ZIPArchive, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open ZIP archive: %w", err)
	}
	return &ZIPArchive{reader: reader, path: path}, nil
}

// List returns all files in the zip, with their compression method.
func (za *ZIPArchive) List() ([]FileInfo, error) {
	files := make([]FileInfo, 0, len(za.reader.File))
	for _, file := range za.reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Name:   file.Name,
			Size:   int64(file.UncompressedSize64), //nolint:gosec // Safe: file sizes don't exceed int64
			Method: zipMethodName(file.Method),
		})
	}
	return files, nil
}

func (za *ZIPArchive) find(name string) (*zip.File, error) {
	for _, file := range za.reader.File {
		if sameName(file.Name, name) {
			return file, nil
		}
	}
	return nil, FileNotFoundError{Archive: za.path, InternalPath: name}
}

// Open opens a member for reading its uncompressed bytes.
func (za *ZIPArchive) Open(name string) (io.ReadCloser, int64, error) {
	file, err := za.find(name)
	if err != nil {
		return nil, 0, err
	}
	reader, err := file.Open()
	if err != nil {
		return nil, 0, fmt.Errorf("open file in ZIP: %w", err)
	}
	return reader, int64(file.UncompressedSize64), nil //nolint:gosec // Safe: file sizes don't exceed int64
}

// OpenRaw returns the compressed bytes of a deflate member. Zip stores them
// as a bare DEFLATE stream with no zlib or gzip envelope.
func (za *ZIPArchive) OpenRaw(name string) ([]byte, error) {
	file, err := za.find(name)
	if err != nil {
		return nil, err
	}
	if file.Method != zip.Deflate {
		return nil, NotDeflatedError{
			Archive:      za.path,
			InternalPath: file.Name,
			Method:       zipMethodName(file.Method),
		}
	}

	raw, err := file.OpenRaw()
	if err != nil {
		return nil, fmt.Errorf("open raw file in ZIP: %w", err)
	}
	data, err := io.ReadAll(raw)
	if err != nil {
		return nil, fmt.Errorf("read raw file in ZIP: %w", err)
	}
	return data, nil
}

// Close closes the zip file.
func (za *ZIPArchive) Close() error {
	return za.reader.Close() //nolint:wrapcheck // Close error passthrough is intentional
}

func zipMethodName(method uint16) string {
	switch method {
	case zip.Store:
		return MethodStore
	case zip.Deflate:
		return MethodDeflate
	default:
		return fmt.Sprintf("method(%d)", method)
	}
}
