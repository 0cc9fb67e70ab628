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
	"path/filepath"
	"strings"
)

// sampleExtensions are member extensions that mark a compressed sample.
var sampleExtensions = map[string]bool{
	// DEFLATE envelopes
	".gz":      true,
	".zz":      true,
	".zlib":    true,
	".deflate": true,
	".raw":     true,

	// Outer wrappers the input layer unwraps first
	".xz":   true,
	".lzma": true,
	".zst":  true,
}

// IsSampleFile reports whether filename has a compressed-sample extension.
func IsSampleFile(filename string) bool {
	return sampleExtensions[strings.ToLower(filepath.Ext(filename))]
}

// DetectSample picks the member to trace when a bare archive is given. It
// prefers the first member with a sample extension, then the first member
// the container itself compressed with DEFLATE.
func DetectSample(arc Archive, archivePath string) (FileInfo, error) {
	files, err := arc.List()
	if err != nil {
		return FileInfo{}, err
	}

	for _, file := range files {
		if IsSampleFile(file.Name) {
			return file, nil
		}
	}
	for _, file := range files {
		if file.Method == MethodDeflate {
			return file, nil
		}
	}
	return FileInfo{}, NoSamplesError{Archive: archivePath}
}
