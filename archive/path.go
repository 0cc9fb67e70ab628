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
	"os"
	"path/filepath"
	"strings"
)

// Path is an input reference split into an archive and a member within it.
type Path struct {
	ArchivePath  string // archive file on disk
	InternalPath string // member inside the archive; empty selects DetectSample
}

func (p Path) String() string {
	if p.InternalPath == "" {
		return p.ArchivePath
	}
	return p.ArchivePath + "/" + p.InternalPath
}

// ParsePath splits a reference such as "samples.zip/dir/data.deflate" at the
// first path element that is an existing archive file. A reference that is
// itself an archive yields an empty InternalPath. It returns nil when the
// reference names no archive.
//
//nolint:nilnil // nil,nil means "not an archive reference"
func ParsePath(ref string) (*Path, error) {
	parts := strings.Split(filepath.ToSlash(ref), "/")

	for i, part := range parts {
		if !IsArchiveExtension(filepath.Ext(part)) {
			continue
		}

		candidate := filepath.FromSlash(strings.Join(parts[:i+1], "/"))
		info, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat archive %s: %w", candidate, err)
		}
		if info.IsDir() {
			continue
		}

		return &Path{
			ArchivePath:  candidate,
			InternalPath: strings.Join(parts[i+1:], "/"),
		}, nil
	}

	return nil, nil
}

// IsArchivePath reports whether ref mentions an archive element, without
// touching the filesystem.
func IsArchivePath(ref string) bool {
	for _, part := range strings.Split(filepath.ToSlash(ref), "/") {
		if IsArchiveExtension(filepath.Ext(part)) {
			return true
		}
	}
	return false
}
