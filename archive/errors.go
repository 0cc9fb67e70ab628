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

import "fmt"

// FormatError indicates an unsupported or invalid archive format.
type FormatError struct {
	Format string
	Reason string
}

func (e FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported archive format %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("unsupported archive format: %s", e.Format)
}

// FileNotFoundError indicates a member was not found in the archive.
type FileNotFoundError struct {
	Archive      string
	InternalPath string
}

func (e FileNotFoundError) Error() string {
	return fmt.Sprintf("file %q not found in archive %q", e.InternalPath, e.Archive)
}

// NoSamplesError indicates an archive with no member that looks like a compressed sample.
type NoSamplesError struct {
	Archive string
}

func (e NoSamplesError) Error() string {
	return fmt.Sprintf("no compressed samples found in archive %q", e.Archive)
}

// NotDeflatedError indicates a raw read of a member that is not DEFLATE compressed.
type NotDeflatedError struct {
	Archive      string
	InternalPath string
	Method       string
}

func (e NotDeflatedError) Error() string {
	return fmt.Sprintf("file %q in archive %q uses %s, not deflate", e.InternalPath, e.Archive, e.Method)
}

// TooLargeError indicates a member bigger than the caller's read limit.
type TooLargeError struct {
	InternalPath string
	Size         int64
	Limit        int64
}

func (e TooLargeError) Error() string {
	return fmt.Sprintf("file %q is %d bytes, limit is %d", e.InternalPath, e.Size, e.Limit)
}
