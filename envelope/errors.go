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

package envelope

import "errors"

// Errors returned while parsing zlib and gzip envelopes.
var (
	// ErrTruncatedZlibHeader indicates a zlib header (or its preset dictionary ID)
	// that runs past the end of the buffer, or leaves no room for a body and trailer.
	ErrTruncatedZlibHeader = errors.New("truncated zlib header")

	// ErrTruncatedGzipHeader indicates a gzip header field that runs past the end of the buffer.
	ErrTruncatedGzipHeader = errors.New("truncated gzip header")

	// ErrInvalidGzipMagic indicates a buffer that does not start with 1F 8B 08.
	ErrInvalidGzipMagic = errors.New("invalid gzip magic or compression method")
)
