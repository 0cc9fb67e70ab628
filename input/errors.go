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

package input

import "errors"

// Errors returned while resolving input references.
var (
	// ErrEmptyReference indicates an empty reference string.
	ErrEmptyReference = errors.New("empty input reference")

	// ErrTooLarge indicates input bigger than the resolver's size limit.
	ErrTooLarge = errors.New("input exceeds size limit")

	// ErrUnwrapFailed indicates an outer .xz, .lzma or .zst layer could not be decoded.
	ErrUnwrapFailed = errors.New("unwrap failed")
)
