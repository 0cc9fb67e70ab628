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

package inflate

import (
	"errors"
	"fmt"
)

// Errors returned while decoding a DEFLATE stream. All of them are fatal: the
// decode aborts and no partial result is returned.
var (
	// ErrTruncatedStream indicates a bit or byte read would run past the end of the buffer.
	ErrTruncatedStream = errors.New("truncated stream")

	// ErrReservedBlockType indicates a block header with BTYPE=3.
	ErrReservedBlockType = errors.New("reserved block type")

	// ErrLenNlenMismatch indicates a stored block whose NLEN is not the one's complement of LEN.
	ErrLenNlenMismatch = errors.New("stored block LEN/NLEN mismatch")

	// ErrInvalidHuffmanCode indicates no canonical code matched within the table's maximum length.
	ErrInvalidHuffmanCode = errors.New("invalid huffman code")

	// ErrInvalidRepeatContext indicates code length symbol 16 with no previous length to repeat.
	ErrInvalidRepeatContext = errors.New("repeat code with no previous length")

	// ErrInvalidLengthSymbol indicates a literal/length symbol above 285.
	ErrInvalidLengthSymbol = errors.New("invalid length symbol")

	// ErrInvalidDistanceSymbol indicates a distance symbol above 29.
	ErrInvalidDistanceSymbol = errors.New("invalid distance symbol")

	// ErrDistanceExceedsWindow indicates a back-reference before the start of the output.
	ErrDistanceExceedsWindow = errors.New("distance exceeds output window")
)

// DecodeError records where in the stream a fatal condition was detected.
type DecodeError struct {
	Err   error
	Block int // index of the block being decoded
	Bit   int // absolute bit offset of the reader when the error was raised
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("inflate: block %d, bit %d (byte %d): %v", e.Block, e.Bit, e.Bit/8, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
