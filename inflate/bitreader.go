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

import "fmt"

// BitReader reads bits least-significant first from a byte slice.
// The slice is borrowed, not copied, and must not change while the reader is in use.
type BitReader struct {
	data []byte
	pos  int // absolute bit offset
}

// NewBitReader creates a new bit reader positioned at the first bit of data.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

// ensure checks that n more bits are available without consuming them.
func (br *BitReader) ensure(n int) error {
	if br.pos+n > len(br.data)*8 {
		return fmt.Errorf("%w: need %d bits at bit %d, have %d",
			ErrTruncatedStream, n, br.pos, len(br.data)*8-br.pos)
	}
	return nil
}

// ReadBits reads n bits (n <= 32). The first unread bit becomes bit 0 of the result.
func (br *BitReader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, fmt.Errorf("inflate: invalid bit count %d", n)
	}
	if err := br.ensure(n); err != nil {
		return 0, err
	}

	var val uint32
	shift := 0
	for n > 0 {
		idx := br.pos >> 3
		inner := br.pos & 7
		take := min(n, 8-inner)
		cur := uint32(br.data[idx]) >> inner
		val |= (cur & (1<<take - 1)) << shift
		br.pos += take
		shift += take
		n -= take
	}
	return val, nil
}

// AlignToByte skips to the next byte boundary and returns the number of bits skipped.
func (br *BitReader) AlignToByte() int {
	pad := (8 - br.pos&7) & 7
	br.pos += pad
	return pad
}

// ReadAlignedBytes copies n whole bytes from a byte-aligned position.
func (br *BitReader) ReadAlignedBytes(n int) ([]byte, error) {
	if br.pos&7 != 0 {
		return nil, fmt.Errorf("inflate: byte read at unaligned bit %d", br.pos)
	}
	if err := br.ensure(n * 8); err != nil {
		return nil, err
	}
	start := br.pos >> 3
	buf := make([]byte, n)
	copy(buf, br.data[start:start+n])
	br.pos += n * 8
	return buf, nil
}

// Tell returns the absolute bit offset of the next unread bit.
func (br *BitReader) Tell() int {
	return br.pos
}

// Remaining returns the number of unread bits.
func (br *BitReader) Remaining() int {
	return len(br.data)*8 - br.pos
}
