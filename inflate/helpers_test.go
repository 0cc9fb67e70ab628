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

// bitWriter builds LSB-first bitstreams for tests.
type bitWriter struct {
	buf []byte
	n   int
}

// writeBits writes the low n bits of v, least significant first.
func (w *bitWriter) writeBits(v uint32, n int) {
	for i := range n {
		if w.n%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		if v>>i&1 == 1 {
			w.buf[len(w.buf)-1] |= 1 << (w.n % 8)
		}
		w.n++
	}
}

// writeCode writes a Huffman code of the given length, most significant bit first.
func (w *bitWriter) writeCode(code uint32, length int) {
	for i := length - 1; i >= 0; i-- {
		w.writeBits(code>>i&1, 1)
	}
}

// align pads with zero bits to the next byte boundary.
func (w *bitWriter) align() {
	w.n = (w.n + 7) / 8 * 8
}

func (w *bitWriter) bytes() []byte {
	return w.buf
}

// fixedLitCode returns the fixed literal/length code for sym.
func fixedLitCode(sym int) (code uint32, length int) {
	switch {
	case sym <= 143:
		return uint32(0x30 + sym), 8
	case sym <= 255:
		return uint32(0x190 + sym - 144), 9
	case sym <= 279:
		return uint32(sym - 256), 7
	default:
		return uint32(0xc0 + sym - 280), 8
	}
}

func (w *bitWriter) fixedLit(sym int) {
	w.writeCode(fixedLitCode(sym))
}

func (w *bitWriter) fixedDist(sym int) {
	w.writeCode(uint32(sym), 5)
}
