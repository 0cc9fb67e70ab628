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
	"fmt"
	"sync"
)

// maxCodeBits is the longest code length DEFLATE can describe.
const maxCodeBits = 15

// Code describes the canonical code assigned to one symbol.
type Code struct {
	Symbol int    `json:"symbol"`
	Length int    `json:"length"`
	MSB    uint32 `json:"msb"` // code as written in RFC 1951 (first bit is the most significant)
	LSB    uint32 `json:"lsb"` // bit-reversed code, as it appears in the LSB-first stream
}

// HuffmanTable decodes symbols of a canonical Huffman code.
// It is immutable after construction and safe for concurrent use.
type HuffmanTable struct {
	lookup  map[uint32]int // (length << 16 | lsb code) -> symbol
	codes   []Code
	maxBits int
}

// NewHuffmanTable builds a table from per-symbol code lengths, where a length of
// zero means the symbol is unused. Codes are assigned in (length, symbol) order
// as described in RFC 1951 section 3.2.2.
func NewHuffmanTable(lengths []uint8) (*HuffmanTable, error) {
	maxBits := 0
	for sym, l := range lengths {
		if l > maxCodeBits {
			return nil, fmt.Errorf("inflate: symbol %d has code length %d", sym, l)
		}
		maxBits = max(maxBits, int(l))
	}

	blCount := make([]uint32, maxBits+1)
	for _, l := range lengths {
		if l > 0 {
			blCount[l]++
		}
	}

	nextCode := make([]uint32, maxBits+1)
	var code uint32
	for bits := 1; bits <= maxBits; bits++ {
		code = (code + blCount[bits-1]) << 1
		nextCode[bits] = code
	}

	t := &HuffmanTable{
		lookup:  make(map[uint32]int, len(lengths)),
		maxBits: maxBits,
	}
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		msb := nextCode[l]
		nextCode[l]++
		lsb := reverseBits(msb, int(l))
		t.lookup[uint32(l)<<16|lsb] = sym
		t.codes = append(t.codes, Code{Symbol: sym, Length: int(l), MSB: msb, LSB: lsb})
	}
	return t, nil
}

// reverseBits reverses the low width bits of v.
func reverseBits(v uint32, width int) uint32 {
	var r uint32
	for range width {
		r = r<<1 | v&1
		v >>= 1
	}
	return r & (1<<width - 1)
}

// Decode reads one symbol, one bit at a time, and returns it with the number of bits used.
func (t *HuffmanTable) Decode(br *BitReader) (symbol, bitsUsed int, err error) {
	start := br.Tell()
	var accum uint32
	for l := 1; l <= t.maxBits; l++ {
		bit, err := br.ReadBits(1)
		if err != nil {
			return 0, 0, err
		}
		accum |= bit << (l - 1)
		if sym, ok := t.lookup[uint32(l)<<16|accum]; ok {
			return sym, l, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: no code within %d bits starting at bit %d",
		ErrInvalidHuffmanCode, t.maxBits, start)
}

// MaxBits returns the longest code length in the table.
func (t *HuffmanTable) MaxBits() int {
	return t.maxBits
}

// Codes returns the assigned codes in symbol order.
func (t *HuffmanTable) Codes() []Code {
	out := make([]Code, len(t.codes))
	copy(out, t.codes)
	return out
}

// Fixed Huffman code lengths from RFC 1951 section 3.2.6.
var (
	fixedOnce   sync.Once
	fixedLitLen *HuffmanTable
	fixedDist   *HuffmanTable
)

// FixedLiteralLengths returns the fixed literal/length code lengths (288 symbols).
func FixedLiteralLengths() []uint8 {
	lens := make([]uint8, 288)
	for i := range lens {
		switch {
		case i <= 143:
			lens[i] = 8
		case i <= 255:
			lens[i] = 9
		case i <= 279:
			lens[i] = 7
		default:
			lens[i] = 8
		}
	}
	return lens
}

// FixedDistanceLengths returns the fixed distance code lengths (32 symbols).
func FixedDistanceLengths() []uint8 {
	lens := make([]uint8, 32)
	for i := range lens {
		lens[i] = 5
	}
	return lens
}

func fixedTables() (litLen, dist *HuffmanTable) {
	fixedOnce.Do(func() {
		// Both length sets are within limits, so construction cannot fail.
		fixedLitLen, _ = NewHuffmanTable(FixedLiteralLengths())
		fixedDist, _ = NewHuffmanTable(FixedDistanceLengths())
	})
	return fixedLitLen, fixedDist
}
