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
	"encoding/json"
	"fmt"
)

// BlockType is the BTYPE field of a block header.
type BlockType uint8

// Block types. BTYPE=3 is reserved and rejected by the decoder.
const (
	BlockStored  BlockType = 0
	BlockFixed   BlockType = 1
	BlockDynamic BlockType = 2
)

func (t BlockType) String() string {
	switch t {
	case BlockStored:
		return "stored"
	case BlockFixed:
		return "fixed"
	case BlockDynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("reserved(%d)", uint8(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t BlockType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// DynamicParams are the HLIT/HDIST/HCLEN counts of a dynamic block header,
// already offset by their base values (257, 1 and 4).
type DynamicParams struct {
	HLIT  int `json:"hlit"`
	HDIST int `json:"hdist"`
	HCLEN int `json:"hclen"`
}

// Block describes one DEFLATE block and how its bits were spent.
type Block struct {
	Index    int       `json:"index"`
	Final    bool      `json:"final"`
	Type     BlockType `json:"type"`
	BitStart int       `json:"bit_start"`
	BitEnd   int       `json:"bit_end"`

	// HeaderBits counts BFINAL and BTYPE (always 3).
	HeaderBits int `json:"header_bits"`
	// DynamicHeaderBits counts HLIT/HDIST/HCLEN and the transmitted code lengths.
	DynamicHeaderBits int `json:"dynamic_header_bits"`
	// PadBits counts the alignment bits skipped before LEN in a stored block.
	PadBits int `json:"pad_bits"`
	// LenNlenBits counts the LEN and NLEN fields of a stored block.
	LenNlenBits int `json:"len_nlen_bits"`
	// EndOfBlockBits counts the end-of-block code of a fixed or dynamic block.
	EndOfBlockBits int `json:"end_of_block_bits"`
	// StoredLength is LEN for stored blocks.
	StoredLength int `json:"stored_length,omitempty"`

	Params *DynamicParams `json:"params,omitempty"`

	// Code length tables. Nil for stored blocks. DistanceLengths is kept as
	// transmitted, before an all-zero table is patched for decoding.
	CodeLengthLengths    CodeLengths `json:"code_length_lengths,omitempty"`
	LiteralLengthLengths CodeLengths `json:"literal_length_lengths,omitempty"`
	DistanceLengths      CodeLengths `json:"distance_lengths,omitempty"`
}

// OverheadBits returns the bits spent on anything other than tokens.
func (b *Block) OverheadBits() int {
	return b.HeaderBits + b.DynamicHeaderBits + b.PadBits + b.LenNlenBits + b.EndOfBlockBits
}

// CodeLengths is a per-symbol code length table. It encodes to JSON as a
// list of numbers rather than base64.
type CodeLengths []uint8

// MarshalJSON implements json.Marshaler.
func (c CodeLengths) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(c))
	for i, l := range c {
		ints[i] = int(l)
	}
	return json.Marshal(ints)
}
