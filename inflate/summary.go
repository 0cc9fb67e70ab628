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

import "sort"

// BlockSummary aggregates the tokens of one block.
type BlockSummary struct {
	Index             int       `json:"index"`
	Type              BlockType `json:"type"`
	Final             bool      `json:"final"`
	HeaderBits        int       `json:"header_bits"`
	DynamicHeaderBits int       `json:"dynamic_header_bits"`
	PadBits           int       `json:"pad_bits"`
	LenNlenBits       int       `json:"len_nlen_bits"`
	EndOfBlockBits    int       `json:"end_of_block_bits"`
	BodyBits          int       `json:"body_bits"`
	TotalBits         int       `json:"total_bits"`
	Tokens            int       `json:"tokens"`
	Literals          int       `json:"literals"`
	Matches           int       `json:"matches"`
	Raws              int       `json:"raws"`
	OutputBytes       int       `json:"output_bytes"`
}

// Summarize returns one summary per block, in block order.
func Summarize(t *Trace) []BlockSummary {
	summaries := make([]BlockSummary, len(t.Blocks))
	for i, b := range t.Blocks {
		summaries[i] = BlockSummary{
			Index:             b.Index,
			Type:              b.Type,
			Final:             b.Final,
			HeaderBits:        b.HeaderBits,
			DynamicHeaderBits: b.DynamicHeaderBits,
			PadBits:           b.PadBits,
			LenNlenBits:       b.LenNlenBits,
			EndOfBlockBits:    b.EndOfBlockBits,
			TotalBits:         b.OverheadBits(),
		}
	}

	for _, tok := range t.Tokens {
		base := tok.Base()
		if base.Block < 0 || base.Block >= len(summaries) {
			continue
		}
		s := &summaries[base.Block]
		s.Tokens++
		s.BodyBits += base.Bits
		s.OutputBytes += base.Span.Len()
		switch tok.Kind() {
		case KindLiteral:
			s.Literals++
		case KindMatch:
			s.Matches++
		case KindRaw:
			s.Raws++
		}
	}

	for i := range summaries {
		summaries[i].TotalBits += summaries[i].BodyBits
	}
	return summaries
}

// LiteralHistogram counts literal tokens per byte value within one block.
func LiteralHistogram(t *Trace, block int) [256]int {
	var counts [256]int
	for _, tok := range t.Tokens {
		lit, ok := tok.(*Literal)
		if !ok || lit.Block != block {
			continue
		}
		counts[lit.Value]++
	}
	return counts
}

// LengthGroup lists the symbols sharing one code length.
type LengthGroup struct {
	Length  int   `json:"length"`
	Symbols []int `json:"symbols"`
}

// GroupByLength groups the used symbols of a code length table by length,
// shortest first.
func GroupByLength(lengths []uint8) []LengthGroup {
	bySize := make(map[int][]int)
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		bySize[int(l)] = append(bySize[int(l)], sym)
	}

	groups := make([]LengthGroup, 0, len(bySize))
	for l, syms := range bySize {
		groups = append(groups, LengthGroup{Length: l, Symbols: syms})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Length < groups[j].Length })
	return groups
}
