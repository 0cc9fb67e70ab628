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

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	deflateviz "github.com/ZaparooProject/go-deflateviz"
	"github.com/ZaparooProject/go-deflateviz/compressor"
	"github.com/ZaparooProject/go-deflateviz/envelope"
	"github.com/ZaparooProject/go-deflateviz/inflate"
	"github.com/ZaparooProject/go-deflateviz/input"
	"github.com/ZaparooProject/go-deflateviz/internal/binary"
)

// maxPreview caps how many bytes of data are echoed in text output.
const maxPreview = 64

type textOptions struct {
	tokens bool
	tables bool
}

type sourceInfo struct {
	*input.Source
	Size int `json:"size"`
}

func newSourceInfo(src *input.Source) *sourceInfo {
	return &sourceInfo{Source: src, Size: len(src.Data)}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func preview(b []byte) string {
	if len(b) <= maxPreview {
		return binary.Printable(b)
	}
	return binary.Printable(b[:maxPreview]) + fmt.Sprintf("... (%d more)", len(b)-maxPreview)
}

func printSource(w io.Writer, src *input.Source) {
	fmt.Fprintf(w, "Input: %s\n", src.Ref)
	if src.Member != "" {
		fmt.Fprintf(w, "Member: %s\n", src.Member)
	}
	if len(src.Unwrapped) > 0 {
		fmt.Fprintf(w, "Unwrapped: %s\n", strings.Join(src.Unwrapped, ", "))
	}
	if src.Hint != input.HintNone {
		fmt.Fprintf(w, "Hint: %s\n", src.Hint)
	}
	fmt.Fprintf(w, "Input Bytes: %d\n", len(src.Data))
}

func printCompressed(w io.Writer, name string, inputSize int, compressed []byte) {
	fmt.Fprintf(w, "Compressor: %s\n", name)
	fmt.Fprintf(w, "Input Bytes: %d\n", inputSize)
	fmt.Fprintf(w, "Compressed Bytes: %d\n", len(compressed))
	if len(compressed) <= maxPreview {
		fmt.Fprintf(w, "Compressed: %s\n", binary.FormatHex(compressed))
	} else {
		fmt.Fprintf(w, "Compressed: %s ...\n", binary.FormatHex(compressed[:maxPreview]))
	}
}

func printResult(w io.Writer, res *deflateviz.Result, opts textOptions) {
	fmt.Fprintf(w, "Envelope: %s\n", res.Envelope)
	if z := res.Zlib; z != nil {
		fmt.Fprintf(w, "Window Size: %d\n", z.WindowSize)
		fmt.Fprintf(w, "Level: %d\n", z.Level)
		if z.HasDict {
			fmt.Fprintf(w, "Dictionary ID: 0x%08x\n", z.DictID)
		}
	}
	if gz := res.Gzip; gz != nil {
		printGzip(w, gz)
	}
	if res.Checksum != nil {
		fmt.Fprintf(w, "Checksum: %s\n", res.Checksum)
	}
	fmt.Fprintf(w, "Output Bytes: %d\n", len(res.Output))
	fmt.Fprintf(w, "Bits Read: %d\n", res.BitsRead)
	if res.TrailingBits > 0 {
		fmt.Fprintf(w, "Trailing Bits: %d\n", res.TrailingBits)
	}
	fmt.Fprintf(w, "Blocks: %d\n", len(res.Blocks))

	for i, sum := range res.Summaries {
		printBlock(w, res.Trace, res.Blocks[i], sum, opts)
	}

	if opts.tokens {
		fmt.Fprintln(w, "\nTokens:")
		for _, tok := range res.Tokens {
			printToken(w, tok)
		}
	}

	fmt.Fprintf(w, "\nOutput: %s\n", preview(res.Output))
}

func printGzip(w io.Writer, gz *envelope.GzipMember) {
	if gz.Name != "" {
		fmt.Fprintf(w, "Name: %s\n", gz.Name)
	}
	if gz.Comment != "" {
		fmt.Fprintf(w, "Comment: %s\n", gz.Comment)
	}
	if gz.ModTime != 0 {
		fmt.Fprintf(w, "Modified: %d\n", gz.ModTime)
	}
	fmt.Fprintf(w, "OS: %d\n", gz.OS)
}

func printBlock(w io.Writer, trace *inflate.Trace, blk *inflate.Block, sum inflate.BlockSummary, opts textOptions) {
	final := ""
	if sum.Final {
		final = ", final"
	}
	fmt.Fprintf(w, "\nBlock %d (%s%s):\n", sum.Index, sum.Type, final)
	fmt.Fprintf(w, "  Bits: %d-%d (%d total, %d body)\n", blk.BitStart, blk.BitEnd, sum.TotalBits, sum.BodyBits)
	fmt.Fprintf(w, "  Overhead: header %d, table %d, pad %d, len/nlen %d, end of block %d\n",
		sum.HeaderBits, sum.DynamicHeaderBits, sum.PadBits, sum.LenNlenBits, sum.EndOfBlockBits)
	fmt.Fprintf(w, "  Tokens: %d (literals %d, matches %d, raw %d)\n", sum.Tokens, sum.Literals, sum.Matches, sum.Raws)
	fmt.Fprintf(w, "  Output Bytes: %d\n", sum.OutputBytes)

	if p := blk.Params; p != nil {
		fmt.Fprintf(w, "  HLIT: %d, HDIST: %d, HCLEN: %d\n", p.HLIT, p.HDIST, p.HCLEN)
	}

	if sum.Literals > 0 {
		hist := inflate.LiteralHistogram(trace, sum.Index)
		var used []int
		for b, n := range hist {
			if n > 0 {
				used = append(used, b)
			}
		}
		fmt.Fprintf(w, "  Literal Values: %s\n", binary.FormatSymbolRanges(used, true))
	}

	if !opts.tables || blk.Type != inflate.BlockDynamic {
		return
	}
	printTable(w, "Code Length Codes", blk.CodeLengthLengths, false)
	printTable(w, "Literal/Length Codes", blk.LiteralLengthLengths, true)
	printTable(w, "Distance Codes", blk.DistanceLengths, false)
}

func printTable(w io.Writer, title string, lengths []uint8, annotate bool) {
	fmt.Fprintf(w, "  %s:\n", title)
	groups := inflate.GroupByLength(lengths)
	if len(groups) == 0 {
		fmt.Fprintln(w, "    (none)")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(w, "    %2d bits: %s\n", g.Length, binary.FormatSymbolRanges(g.Symbols, annotate))
	}
}

func printToken(w io.Writer, tok inflate.Token) {
	base := tok.Base()
	prefix := fmt.Sprintf("  [%d] bits %d-%d out %d-%d", base.Block, base.BitStart, base.BitEnd, base.Span.Start, base.Span.End)
	switch t := tok.(type) {
	case *inflate.Literal:
		fmt.Fprintf(w, "%s lit %s\n", prefix, binary.FormatSymbolRanges([]int{int(t.Value)}, true))
	case *inflate.Match:
		fmt.Fprintf(w, "%s match len %d dist %d %q\n", prefix, t.MatchLength, t.MatchDistance, binary.Printable(t.Data))
	case *inflate.Raw:
		fmt.Fprintf(w, "%s raw %d bytes %q\n", prefix, len(t.Data), preview(t.Data))
	}
}

func printComparison(w io.Writer, inputSize int, results []compressor.Comparison) {
	fmt.Fprintf(w, "Input Bytes: %d\n", inputSize)
	for _, r := range results {
		ratio := 0.0
		if inputSize > 0 {
			ratio = float64(r.Size) / float64(inputSize) * 100
		}
		fmt.Fprintf(w, "  %-12s %8d bytes (%.1f%%)\n", r.Name, r.Size, ratio)
	}
}

func printCompressors(w io.Writer) {
	fmt.Fprintln(w, "Compressors:")
	for _, name := range compressor.Names() {
		marker := ""
		if name == compressor.DefaultName {
			marker = " (default)"
		}
		fmt.Fprintf(w, "  %s%s\n", name, marker)
	}
}
