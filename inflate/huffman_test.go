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
	"testing"
)

func TestHuffmanRFCExample(t *testing.T) {
	t.Parallel()

	// RFC 1951 section 3.2.2: lengths (3, 3, 3, 3, 3, 2, 4, 4) for A..H.
	table, err := NewHuffmanTable([]uint8{3, 3, 3, 3, 3, 2, 4, 4})
	if err != nil {
		t.Fatalf("NewHuffmanTable() error = %v", err)
	}

	want := []struct {
		msb    uint32
		length int
	}{
		{0b010, 3}, {0b011, 3}, {0b100, 3}, {0b101, 3}, {0b110, 3},
		{0b00, 2}, {0b1110, 4}, {0b1111, 4},
	}

	codes := table.Codes()
	if len(codes) != len(want) {
		t.Fatalf("Codes() returned %d codes, want %d", len(codes), len(want))
	}
	for i, c := range codes {
		if c.Symbol != i || c.MSB != want[i].msb || c.Length != want[i].length {
			t.Errorf("code %d = %+v, want msb %b length %d", i, c, want[i].msb, want[i].length)
		}
		if c.LSB != reverseBits(c.MSB, c.Length) {
			t.Errorf("code %d LSB = %b, want reverse of %b", i, c.LSB, c.MSB)
		}
	}
	if table.MaxBits() != 4 {
		t.Errorf("MaxBits() = %d, want 4", table.MaxBits())
	}
}

func TestHuffmanFixedTablesDecodeEverySymbol(t *testing.T) {
	t.Parallel()

	litLen, dist := fixedTables()

	tests := []struct {
		name    string
		table   *HuffmanTable
		symbols int
		code    func(sym int) (uint32, int)
	}{
		{"literal/length", litLen, 288, fixedLitCode},
		{"distance", dist, 32, func(sym int) (uint32, int) { return uint32(sym), 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for sym := range tt.symbols {
				code, length := tt.code(sym)
				var w bitWriter
				w.writeCode(code, length)

				got, used, err := tt.table.Decode(NewBitReader(w.bytes()))
				if err != nil {
					t.Fatalf("symbol %d: Decode() error = %v", sym, err)
				}
				if got != sym || used != length {
					t.Errorf("symbol %d: Decode() = (%d, %d bits), want (%d, %d bits)",
						sym, got, used, sym, length)
				}
			}
		})
	}
}

func TestHuffmanDecodeInvalidCode(t *testing.T) {
	t.Parallel()

	// Only symbol 0 is coded ("0"), so a leading 1 bit matches nothing.
	table, err := NewHuffmanTable([]uint8{1, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = table.Decode(NewBitReader([]byte{0x01}))
	if !errors.Is(err, ErrInvalidHuffmanCode) {
		t.Errorf("Decode() error = %v, want ErrInvalidHuffmanCode", err)
	}
}

func TestHuffmanDecodeEmptyTable(t *testing.T) {
	t.Parallel()

	table, err := NewHuffmanTable(make([]uint8, 19))
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = table.Decode(NewBitReader([]byte{0x00}))
	if !errors.Is(err, ErrInvalidHuffmanCode) {
		t.Errorf("Decode() error = %v, want ErrInvalidHuffmanCode", err)
	}
}

func TestHuffmanDecodeTruncated(t *testing.T) {
	t.Parallel()

	litLen, _ := fixedTables()
	_, _, err := litLen.Decode(NewBitReader(nil))
	if !errors.Is(err, ErrTruncatedStream) {
		t.Errorf("Decode() error = %v, want ErrTruncatedStream", err)
	}
}

func TestNewHuffmanTableRejectsLongCodes(t *testing.T) {
	t.Parallel()

	if _, err := NewHuffmanTable([]uint8{1, 16}); err == nil {
		t.Error("NewHuffmanTable() with a 16-bit length succeeded, want error")
	}
}
