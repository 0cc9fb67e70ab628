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

package binary

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr error
	}{
		{"spaced", "78 9c 03 00", []byte{0x78, 0x9C, 0x03, 0x00}, nil},
		{"packed upper", "789C0300", []byte{0x78, 0x9C, 0x03, 0x00}, nil},
		{"prefixed", "0x78, 0x9c", []byte{0x78, 0x9C}, nil},
		{"newlines and colons", "78:9c\n03:00", []byte{0x78, 0x9C, 0x03, 0x00}, nil},
		{"empty", "", []byte{}, nil},
		{"only separators", " ,\n", []byte{}, nil},
		{"odd length", "789", nil, ErrOddHexLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseHex(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseHex(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr == nil && !bytes.Equal(got, tt.want) {
				t.Errorf("ParseHex(%q) = % X, want % X", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatHex(t *testing.T) {
	t.Parallel()

	if got := FormatHex([]byte{0x78, 0x9C, 0x0A}); got != "78 9c 0a" {
		t.Errorf("FormatHex() = %q, want %q", got, "78 9c 0a")
	}
	if got := FormatHex(nil); got != "" {
		t.Errorf("FormatHex(nil) = %q, want empty", got)
	}
}

func TestParseBase64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{"padded", "eJwDAA==", []byte{0x78, 0x9C, 0x03, 0x00}, false},
		{"unpadded", "eJwDAA", []byte{0x78, 0x9C, 0x03, 0x00}, false},
		{"whitespace", "  eJwDAA==\n", []byte{0x78, 0x9C, 0x03, 0x00}, false},
		{"invalid", "!!!", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseBase64(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBase64(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !bytes.Equal(got, tt.want) {
				t.Errorf("ParseBase64(%q) = % X, want % X", tt.input, got, tt.want)
			}
		})
	}
}

func TestPrintable(t *testing.T) {
	t.Parallel()

	if got := Printable([]byte("ab\x00\ncd\xff")); got != "ab..cd." {
		t.Errorf("Printable() = %q, want %q", got, "ab..cd.")
	}
}

func TestFormatSymbolRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		symbols  []int
		annotate bool
		want     string
	}{
		{"empty", nil, true, ""},
		{"single", []int{7}, false, "7"},
		{"runs", []int{0, 1, 2, 5, 7, 8}, false, "0–2, 5, 7–8"},
		{"unsorted with duplicates", []int{8, 7, 7, 0}, false, "0, 7–8"},
		{"uppercase letters", []int{65, 66, 67, 68, 69, 70, 71, 72, 73, 74, 75, 76, 77, 78, 79, 80, 81, 82, 83, 84, 85, 86, 87, 88, 89, 90}, true, "65–90 ('A'–'Z')"},
		{"single printable", []int{32}, true, "32 (' ')"},
		{"control only", []int{0, 1, 2}, true, "0–2"},
		{"straddles printable start", []int{30, 31, 32, 33}, true, "30–33 (' '–'!')"},
		{"beyond literals", []int{256, 257}, true, "256–257"},
		{"escaped quote", []int{39}, true, `39 ('\'')`},
		{"escaped backslash", []int{92}, true, `92 ('\\')`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatSymbolRanges(tt.symbols, tt.annotate); got != tt.want {
				t.Errorf("FormatSymbolRanges(%v, %v) = %q, want %q", tt.symbols, tt.annotate, got, tt.want)
			}
		})
	}
}
