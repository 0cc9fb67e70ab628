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

// Package binary provides text encodings of compressed buffers and helpers
// for printing byte values and symbol sets.
package binary

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrOddHexLength indicates hex input with an odd number of digits.
var ErrOddHexLength = errors.New("odd number of hex digits")

var (
	hexPrefix = regexp.MustCompile(`0[xX]`)
	nonHex    = regexp.MustCompile(`[^0-9a-fA-F]`)
)

// ParseHex decodes hex digits, ignoring any separators and "0x" prefixes, so
// "78 9c", "789C" and "0x78,0x9c" all decode to the same two bytes.
func ParseHex(s string) ([]byte, error) {
	cleaned := nonHex.ReplaceAllString(hexPrefix.ReplaceAllString(s, " "), "")
	if len(cleaned)%2 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrOddHexLength, len(cleaned))
	}
	out, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return out, nil
}

// FormatHex renders b as lowercase hex pairs separated by spaces.
func FormatHex(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(hex.EncodeToString([]byte{c}))
	}
	return sb.String()
}

// ParseBase64 decodes standard base64, ignoring surrounding whitespace and
// accepting input with or without padding.
func ParseBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	out, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return out, nil
	}
	out, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	if rawErr != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return out, nil
}

// FormatBase64 renders b as padded standard base64.
func FormatBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Printable returns b with every byte outside printable ASCII (0x20-0x7E)
// replaced by '.'.
func Printable(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 0x20 && c <= 0x7E {
			out[i] = c
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}

// FormatSymbolRanges collapses symbols into comma separated runs such as
// "10, 65–90". With annotate set, runs that overlap printable ASCII are
// followed by the characters they cover: "65–90 ('A'–'Z')". Duplicates are
// ignored and the input is not modified.
func FormatSymbolRanges(symbols []int, annotate bool) string {
	if len(symbols) == 0 {
		return ""
	}

	sorted := append([]int(nil), symbols...)
	sort.Ints(sorted)

	var parts []string
	start, prev := sorted[0], sorted[0]
	flush := func() {
		parts = append(parts, formatRange(start, prev, annotate))
	}
	for _, s := range sorted[1:] {
		switch {
		case s == prev:
			continue
		case s == prev+1:
			prev = s
		default:
			flush()
			start, prev = s, s
		}
	}
	flush()
	return strings.Join(parts, ", ")
}

func formatRange(lo, hi int, annotate bool) string {
	s := strconv.Itoa(lo)
	if hi != lo {
		s += "–" + strconv.Itoa(hi)
	}
	if !annotate {
		return s
	}

	// Clamp to the printable window.
	plo, phi := max(lo, 0x20), min(hi, 0x7E)
	if plo > phi {
		return s
	}
	if plo == phi {
		return s + " (" + quoteASCII(plo) + ")"
	}
	return s + " (" + quoteASCII(plo) + "–" + quoteASCII(phi) + ")"
}

func quoteASCII(c int) string {
	switch c {
	case '\\':
		return `'\\'`
	case '\'':
		return `'\''`
	default:
		return "'" + string(rune(c)) + "'"
	}
}
