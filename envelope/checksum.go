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

package envelope

import (
	"fmt"
	"hash/crc32"
)

// Checksum algorithm names.
const (
	AlgorithmAdler32 = "adler32"
	AlgorithmCRC32   = "crc32"
)

// Checksum annotates a decode with the envelope's integrity check. A mismatch
// is reported here and is never a decode error.
type Checksum struct {
	Algorithm string `json:"algorithm"`
	Expected  uint32 `json:"expected"`
	Actual    uint32 `json:"actual"`
	// ExpectedSize and ActualSize carry the gzip ISIZE check (size mod 2^32).
	ExpectedSize *uint32 `json:"expected_size,omitempty"`
	ActualSize   *uint32 `json:"actual_size,omitempty"`
	Match        bool    `json:"match"`
}

// VerifyZlib compares a zlib trailer against the decoded output.
func VerifyZlib(h *ZlibHeader, output []byte) *Checksum {
	actual := Adler32(output)
	return &Checksum{
		Algorithm: AlgorithmAdler32,
		Expected:  h.Adler32,
		Actual:    actual,
		Match:     actual == h.Adler32,
	}
}

// VerifyGzip compares a gzip trailer's CRC-32 and ISIZE against the decoded output.
func VerifyGzip(m *GzipMember, output []byte) *Checksum {
	actual := crc32.ChecksumIEEE(output)
	size := uint32(len(output)) //nolint:gosec // ISIZE is defined modulo 2^32
	expectedSize := m.ISize
	return &Checksum{
		Algorithm:    AlgorithmCRC32,
		Expected:     m.CRC32,
		Actual:       actual,
		ExpectedSize: &expectedSize,
		ActualSize:   &size,
		Match:        actual == m.CRC32 && size == m.ISize,
	}
}

func (c *Checksum) String() string {
	if c.Match {
		return fmt.Sprintf("%s OK (0x%08x)", c.Algorithm, c.Actual)
	}
	s := fmt.Sprintf("%s mismatch expected=0x%08x actual=0x%08x", c.Algorithm, c.Expected, c.Actual)
	if c.ExpectedSize != nil && c.ActualSize != nil && *c.ExpectedSize != *c.ActualSize {
		s += fmt.Sprintf(" size expected=%d actual=%d", *c.ExpectedSize, *c.ActualSize)
	}
	return s
}
