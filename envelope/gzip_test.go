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
	"bytes"
	"compress/gzip"
	"errors"
	"testing"
	"time"
)

// gzipMember assembles a member from a flag byte, the optional header fields
// that follow the fixed header, a payload and a trailer.
func gzipMember(flags byte, fields, payload []byte, crc, isize uint32) []byte {
	b := []byte{0x1F, 0x8B, 0x08, flags, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF}
	b = append(b, fields...)
	b = append(b, payload...)
	b = append(b, byte(crc), byte(crc>>8), byte(crc>>16), byte(crc>>24))
	b = append(b, byte(isize), byte(isize>>8), byte(isize>>16), byte(isize>>24))
	return b
}

func TestUnwrapGzip(t *testing.T) {
	t.Parallel()

	emptyBlock := []byte{0x03, 0x00}

	tests := []struct {
		name        string
		data        []byte
		wantStart   int
		wantPayload []byte
		check       func(t *testing.T, m *GzipMember)
	}{
		{
			name:        "minimal member",
			data:        gzipMember(0, nil, nil, 0, 0),
			wantStart:   10,
			wantPayload: []byte{},
		},
		{
			name:        "FNAME shifts payload",
			data:        gzipMember(gzipFNAME, []byte("a.txt\x00"), emptyBlock, 0, 0),
			wantStart:   16,
			wantPayload: emptyBlock,
			check: func(t *testing.T, m *GzipMember) {
				t.Helper()
				if m.Name != "a.txt" {
					t.Errorf("Name = %q, want %q", m.Name, "a.txt")
				}
			},
		},
		{
			name:        "Latin-1 name",
			data:        gzipMember(gzipFNAME, []byte("caf\xE9\x00"), emptyBlock, 0, 0),
			wantStart:   15,
			wantPayload: emptyBlock,
			check: func(t *testing.T, m *GzipMember) {
				t.Helper()
				if m.Name != "café" {
					t.Errorf("Name = %q, want %q", m.Name, "café")
				}
			},
		},
		{
			name: "all optional fields",
			data: gzipMember(gzipFEXTRA|gzipFNAME|gzipFCOMMENT|gzipFHCRC,
				[]byte("\x03\x00xyzn\x00c\x00\x34\x12"), emptyBlock, 0xDEADBEEF, 42),
			wantStart:   10 + 5 + 2 + 2 + 2,
			wantPayload: emptyBlock,
			check: func(t *testing.T, m *GzipMember) {
				t.Helper()
				if !bytes.Equal(m.Extra, []byte("xyz")) || m.Name != "n" || m.Comment != "c" {
					t.Errorf("extra/name/comment = %q/%q/%q, want xyz/n/c", m.Extra, m.Name, m.Comment)
				}
				if m.HeaderCRC != 0x1234 {
					t.Errorf("HeaderCRC = 0x%04X, want 0x1234", m.HeaderCRC)
				}
				if m.CRC32 != 0xDEADBEEF || m.ISize != 42 {
					t.Errorf("trailer = 0x%08X/%d, want 0xDEADBEEF/42", m.CRC32, m.ISize)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := UnwrapGzip(tt.data)
			if err != nil {
				t.Fatalf("UnwrapGzip() error = %v", err)
			}
			if m.PayloadStart != tt.wantStart {
				t.Errorf("PayloadStart = %d, want %d", m.PayloadStart, tt.wantStart)
			}
			if !bytes.Equal(m.Payload, tt.wantPayload) {
				t.Errorf("Payload = % X, want % X", m.Payload, tt.wantPayload)
			}
			if len(m.Payload) != len(tt.data)-m.PayloadStart-8 {
				t.Errorf("payload length %d does not end at the trailer", len(m.Payload))
			}
			if tt.check != nil {
				tt.check(t, m)
			}
		})
	}
}

func TestUnwrapGzipErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrInvalidGzipMagic},
		{"wrong method", []byte{0x1F, 0x8B, 0x07, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, ErrInvalidGzipMagic},
		{"zlib stream", []byte{0x78, 0x9C, 0x03, 0x00, 0x00, 0x00, 0x00, 0x01}, ErrInvalidGzipMagic},
		{"shorter than header and trailer", gzipMember(0, nil, nil, 0, 0)[:17], ErrTruncatedGzipHeader},
		{"FEXTRA length past end", gzipMember(gzipFEXTRA, []byte{0x64, 0x00}, nil, 0, 0), ErrTruncatedGzipHeader},
		{"FEXTRA length missing", gzipMember(gzipFEXTRA, nil, nil, 0, 0), ErrTruncatedGzipHeader},
		{"unterminated FNAME", gzipMember(gzipFNAME, []byte("abc"), nil, 0, 0), ErrTruncatedGzipHeader},
		{"unterminated FCOMMENT", gzipMember(gzipFCOMMENT, []byte("abc"), nil, 0, 0), ErrTruncatedGzipHeader},
		{"FHCRC missing", gzipMember(gzipFHCRC, []byte{0x01}, nil, 0, 0), ErrTruncatedGzipHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := UnwrapGzip(tt.data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("UnwrapGzip() = %+v, %v; want error %v", m, err, tt.want)
			}
		})
	}
}

func TestUnwrapGzipFromCompressGzip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Name = "sample.txt"
	zw.Comment = "made by a test"
	zw.ModTime = time.Unix(1700000000, 0)
	if _, err := zw.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	m, err := UnwrapGzip(buf.Bytes())
	if err != nil {
		t.Fatalf("UnwrapGzip() error = %v", err)
	}
	if m.Name != "sample.txt" || m.Comment != "made by a test" {
		t.Errorf("Name/Comment = %q/%q", m.Name, m.Comment)
	}
	if m.ModTime != 1700000000 {
		t.Errorf("ModTime = %d, want 1700000000", m.ModTime)
	}
	if m.CRC32 != 0x3610A686 || m.ISize != 5 {
		t.Errorf("trailer = 0x%08X/%d, want 0x3610A686/5", m.CRC32, m.ISize)
	}
	if !IsGzip(buf.Bytes()) {
		t.Error("IsGzip() = false for compress/gzip output")
	}
}
