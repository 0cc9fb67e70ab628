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
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// gzip header flags (RFC 1952 section 2.3.1).
const (
	gzipFTEXT    = 0x01
	gzipFHCRC    = 0x02
	gzipFEXTRA   = 0x04
	gzipFNAME    = 0x08
	gzipFCOMMENT = 0x10
)

const (
	gzipFixedHeaderSize = 10
	gzipTrailerSize     = 8
	gzipMinSize         = gzipFixedHeaderSize + gzipTrailerSize
)

var gzipMagic = [3]byte{0x1F, 0x8B, 0x08}

// GzipMember is a parsed gzip member.
type GzipMember struct {
	Flags   byte   `json:"flags"`
	ModTime uint32 `json:"mtime"`
	XFL     byte   `json:"xfl"`
	OS      byte   `json:"os"`
	Text    bool   `json:"text"`
	Extra   []byte `json:"extra,omitempty"`
	Name    string `json:"name,omitempty"`
	Comment string `json:"comment,omitempty"`
	// HeaderCRC is the FHCRC value, zero when the flag is clear.
	HeaderCRC uint16 `json:"header_crc,omitempty"`

	// PayloadStart is the offset of the DEFLATE stream within the member.
	PayloadStart int    `json:"payload_start"`
	Payload      []byte `json:"-"`

	// Trailer fields.
	CRC32 uint32 `json:"crc32"`
	ISize uint32 `json:"isize"`
}

// IsGzip reports whether data starts with the gzip magic and DEFLATE method.
func IsGzip(data []byte) bool {
	return len(data) >= len(gzipMagic) && bytes.Equal(data[:len(gzipMagic)], gzipMagic[:])
}

// UnwrapGzip parses a single gzip member and returns its header fields, the
// raw DEFLATE payload between the header and the 8-byte trailer, and the
// trailer's CRC-32 and ISIZE.
//
// Header layout:
//
//	Bytes 0-2: ID1 ID2 CM (1F 8B 08)
//	Byte 3:    FLG
//	Bytes 4-7: MTIME (little-endian)
//	Byte 8:    XFL
//	Byte 9:    OS
//	then, in order and only when flagged: FEXTRA (2-byte length + data),
//	FNAME (NUL-terminated), FCOMMENT (NUL-terminated), FHCRC (2 bytes)
func UnwrapGzip(data []byte) (*GzipMember, error) {
	if !IsGzip(data) {
		return nil, ErrInvalidGzipMagic
	}
	if len(data) < gzipMinSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTruncatedGzipHeader, len(data), gzipMinSize)
	}

	m := &GzipMember{
		Flags:   data[3],
		ModTime: binary.LittleEndian.Uint32(data[4:8]),
		XFL:     data[8],
		OS:      data[9],
	}
	m.Text = m.Flags&gzipFTEXT != 0

	// Header fields may not extend into the trailer.
	end := len(data) - gzipTrailerSize
	off := gzipFixedHeaderSize
	need := func(n int, field string) error {
		if off+n > end {
			return fmt.Errorf("%w: %s needs %d bytes at offset %d", ErrTruncatedGzipHeader, field, n, off)
		}
		return nil
	}

	if m.Flags&gzipFEXTRA != 0 {
		if err := need(2, "FEXTRA length"); err != nil {
			return nil, err
		}
		xlen := int(binary.LittleEndian.Uint16(data[off : off+2]))
		off += 2
		if err := need(xlen, "FEXTRA"); err != nil {
			return nil, err
		}
		m.Extra = bytes.Clone(data[off : off+xlen])
		off += xlen
	}

	if m.Flags&gzipFNAME != 0 {
		s, err := readCString(data[:end], &off, "FNAME")
		if err != nil {
			return nil, err
		}
		m.Name = s
	}

	if m.Flags&gzipFCOMMENT != 0 {
		s, err := readCString(data[:end], &off, "FCOMMENT")
		if err != nil {
			return nil, err
		}
		m.Comment = s
	}

	if m.Flags&gzipFHCRC != 0 {
		if err := need(2, "FHCRC"); err != nil {
			return nil, err
		}
		m.HeaderCRC = binary.LittleEndian.Uint16(data[off : off+2])
		off += 2
	}

	m.PayloadStart = off
	m.Payload = data[off:end]
	m.CRC32 = binary.LittleEndian.Uint32(data[end : end+4])
	m.ISize = binary.LittleEndian.Uint32(data[end+4:])
	return m, nil
}

// readCString reads a NUL-terminated Latin-1 string starting at *off.
func readCString(data []byte, off *int, field string) (string, error) {
	idx := bytes.IndexByte(data[*off:], 0)
	if idx < 0 {
		return "", fmt.Errorf("%w: %s at offset %d is not terminated", ErrTruncatedGzipHeader, field, *off)
	}
	raw := data[*off : *off+idx]
	*off += idx + 1

	// RFC 1952 strings are ISO 8859-1.
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", field, err)
	}
	return string(s), nil
}
