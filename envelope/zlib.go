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

// Package envelope parses and builds the containers that carry a raw DEFLATE
// stream: the RFC 1950 zlib wrapper and the RFC 1952 gzip member.
package envelope

import (
	"encoding/binary"
	"fmt"
)

const (
	zlibMethodDeflate = 8
	zlibFDICT         = 0x20
	zlibTrailerSize   = 4
	// zlibMinBody is the smallest payload accepted after a detected header.
	zlibMinBody = 2
)

// ZlibHeader describes a detected zlib envelope.
type ZlibHeader struct {
	CMF byte `json:"cmf"`
	FLG byte `json:"flg"`
	// WindowSize is the LZ77 window declared by CINFO.
	WindowSize int `json:"window_size"`
	// Level is the FLEVEL hint (0 fastest .. 3 maximum).
	Level   int    `json:"level"`
	HasDict bool   `json:"has_dict"`
	DictID  uint32 `json:"dict_id,omitempty"`
	// PayloadStart and PayloadEnd bound the DEFLATE stream within the buffer.
	PayloadStart int `json:"payload_start"`
	PayloadEnd   int `json:"payload_end"`
	// Adler32 is the big-endian checksum stored in the last four bytes.
	Adler32 uint32 `json:"adler32"`
}

// DetectZlib reports whether data starts with a zlib header. It returns a nil
// header and no error when the first two bytes are not a valid DEFLATE zlib
// header, and an error wrapping ErrTruncatedZlibHeader when they are but the
// rest of the envelope is missing.
//
// Header layout:
//
//	Byte 0: CMF (CM low nibble = 8, CINFO high nibble = log2(window) - 8)
//	Byte 1: FLG (FCHECK bits 0-4, FDICT bit 5, FLEVEL bits 6-7)
//	Bytes 2-5: DICTID, present only when FDICT is set
func DetectZlib(data []byte) (*ZlibHeader, error) {
	if len(data) < 2 {
		return nil, nil
	}
	cmf, flg := data[0], data[1]
	if cmf&0x0f != zlibMethodDeflate || (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		return nil, nil
	}

	hdr := &ZlibHeader{
		CMF:        cmf,
		FLG:        flg,
		WindowSize: 1 << (int(cmf>>4) + 8),
		Level:      int(flg >> 6),
		HasDict:    flg&zlibFDICT != 0,
	}

	pos := 2
	if hdr.HasDict {
		if len(data) < pos+4 {
			return nil, fmt.Errorf("%w: FDICT set but only %d bytes present", ErrTruncatedZlibHeader, len(data))
		}
		hdr.DictID = binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
	}
	if len(data) < pos+zlibMinBody+zlibTrailerSize {
		return nil, fmt.Errorf("%w: %d bytes after a %d-byte header", ErrTruncatedZlibHeader, len(data)-pos, pos)
	}

	hdr.PayloadStart = pos
	hdr.PayloadEnd = len(data) - zlibTrailerSize
	hdr.Adler32 = binary.BigEndian.Uint32(data[hdr.PayloadEnd:])
	return hdr, nil
}

// Payload returns the DEFLATE stream the header describes within data.
func (h *ZlibHeader) Payload(data []byte) []byte {
	return data[h.PayloadStart:h.PayloadEnd]
}

// zlibHeaderDefault is CMF/FLG for a 32K window at the default level.
var zlibHeaderDefault = [2]byte{0x78, 0x9C}

// WrapZlib builds a zlib stream from a raw DEFLATE payload and the Adler-32 of
// the uncompressed input.
func WrapZlib(payload []byte, adler uint32) []byte {
	out := make([]byte, 0, len(zlibHeaderDefault)+len(payload)+zlibTrailerSize)
	out = append(out, zlibHeaderDefault[:]...)
	out = append(out, payload...)
	return binary.BigEndian.AppendUint32(out, adler)
}
