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

// Kind identifies the type of a token.
type Kind uint8

// Token kinds.
const (
	KindLiteral Kind = iota
	KindMatch
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "lit"
	case KindMatch:
		return "match"
	case KindRaw:
		return "raw"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Span is a half-open byte range [Start, End) in the reconstructed output.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// TokenBase holds the fields shared by every token kind.
type TokenBase struct {
	Block    int  // index of the owning block
	Span     Span // bytes produced in the output buffer
	BitStart int  // first stream bit belonging to the token
	BitEnd   int  // one past the last stream bit belonging to the token
	Bits     int  // total bits consumed by the token
}

// Base returns the shared token fields.
func (b *TokenBase) Base() *TokenBase {
	return b
}

// Token is one decoded unit of a DEFLATE stream: a literal byte, a
// length/distance match, or the contents of a stored block.
type Token interface {
	Base() *TokenBase
	Kind() Kind
	// Bytes returns the bytes the token produced.
	Bytes() []byte
	// Length returns the number of output bytes: 1 for literals, 3..258 for matches.
	Length() int
	// Distance returns the back-reference distance; ok is false for non-matches.
	Distance() (dist int, ok bool)
}

// Literal is a single byte coded with the literal/length alphabet.
type Literal struct {
	TokenBase
	Value byte
}

func (*Literal) Kind() Kind {
	return KindLiteral
}

func (l *Literal) Bytes() []byte {
	return []byte{l.Value}
}

func (*Literal) Length() int {
	return 1
}

func (*Literal) Distance() (int, bool) {
	return 0, false
}

func (l *Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(newRecord(l))
}

// Match is a length/distance back-reference.
type Match struct {
	TokenBase
	Data           []byte
	MatchLength    int
	MatchDistance  int
	LengthSymbol   int // 257..285
	DistanceSymbol int // 0..29
	LenCodeBits    int
	LenExtraBits   int
	DistCodeBits   int
	DistExtraBits  int
}

func (*Match) Kind() Kind {
	return KindMatch
}

func (m *Match) Bytes() []byte {
	return m.Data
}

func (m *Match) Length() int {
	return m.MatchLength
}

func (m *Match) Distance() (int, bool) {
	return m.MatchDistance, true
}

func (m *Match) MarshalJSON() ([]byte, error) {
	return json.Marshal(newRecord(m))
}

// Raw is the byte run of a stored block.
type Raw struct {
	TokenBase
	Data []byte
}

func (*Raw) Kind() Kind {
	return KindRaw
}

func (r *Raw) Bytes() []byte {
	return r.Data
}

func (r *Raw) Length() int {
	return len(r.Data)
}

func (*Raw) Distance() (int, bool) {
	return 0, false
}

func (r *Raw) MarshalJSON() ([]byte, error) {
	return json.Marshal(newRecord(r))
}

// tokenRecord is the flat JSON shape consumed by presentation layers.
type tokenRecord struct {
	Type          Kind   `json:"type"`
	Text          string `json:"text"`
	Length        int    `json:"length"`
	Distance      *int   `json:"distance"`
	Bits          int    `json:"bits"`
	Block         int    `json:"block"`
	SpanStart     int    `json:"span_start"`
	SpanEnd       int    `json:"span_end"`
	BitStart      int    `json:"bit_start"`
	BitEnd        int    `json:"bit_end"`
	LitCode       *int   `json:"lit_code,omitempty"`
	LenCodeBits   *int   `json:"len_code_bits,omitempty"`
	LenExtraBits  *int   `json:"len_extra_bits,omitempty"`
	DistCodeBits  *int   `json:"dist_code_bits,omitempty"`
	DistExtraBits *int   `json:"dist_extra_bits,omitempty"`
}

func newRecord(t Token) tokenRecord {
	b := t.Base()
	rec := tokenRecord{
		Type:      t.Kind(),
		Text:      string(t.Bytes()),
		Length:    t.Length(),
		Bits:      b.Bits,
		Block:     b.Block,
		SpanStart: b.Span.Start,
		SpanEnd:   b.Span.End,
		BitStart:  b.BitStart,
		BitEnd:    b.BitEnd,
	}
	switch v := t.(type) {
	case *Literal:
		code := int(v.Value)
		rec.LitCode = &code
	case *Match:
		rec.Distance = &v.MatchDistance
		rec.LenCodeBits = &v.LenCodeBits
		rec.LenExtraBits = &v.LenExtraBits
		rec.DistCodeBits = &v.DistCodeBits
		rec.DistExtraBits = &v.DistExtraBits
	}
	return rec
}
