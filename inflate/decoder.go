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

// Package inflate decodes raw DEFLATE (RFC 1951) streams into the original
// bytes together with a trace of every literal, match and stored run, and the
// bit accounting of every block.
package inflate

import "fmt"

// Trace is the complete result of decoding one DEFLATE stream.
type Trace struct {
	Tokens []Token  `json:"tokens"`
	Blocks []*Block `json:"blocks"`
	Output []byte   `json:"output"`
	// BitsRead is the bit offset just after the final block.
	BitsRead int `json:"bits_read"`
	// TrailingBits counts unread bits left in the buffer after the final block.
	TrailingBits int `json:"trailing_bits"`
}

// Option configures a decode.
type Option func(*decoder)

// WithBlockHook registers fn to be called as each block is completed.
func WithBlockHook(fn func(*Block)) Option {
	return func(d *decoder) {
		d.onBlock = fn
	}
}

// decoder holds the state of a single decode call.
type decoder struct {
	br      *BitReader
	out     []byte
	tokens  []Token
	blocks  []*Block
	block   int
	onBlock func(*Block)
}

// Decode decodes a complete raw DEFLATE stream. The whole stream must be
// present in data; decoding stops after the block marked final.
func Decode(data []byte, opts ...Option) (*Trace, error) {
	d := &decoder{br: NewBitReader(data)}
	for _, opt := range opts {
		opt(d)
	}

	for {
		final, err := d.nextBlock()
		if err != nil {
			return nil, err
		}
		if final {
			break
		}
		d.block++
	}

	return &Trace{
		Tokens:       d.tokens,
		Blocks:       d.blocks,
		Output:       d.out,
		BitsRead:     d.br.Tell(),
		TrailingBits: d.br.Remaining(),
	}, nil
}

// fail wraps err with the current block index and bit offset.
func (d *decoder) fail(err error) error {
	return &DecodeError{Err: err, Block: d.block, Bit: d.br.Tell()}
}

func (d *decoder) readBits(n int) (int, error) {
	v, err := d.br.ReadBits(n)
	if err != nil {
		return 0, d.fail(err)
	}
	return int(v), nil
}

// nextBlock decodes one block and reports whether it was the final one.
func (d *decoder) nextBlock() (bool, error) {
	start := d.br.Tell()
	bfinal, err := d.readBits(1)
	if err != nil {
		return false, err
	}
	btype, err := d.readBits(2)
	if err != nil {
		return false, err
	}

	blk := &Block{
		Index:      d.block,
		Final:      bfinal == 1,
		Type:       BlockType(btype),
		BitStart:   start,
		HeaderBits: d.br.Tell() - start,
	}

	switch blk.Type {
	case BlockStored:
		err = d.storedBlock(blk)
	case BlockFixed:
		litLen, dist := fixedTables()
		blk.LiteralLengthLengths = FixedLiteralLengths()
		blk.DistanceLengths = FixedDistanceLengths()
		err = d.huffmanBlock(blk, litLen, dist)
	case BlockDynamic:
		var litLen, dist *HuffmanTable
		litLen, dist, err = d.dynamicTables(blk)
		if err == nil {
			err = d.huffmanBlock(blk, litLen, dist)
		}
	default:
		err = d.fail(fmt.Errorf("%w: BTYPE=%d", ErrReservedBlockType, btype))
	}
	if err != nil {
		return false, err
	}

	blk.BitEnd = d.br.Tell()
	d.blocks = append(d.blocks, blk)
	if d.onBlock != nil {
		d.onBlock(blk)
	}
	return blk.Final, nil
}

// storedBlock copies LEN raw bytes and emits a single raw token for them.
func (d *decoder) storedBlock(blk *Block) error {
	blk.PadBits = d.br.AlignToByte()

	lenStart := d.br.Tell()
	length, err := d.readBits(16)
	if err != nil {
		return err
	}
	nlen, err := d.readBits(16)
	if err != nil {
		return err
	}
	blk.LenNlenBits = d.br.Tell() - lenStart
	if nlen != ^length&0xffff {
		return d.fail(fmt.Errorf("%w: LEN=0x%04x NLEN=0x%04x", ErrLenNlenMismatch, length, nlen))
	}
	blk.StoredLength = length

	data, err := d.br.ReadAlignedBytes(length)
	if err != nil {
		return d.fail(err)
	}

	spanStart := len(d.out)
	d.out = append(d.out, data...)
	d.tokens = append(d.tokens, &Raw{
		TokenBase: TokenBase{
			Block:    d.block,
			Span:     Span{Start: spanStart, End: len(d.out)},
			BitStart: blk.BitStart,
			BitEnd:   d.br.Tell(),
			Bits:     length * 8,
		},
		Data: data,
	})
	return nil
}

// dynamicTables reads a dynamic block header and builds its two tables.
func (d *decoder) dynamicTables(blk *Block) (litLen, dist *HuffmanTable, err error) {
	start := d.br.Tell()

	hlit, err := d.readBits(5)
	if err != nil {
		return nil, nil, err
	}
	hdist, err := d.readBits(5)
	if err != nil {
		return nil, nil, err
	}
	hclen, err := d.readBits(4)
	if err != nil {
		return nil, nil, err
	}
	params := &DynamicParams{HLIT: hlit + 257, HDIST: hdist + 1, HCLEN: hclen + 4}

	clLens := make([]uint8, len(codeLengthOrder))
	for i := range params.HCLEN {
		l, err := d.readBits(3)
		if err != nil {
			return nil, nil, err
		}
		clLens[codeLengthOrder[i]] = uint8(l)
	}
	clTable, err := NewHuffmanTable(clLens)
	if err != nil {
		return nil, nil, d.fail(err)
	}

	lengths, err := d.readCodeLengths(clTable, params.HLIT+params.HDIST)
	if err != nil {
		return nil, nil, err
	}
	litLens := lengths[:params.HLIT:params.HLIT]
	distLens := lengths[params.HLIT : params.HLIT+params.HDIST : params.HLIT+params.HDIST]

	litLen, err = NewHuffmanTable(litLens)
	if err != nil {
		return nil, nil, d.fail(err)
	}
	dist, err = NewHuffmanTable(patchDistanceLengths(distLens))
	if err != nil {
		return nil, nil, d.fail(err)
	}

	blk.DynamicHeaderBits = d.br.Tell() - start
	blk.Params = params
	blk.CodeLengthLengths = clLens
	blk.LiteralLengthLengths = litLens
	blk.DistanceLengths = distLens
	return litLen, dist, nil
}

// readCodeLengths decodes at least total run-length coded code lengths.
// A repeat may run past total; the surplus is dropped by the caller.
func (d *decoder) readCodeLengths(clTable *HuffmanTable, total int) ([]uint8, error) {
	lengths := make([]uint8, 0, total)
	for len(lengths) < total {
		sym, _, err := clTable.Decode(d.br)
		if err != nil {
			return nil, d.fail(err)
		}

		var value uint8
		var repeat int
		switch {
		case sym <= 15:
			lengths = append(lengths, uint8(sym))
			continue
		case sym == 16:
			if len(lengths) == 0 {
				return nil, d.fail(ErrInvalidRepeatContext)
			}
			n, err := d.readBits(2)
			if err != nil {
				return nil, err
			}
			value, repeat = lengths[len(lengths)-1], n+3
		case sym == 17:
			n, err := d.readBits(3)
			if err != nil {
				return nil, err
			}
			repeat = n + 3
		default:
			n, err := d.readBits(7)
			if err != nil {
				return nil, err
			}
			repeat = n + 11
		}
		for range repeat {
			lengths = append(lengths, value)
		}
	}
	return lengths, nil
}

// patchDistanceLengths gives distance symbol 0 a one-bit code when no distance
// code is present, so blocks without matches still get a usable table.
func patchDistanceLengths(lens []uint8) []uint8 {
	for _, l := range lens {
		if l != 0 {
			return lens
		}
	}
	patched := make([]uint8, len(lens))
	patched[0] = 1
	return patched
}

// huffmanBlock runs the token loop of a fixed or dynamic block until end-of-block.
func (d *decoder) huffmanBlock(blk *Block, litLen, dist *HuffmanTable) error {
	for {
		start := d.br.Tell()
		sym, codeBits, err := litLen.Decode(d.br)
		if err != nil {
			return d.fail(err)
		}

		switch {
		case sym < endOfBlock:
			spanStart := len(d.out)
			d.out = append(d.out, byte(sym))
			d.tokens = append(d.tokens, &Literal{
				TokenBase: TokenBase{
					Block:    d.block,
					Span:     Span{Start: spanStart, End: spanStart + 1},
					BitStart: start,
					BitEnd:   start + codeBits,
					Bits:     codeBits,
				},
				Value: byte(sym),
			})
		case sym == endOfBlock:
			blk.EndOfBlockBits = codeBits
			return nil
		default:
			m, err := d.match(sym, codeBits, dist)
			if err != nil {
				return err
			}
			m.BitStart = start
			d.tokens = append(d.tokens, m)
		}
	}
}

// match decodes the rest of a length/distance pair whose length symbol has
// already been read, and appends the copied bytes to the output.
func (d *decoder) match(sym, lenCodeBits int, dist *HuffmanTable) (*Match, error) {
	if sym > maxLengthSymbol {
		return nil, d.fail(fmt.Errorf("%w: %d", ErrInvalidLengthSymbol, sym))
	}

	var length, lenExtra int
	if sym == maxLengthSymbol {
		length = maxMatchLength
	} else {
		idx := sym - 257
		lenExtra = lengthExtra[idx]
		extra, err := d.readBits(lenExtra)
		if err != nil {
			return nil, err
		}
		length = lengthBase[idx] + extra
	}

	dsym, distCodeBits, err := dist.Decode(d.br)
	if err != nil {
		return nil, d.fail(err)
	}
	if dsym > maxDistSymbol {
		return nil, d.fail(fmt.Errorf("%w: %d", ErrInvalidDistanceSymbol, dsym))
	}
	dExtra := distExtra[dsym]
	extra, err := d.readBits(dExtra)
	if err != nil {
		return nil, err
	}
	distance := distBase[dsym] + extra

	spanStart := len(d.out)
	if spanStart-distance < 0 {
		return nil, d.fail(fmt.Errorf("%w: distance %d with %d bytes of output",
			ErrDistanceExceedsWindow, distance, spanStart))
	}
	// Byte at a time: the source may overlap the bytes being written.
	for range length {
		d.out = append(d.out, d.out[len(d.out)-distance])
	}
	data := make([]byte, length)
	copy(data, d.out[spanStart:])

	return &Match{
		TokenBase: TokenBase{
			Block:  d.block,
			Span:   Span{Start: spanStart, End: len(d.out)},
			BitEnd: d.br.Tell(),
			Bits:   lenCodeBits + lenExtra + distCodeBits + dExtra,
		},
		Data:           data,
		MatchLength:    length,
		MatchDistance:  distance,
		LengthSymbol:   sym,
		DistanceSymbol: dsym,
		LenCodeBits:    lenCodeBits,
		LenExtraBits:   lenExtra,
		DistCodeBits:   distCodeBits,
		DistExtraBits:  dExtra,
	}, nil
}
