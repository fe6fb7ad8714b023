/*
   FluxDisk - flux level floppy disk decoder
   Copyright (c) 2022, Alexander Vollschwitz

   This file is part of FluxDisk.

   FluxDisk is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   FluxDisk is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with FluxDisk. If not, see <http://www.gnu.org/licenses/>.
*/
package base

import (
	"errors"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"

	"github.com/xelalexv/fluxdisk/pkg/flux"
	"github.com/xelalexv/fluxdisk/pkg/mfm"
)

// Format is the tag by which a track format is referred to in candidate
// lists and reports
type Format string

// NoFormat is the pseudo format of tracks that carry no data
const NoFormat Format = "unformatted"

//
func (f Format) String() string {
	return string(f)
}

var (
	// ErrNoMatch is returned by a handler when the track does not carry its
	// format. The driver moves on to the next candidate.
	ErrNoMatch = errors.New("track format not recognized")

	// ErrStreamExhausted is returned by a handler when the flux stream ended
	// after the format's signature was seen, but before a valid instance
	// could be decoded. The driver gives up on the track.
	ErrStreamExhausted = errors.New("flux stream exhausted")
)

// Geometry is the static layout a handler produces for a track.
type Geometry struct {
	// bytes per sector
	BytesPerSector int
	// number of sectors per track
	Sectors int
	// nominal track length in bit cells
	Bits int
}

//
func (g Geometry) PayloadLen() int {
	return g.BytesPerSector * g.Sectors
}

//
func (g Geometry) String() string {
	return fmt.Sprintf("%d x %d bytes, %d bits", g.Sectors, g.BytesPerSector,
		g.Bits)
}

/*
	Handler decodes and encodes one track format. Handlers are stateless with
	respect to tracks and may be shared by any number of candidate lists.
*/
type Handler interface {

	// Format returns the tag of the handled format
	Format() Format

	// Geometry returns the static geometry of the format
	Geometry() Geometry

	/*
		Parse scans stream s for a valid instance of the format on the given
		physical track. It returns the decoded block on success, ErrNoMatch if
		the track does not carry this format, or ErrStreamExhausted if the
		stream ended while a candidate was being examined. The stream has been
		rewound to its first index pulse by the caller.
	*/
	Parse(s *flux.Stream, track int) (*Block, error)

	/*
		Synthesize produces the bit cell sequence of one revolution for the
		given track and block, such that parsing it yields the same block.
	*/
	Synthesize(track int, b *Block) (*mfm.Track, error)
}

// Block is the result of a successful parse.
type Block struct {
	// decoded payload, sectors back to back
	Data []byte
	// track length in bit cells
	TotalBits int
	// position of the first data bit relative to the index pulse
	DataBitOff int
	// valid sectors
	Valid *bitset.BitSet
}

//
func NewBlock(g Geometry) *Block {
	return &Block{
		Data:      make([]byte, g.PayloadLen()),
		TotalBits: g.Bits,
		Valid:     bitset.New(uint(g.Sectors)),
	}
}

//
func (b *Block) SetAllValid(sectors int) {
	for ix := 0; ix < sectors; ix++ {
		b.Valid.Set(uint(ix))
	}
}

// Complete determines whether all sectors of this block are valid.
func (b *Block) Complete(sectors int) bool {
	return b.Valid != nil && int(b.Valid.Count()) == sectors &&
		(sectors == 0 || b.Valid.Test(uint(sectors-1)))
}

// Equal compares this block with another block, the way a round trip
// through synthesis and parsing should preserve it.
func (b *Block) Equal(o *Block) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.TotalBits != o.TotalBits || b.DataBitOff != o.DataBitOff {
		return false
	}
	if len(b.Data) != len(o.Data) {
		return false
	}
	for ix := range b.Data {
		if b.Data[ix] != o.Data[ix] {
			return false
		}
	}
	if b.Valid == nil || o.Valid == nil {
		return b.Valid == o.Valid
	}
	return b.Valid.Equal(o.Valid)
}

// Emit writes a hex dump of the payload.
func (b *Block) Emit(w io.Writer) {
	emitHex(w, b.Data)
}
