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
	"encoding/hex"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/util"
)

// State is the resolution state of a track
type State int

const (
	// candidates are being tried
	Trying State = iota
	// a candidate decoded the track with all sectors valid
	Resolved
	// a candidate decoded the track, but not all sectors are valid
	Damaged
	// the stream ended while a candidate was examining it
	Abandoned
	// no candidate matched, and the unformatted check did not claim the
	// track either
	Unformatted
)

//
func (s State) String() string {
	switch s {
	case Trying:
		return "trying"
	case Resolved:
		return "resolved"
	case Damaged:
		return "damaged"
	case Abandoned:
		return "abandoned"
	case Unformatted:
		return "unformatted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

//
func NewTrackInfo(nr int) *TrackInfo {
	return &TrackInfo{
		nr:    nr,
		valid: bitset.New(0),
		notes: util.Annotations{},
	}
}

/*
	TrackInfo is the record of one physical track. It starts out empty and
	is only ever filled by committing a successful parse. Once any sector is
	marked valid, the payload has the full size of the committed geometry.
*/
type TrackInfo struct {
	nr         int
	format     Format
	geometry   Geometry
	valid      *bitset.BitSet
	data       []byte
	totalBits  int
	dataBitOff int
	state      State
	notes      util.Annotations
}

//
func (t *TrackInfo) Nr() int {
	return t.nr
}

//
func (t *TrackInfo) Format() Format {
	return t.format
}

//
func (t *TrackInfo) Geometry() Geometry {
	return t.geometry
}

//
func (t *TrackInfo) Data() []byte {
	return t.data
}

//
func (t *TrackInfo) TotalBits() int {
	return t.totalBits
}

//
func (t *TrackInfo) DataBitOff() int {
	return t.dataBitOff
}

// SetDataBitOff overrides the data bit offset, e.g. for aligning all tracks
// to the index
func (t *TrackInfo) SetDataBitOff(off int) {
	t.dataBitOff = off
}

//
func (t *TrackInfo) State() State {
	return t.state
}

//
func (t *TrackInfo) SetState(s State) {
	t.state = s
}

// Valid returns a copy of the valid sector bitmap
func (t *TrackInfo) Valid() *bitset.BitSet {
	return t.valid.Clone()
}

//
func (t *TrackInfo) IsValid(sector int) bool {
	return t.valid.Test(uint(sector))
}

//
func (t *TrackInfo) ValidCount() int {
	return int(t.valid.Count())
}

// Missing returns the numbers of all sectors not marked valid
func (t *TrackInfo) Missing() []int {
	var ret []int
	for ix := 0; ix < t.geometry.Sectors; ix++ {
		if !t.valid.Test(uint(ix)) {
			ret = append(ret, ix)
		}
	}
	return ret
}

//
func (t *TrackInfo) Notes() util.Annotations {
	return t.notes
}

//
func (t *TrackInfo) Block() *Block {
	return &Block{
		Data:       t.data,
		TotalBits:  t.totalBits,
		DataBitOff: t.dataBitOff,
		Valid:      t.valid.Clone(),
	}
}

/*
	Commit records the successful parse of handler h into this track. The
	track's state becomes Resolved if all sectors are valid, Damaged
	otherwise. A block violating h's geometry is a programming error in the
	handler and causes a panic.
*/
func (t *TrackInfo) Commit(h Handler, b *Block) State {

	g := h.Geometry()

	if len(b.Data) != g.PayloadLen() {
		panic(fmt.Sprintf("%s handler produced %d payload bytes, want %d",
			h.Format(), len(b.Data), g.PayloadLen()))
	}

	valid := b.Valid
	if valid == nil {
		valid = bitset.New(uint(g.Sectors))
	}
	if l, ok := valid.NextSet(uint(g.Sectors)); ok {
		panic(fmt.Sprintf("%s handler marked sector %d of %d valid",
			h.Format(), l, g.Sectors))
	}

	t.format = h.Format()
	t.geometry = g
	t.valid = valid.Clone()
	t.data = make([]byte, len(b.Data))
	copy(t.data, b.Data)
	t.totalBits = b.TotalBits
	t.dataBitOff = b.DataBitOff

	if b.Complete(g.Sectors) {
		t.state = Resolved
	} else {
		t.state = Damaged
	}

	log.WithFields(log.Fields{
		"track":  t.nr,
		"format": t.format,
		"valid":  t.ValidCount(),
		"state":  t.state,
	}).Trace("track committed")

	return t.state
}

// MarkUnformatted records the track as carrying no data, after all attempts
// at decoding it failed.
func (t *TrackInfo) MarkUnformatted() {
	t.format = NoFormat
	t.geometry = Geometry{}
	t.valid = bitset.New(0)
	t.data = nil
	t.totalBits = 0
	t.dataBitOff = 0
	t.state = Unformatted
}

// Abandon marks the track as given up by handler h, with no valid sectors
func (t *TrackInfo) Abandon(h Handler) {
	t.format = h.Format()
	t.geometry = h.Geometry()
	t.valid = bitset.New(uint(t.geometry.Sectors))
	t.data = nil
	t.totalBits = t.geometry.Bits
	t.dataBitOff = 0
	t.state = Abandoned
}

//
func (t *TrackInfo) Emit(w io.Writer) {
	io.WriteString(w, fmt.Sprintf("\nTRACK %d: %s, %s, %d/%d sectors valid\n",
		t.nr, t.format, t.state, t.ValidCount(), t.geometry.Sectors))
	emitHex(w, t.data)
}

//
func emitHex(w io.Writer, data []byte) {
	d := hex.Dumper(w)
	defer d.Close()
	d.Write(data)
}
