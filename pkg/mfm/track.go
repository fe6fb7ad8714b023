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

package mfm

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

/*
	NewTrack creates a buffer for synthesizing one revolution of a track with
	the given number of bit cells. Emitting starts at bit offset start relative
	to the index, and wraps around at the end of the track. Whatever has not
	been written when calling Finish is filled with an MFM encoded gap.
*/
func NewTrack(bits, start int) (*Track, error) {

	if bits <= 0 {
		return nil, fmt.Errorf("invalid track length: %d", bits)
	}

	for start < 0 {
		start += bits
	}

	return &Track{
		data:  make([]byte, (bits+7)/8),
		bits:  bits,
		start: start % bits,
	}, nil
}

// Track is a bit cell buffer holding one synthesized revolution
type Track struct {
	data    []byte
	bits    int
	start   int
	written int
	prev    uint8
}

// Len returns the track length in bit cells
func (t *Track) Len() int {
	return t.bits
}

// Data returns the bit cells, most significant bit first, index at bit 0
func (t *Track) Data() []byte {
	return t.data
}

//
func (t *Track) Written() int {
	return t.written
}

//
func (t *Track) Bit(ix int) uint8 {
	return (t.data[ix>>3] >> (7 - uint(ix&7))) & 1
}

//
func (t *Track) emit(b uint8) {

	if t.written >= t.bits {
		log.WithField("bits", t.bits).Warn("track overflow, dropping bit")
		return
	}

	ix := (t.start + t.written) % t.bits
	mask := byte(0x80) >> uint(ix&7)
	if b != 0 {
		t.data[ix>>3] |= mask
	} else {
		t.data[ix>>3] &^= mask
	}
	t.written++
}

//
func (t *Track) emitData(d uint8) {
	if t.prev == 0 && d == 0 {
		t.emit(1)
	} else {
		t.emit(0)
	}
	t.emit(d)
	t.prev = d
}

// Bits emits the lowest n bits of v, most significant first. For scheme Raw,
// the bits are emitted as they are. For all other schemes, each bit is
// emitted as an MFM data cell together with its clock cell.
func (t *Track) Bits(s Scheme, n int, v uint32) {
	for ix := n - 1; ix >= 0; ix-- {
		b := uint8(v>>uint(ix)) & 1
		if s == Raw {
			t.emit(b)
			t.prev = b
		} else {
			t.emitData(b)
		}
	}
}

// Bytes emits the data bytes p encoded with scheme s.
func (t *Track) Bytes(s Scheme, p []byte) {

	if s == Raw {
		for _, b := range p {
			t.Bits(Raw, 8, uint32(b))
		}
		return
	}

	raw := make([]byte, RawLen(s, len(p)))
	spread(s, raw, p)
	for _, b := range raw {
		for pos := 6; pos >= 0; pos -= 2 {
			t.emitData((b >> uint(pos)) & 1)
		}
	}
}

// Finish fills the remainder of the track with MFM encoded zeros.
func (t *Track) Finish() {
	for t.bits-t.written >= 2 {
		t.emitData(0)
	}
	if t.written < t.bits {
		t.emit(0)
	}
}
