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

package flux

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sigurn/crc16"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/mfm"
)

// ErrEndOfStream is returned when all bit cells of a stream have been consumed
var ErrEndOfStream = errors.New("end of flux stream")

var crcTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// Checksum calculates the same CRC16-CCITT over p that a stream accumulates
// when reading p.
func Checksum(p []byte) uint16 {
	return crc16.Checksum(p, crcTable)
}

/*
	NewStream creates a stream over the n bit cells held in bits, most
	significant bit first. index lists the bit positions at which index pulses
	occurred; a bit at an index position is the first bit of a revolution. The
	stream is positioned at the first index pulse.
*/
func NewStream(bits []byte, n int, index []int) (*Stream, error) {

	if n < 0 || n > len(bits)*8 {
		return nil, fmt.Errorf(
			"invalid bit count %d for buffer of %d bytes", n, len(bits))
	}

	idx := make([]int, 0, len(index))
	for _, i := range index {
		if 0 <= i && i < n {
			idx = append(idx, i)
		} else {
			log.WithField("position", i).Debug("dropping index pulse outside of stream")
		}
	}
	sort.Ints(idx)

	s := &Stream{bits: bits, n: n, index: idx}
	s.RewindToIndex()
	return s, nil
}

/*
	NewStreamFromTrack creates a stream that replays a synthesized track for
	the given number of revolutions, with an index pulse at the start of each
	revolution.
*/
func NewStreamFromTrack(t *mfm.Track, revolutions int) (*Stream, error) {

	if revolutions < 1 {
		revolutions = 1
	}

	n := t.Len() * revolutions
	bits := make([]byte, (n+7)/8)
	index := make([]int, revolutions)

	for r := 0; r < revolutions; r++ {
		index[r] = r * t.Len()
		for ix := 0; ix < t.Len(); ix++ {
			if t.Bit(ix) != 0 {
				pos := index[r] + ix
				bits[pos>>3] |= 0x80 >> uint(pos&7)
			}
		}
	}

	return NewStream(bits, n, index)
}

/*
	Stream is a sequential bit cell source over one captured track. Besides the
	cursor, it keeps the last 32 bits read as a word for sync mark detection,
	and a running CRC16-CCITT over all bytes consumed since the last call to
	StartChecksum.

	A stream is not safe for concurrent use.
*/
type Stream struct {
	bits  []byte
	n     int
	index []int
	//
	pos   int
	limit int
	revs  int
	idxIx int
	word  uint32
	//
	crc     uint16
	crcBits int
	crcByte byte
	crcBuf  [1]byte
}

// Len returns the total number of bit cells in the capture
func (s *Stream) Len() int {
	return s.n
}

// Pos returns the absolute position of the next bit to be read
func (s *Stream) Pos() int {
	return s.pos
}

//
func (s *Stream) IndexPulses() []int {
	return s.index
}

/*
	SetRevolutions limits reading to the given number of revolutions, counted
	from the first index pulse. 0 removes the limit. Takes effect with the next
	call to RewindToIndex.
*/
func (s *Stream) SetRevolutions(r int) {
	if r < 0 {
		r = 0
	}
	s.revs = r
}

/*
	RewindToIndex moves the cursor back to the first index pulse of the
	capture, or to its start if there is none, and clears word and checksum
	state. Handlers may consume bits irreversibly before discovering they
	don't match, so every new decode attempt starts from here.
*/
func (s *Stream) RewindToIndex() {

	s.pos = 0
	s.idxIx = -1
	if len(s.index) > 0 {
		s.pos = s.index[0]
		s.idxIx = 0
	}

	s.limit = s.n
	if s.revs > 0 && s.idxIx >= 0 && s.revs < len(s.index) {
		s.limit = s.index[s.revs]
	}

	s.word = 0
	s.StartChecksum()
}

// NextBit reads the next bit cell.
func (s *Stream) NextBit() (uint8, error) {

	if s.pos >= s.limit {
		return 0, ErrEndOfStream
	}

	b := (s.bits[s.pos>>3] >> (7 - uint(s.pos&7))) & 1

	for s.idxIx+1 < len(s.index) && s.index[s.idxIx+1] <= s.pos {
		s.idxIx++
	}
	s.pos++

	s.word = s.word<<1 | uint32(b)

	s.crcByte = s.crcByte<<1 | b
	if s.crcBits++; s.crcBits&7 == 0 {
		s.crcBuf[0] = s.crcByte
		s.crc = crc16.Update(s.crc, s.crcBuf[:], crcTable)
	}

	return b, nil
}

// NextBits reads the next n bit cells, n <= 32, most significant first.
func (s *Stream) NextBits(n int) (uint32, error) {

	if n > 32 {
		return 0, fmt.Errorf("cannot read %d bits at once", n)
	}

	var v uint32
	for ix := 0; ix < n; ix++ {
		b, err := s.NextBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | uint32(b)
	}
	return v, nil
}

// NextBytes fills p with the next 8*len(p) bit cells. On error, the content
// of p is undefined.
func (s *Stream) NextBytes(p []byte) error {
	for ix := range p {
		v, err := s.NextBits(8)
		if err != nil {
			return err
		}
		p[ix] = byte(v)
	}
	return nil
}

// NextIndex reads up to and including the bit cell preceding the next index
// pulse, so that the next bit read is the first of a new revolution.
func (s *Stream) NextIndex() error {

	next := s.idxIx + 1
	if s.idxIx >= 0 && s.index[s.idxIx] >= s.pos {
		next = s.idxIx
	}
	if next >= len(s.index) {
		return ErrEndOfStream
	}

	for s.pos < s.index[next] {
		if _, err := s.NextBit(); err != nil {
			return err
		}
	}
	return nil
}

// Word returns the last 32 bit cells read
func (s *Stream) Word() uint32 {
	return s.word
}

// StartChecksum resets the running checksum. All bytes consumed from here on
// are accumulated.
func (s *Stream) StartChecksum() {
	s.crc = crc16.Init(crcTable)
	s.crcBits = 0
	s.crcByte = 0
}

// Checksum returns the CRC16-CCITT over the bytes consumed since the last
// call to StartChecksum. Trailing bits of an incomplete byte are not included.
func (s *Stream) Checksum() uint16 {
	return crc16.Complete(s.crc, crcTable)
}

// IndexOffset returns the offset of the most recently read bit cell relative
// to the most recent index pulse.
func (s *Stream) IndexOffset() int {
	last := s.pos - 1
	if s.idxIx >= 0 && s.index[s.idxIx] <= last {
		return last - s.index[s.idxIx]
	}
	return last
}

// TrackLengthBits returns the length of the current revolution in bit cells,
// i.e. the distance between the index pulse that started it and the next
// pulse. If there is no next pulse, the end of the capture is used instead.
func (s *Stream) TrackLengthBits() int {

	start := 0
	next := 0
	if s.idxIx >= 0 {
		start = s.index[s.idxIx]
		next = s.idxIx + 1
	}

	if next < len(s.index) {
		return s.index[next] - start
	}
	return s.n - start
}

// Flux converts the bit cells of this stream back into flux timing, e.g. for
// writing a synthesized track as a capture file.
func (s *Stream) Flux(period, sampleClock float64) (*Capture, error) {
	return EncodeFlux(s.bits, s.n, s.index, period, sampleClock)
}
