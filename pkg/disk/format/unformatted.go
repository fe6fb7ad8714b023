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
package format

import (
	"math/rand"

	"github.com/bits-and-blooms/bitset"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
	"github.com/xelalexv/fluxdisk/pkg/flux"
	"github.com/xelalexv/fluxdisk/pkg/mfm"
)

const (
	defaultBits = 100150
	// size of the windows a revolution is checked in, in bit cells
	scanWindow = 1000
	// percentage of windows that may look like clean MFM on a track that's
	// considered unformatted
	maxCleanPercent = 10
)

// NewUnformatted creates the pseudo handler that claims tracks which carry
// only noise.
func NewUnformatted() *Unformatted {
	return &Unformatted{}
}

/*
	Unformatted checks whether a track looks like an unformatted track, i.e.
	whether the bit cells of one revolution violate the MFM rules the way
	random flux does. A clean MFM window contains neither two adjacent 1s nor
	more than three 0s in a row.
*/
type Unformatted struct{}

//
func (u *Unformatted) Format() base.Format {
	return base.NoFormat
}

//
func (u *Unformatted) Geometry() base.Geometry {
	return base.Geometry{Bits: defaultBits}
}

//
func (u *Unformatted) Parse(s *flux.Stream, track int) (*base.Block, error) {

	bits := s.TrackLengthBits()
	windows := 0
	clean := 0

	for ; bits >= scanWindow; bits -= scanWindow {
		ok, err := cleanWindow(s, scanWindow)
		if err != nil {
			break
		}
		windows++
		if ok {
			clean++
		}
	}

	log.WithFields(log.Fields{
		"track":   track,
		"windows": windows,
		"clean":   clean,
	}).Trace("unformatted check")

	if clean*100 > windows*maxCleanPercent {
		return nil, base.ErrNoMatch
	}

	return &base.Block{
		Data:      []byte{},
		TotalBits: defaultBits,
		Valid:     bitset.New(0),
	}, nil
}

//
func cleanWindow(s *flux.Stream, n int) (bool, error) {

	ret := true
	var prev uint8
	zeros := 0

	for ix := 0; ix < n; ix++ {
		b, err := s.NextBit()
		if err != nil {
			return false, err
		}
		if b == 1 {
			if ix > 0 && prev == 1 {
				ret = false
			}
			zeros = 0
		} else if zeros++; zeros > 3 {
			ret = false
		}
		prev = b
	}

	return ret, nil
}

// Synthesize fills the track with random flux that does not form valid MFM.
// The noise is seeded with the track number, so synthesis is reproducible.
func (u *Unformatted) Synthesize(track int, b *base.Block) (*mfm.Track, error) {

	bits := b.TotalBits
	if bits <= 0 {
		bits = defaultBits
	}

	t, err := mfm.NewTrack(bits, 0)
	if err != nil {
		return nil, err
	}

	rnd := rand.New(rand.NewSource(int64(track) + 1))
	for ix := 0; ix < bits; ix += 32 {
		n := 32
		if bits-ix < n {
			n = bits - ix
		}
		t.Bits(mfm.Raw, n, rnd.Uint32())
	}

	return t, nil
}
