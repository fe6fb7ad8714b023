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
package amiga

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
	"github.com/xelalexv/fluxdisk/pkg/flux"
	"github.com/xelalexv/fluxdisk/pkg/mfm"
)

//
func NewChecksumTable(disks, tracks int, sums []uint16) ChecksumTable {
	if len(sums) != disks*tracks {
		panic(fmt.Sprintf("checksum table for %d disks of %d tracks has %d entries",
			disks, tracks, len(sums)))
	}
	return ChecksumTable{disks: disks, tracks: tracks, sums: sums}
}

// ChecksumTable holds the expected checksum of every track of a multi disk
// title. Disks are numbered from 1.
type ChecksumTable struct {
	disks  int
	tracks int
	sums   []uint16
}

// Lookup returns the expected checksum for a track on a disk, if the table
// covers it.
func (c ChecksumTable) Lookup(disk, track int) (uint16, bool) {
	if disk < 1 || disk > c.disks || track < 0 || track >= c.tracks {
		return 0, false
	}
	return c.sums[(disk-1)*c.tracks+track], true
}

/*
	Layout describes a track format that consists of a single sync word
	followed by one block of encoded data, and that carries no checksum of its
	own. Instead, the checksum over the raw block is compared against a table
	of known good values. The header check extracts the disk number from the
	decoded block.
*/
type Layout struct {
	Format   base.Format
	Sync     uint32
	Scheme   mfm.Scheme
	Geometry base.Geometry
	// tracks measured longer than LongTrack bits are recorded with LongBits
	LongTrack int
	LongBits  int
	//
	Header    func(track int, data []byte) (disk int, ok bool)
	Checksums ChecksumTable
}

//
func NewValidated(l Layout) *Validated {
	if l.Geometry.Sectors != 1 {
		panic(fmt.Sprintf("validated layout %s must have a single sector", l.Format))
	}
	return &Validated{layout: l}
}

// Validated is a handler for a checksum validated fixed layout.
type Validated struct {
	layout Layout
}

//
func (v *Validated) Format() base.Format {
	return v.layout.Format
}

//
func (v *Validated) Geometry() base.Geometry {
	return v.layout.Geometry
}

//
func (v *Validated) rawLen() int {
	return mfm.RawLen(v.layout.Scheme, v.layout.Geometry.PayloadLen())
}

//
func (v *Validated) Parse(s *flux.Stream, track int) (*base.Block, error) {

	l := v.layout
	raw := make([]byte, v.rawLen())
	seen := false

	for {
		if _, err := s.NextBit(); err != nil {
			if seen {
				return nil, base.ErrStreamExhausted
			}
			return nil, base.ErrNoMatch
		}

		if s.Word() != l.Sync {
			continue
		}

		seen = true
		off := s.IndexOffset() - 31

		s.StartChecksum()
		if err := s.NextBytes(raw); err != nil {
			if errors.Is(err, flux.ErrEndOfStream) {
				return nil, base.ErrStreamExhausted
			}
			return nil, err
		}

		b := base.NewBlock(l.Geometry)
		mfm.Decode(l.Scheme, b.Data, raw)

		// on mismatch, scanning resumes after the consumed block; the sync
		// breaks MFM clock rules, so it cannot occur inside encoded payload
		disk, ok := l.Header(track, b.Data)
		if !ok {
			log.WithFields(log.Fields{
				"format": l.Format, "track": track}).Trace("header mismatch")
			continue
		}

		sum := s.Checksum()
		if want, ok := l.Checksums.Lookup(disk, track); !ok || sum != want {
			log.WithFields(log.Fields{
				"format":   l.Format,
				"track":    track,
				"disk":     disk,
				"checksum": fmt.Sprintf("%04x", sum),
			}).Debug("checksum mismatch")
			continue
		}

		if l.LongTrack > 0 && s.TrackLengthBits() > l.LongTrack {
			b.TotalBits = l.LongBits
		}
		b.DataBitOff = normalize(off, b.TotalBits)
		b.SetAllValid(l.Geometry.Sectors)

		log.WithFields(log.Fields{
			"format": l.Format,
			"track":  track,
			"disk":   disk,
			"offset": b.DataBitOff,
			"bits":   b.TotalBits,
		}).Trace("track decoded")

		return b, nil
	}
}

//
func (v *Validated) Synthesize(track int, b *base.Block) (*mfm.Track, error) {

	if len(b.Data) != v.layout.Geometry.PayloadLen() {
		return nil, fmt.Errorf("invalid payload length for %s: %d",
			v.layout.Format, len(b.Data))
	}

	t, err := mfm.NewTrack(b.TotalBits, b.DataBitOff)
	if err != nil {
		return nil, err
	}

	t.Bits(mfm.Raw, 32, v.layout.Sync)
	t.Bytes(v.layout.Scheme, b.Data)
	t.Finish()

	return t, nil
}

/*
	Checksum calculates the checksum a synthesized track for block b would
	yield when parsed. This is the value to put into the checksum table for a
	known good dump.
*/
func (v *Validated) Checksum(b *base.Block) (uint16, error) {

	if len(b.Data) != v.layout.Geometry.PayloadLen() {
		return 0, fmt.Errorf("invalid payload length for %s: %d",
			v.layout.Format, len(b.Data))
	}

	t, err := mfm.NewTrack(32+8*v.rawLen(), 0)
	if err != nil {
		return 0, err
	}
	t.Bits(mfm.Raw, 32, v.layout.Sync)
	t.Bytes(v.layout.Scheme, b.Data)

	return flux.Checksum(t.Data()[4:]), nil
}

//
func normalize(off, bits int) int {
	if bits <= 0 {
		return off
	}
	off %= bits
	if off < 0 {
		off += bits
	}
	return off
}
