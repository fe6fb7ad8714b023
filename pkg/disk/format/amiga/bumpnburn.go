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
	"encoding/binary"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
	"github.com/xelalexv/fluxdisk/pkg/mfm"
)

const (
	BumpNBurn base.Format = "bump_n_burn"

	bumpNBurnSync    = 0x22912291
	bumpNBurnLen     = 0x1810
	bumpNBurnDisks   = 6
	bumpNBurnTracks  = 160
	bumpNBurnLong    = 101500
	bumpNBurnLongLen = 102800
)

/*
	NewBumpNBurn creates the handler for the custom format used on Bump 'n'
	Burn by Grandslam. A track is a 0x22912291 sync followed by 0x1810 even/odd
	encoded bytes, without any checksum. The first long of the data holds the
	track number in its top byte, and the disk number as an ASCII digit in its
	lowest byte. Tracks are validated against the known checksums of the
	original disks.

	Dumps from long tracks exist, i.e. tracks that are measurably longer than
	normal. These are recorded with a total length of 102800 bits.
*/
func NewBumpNBurn() *Validated {
	return NewBumpNBurnWithChecksums(bumpNBurnChecksums)
}

// NewBumpNBurnWithChecksums creates a Bump 'n' Burn handler that validates
// against the given checksum table.
func NewBumpNBurnWithChecksums(sums ChecksumTable) *Validated {
	return NewValidated(Layout{
		Format: BumpNBurn,
		Sync:   bumpNBurnSync,
		Scheme: mfm.MFMEvenOdd,
		Geometry: base.Geometry{
			BytesPerSector: bumpNBurnLen,
			Sectors:        1,
			Bits:           NominalBits,
		},
		LongTrack: bumpNBurnLong,
		LongBits:  bumpNBurnLongLen,
		Header:    bumpNBurnHeader,
		Checksums: sums,
	})
}

//
func bumpNBurnHeader(track int, data []byte) (int, bool) {

	header := binary.BigEndian.Uint32(data)

	if int(header>>24) != track || header&0xfff0 != 0x3030 {
		return 0, false
	}

	disk := int(header&0xff) - '0'
	if disk < 1 || disk > bumpNBurnDisks || track >= bumpNBurnTracks {
		return 0, false
	}

	return disk, true
}

// BumpNBurnHeader creates the header long for a track of the given disk.
func BumpNBurnHeader(track, disk int) []byte {
	ret := make([]byte, 4)
	binary.BigEndian.PutUint32(ret,
		uint32(track)<<24|0x3030|uint32('0'+disk))
	return ret
}
