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
package disk

import (
	"fmt"
	"io"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
)

//
func NewDisk(name string, tracks int) *Disk {
	ret := &Disk{name: name, tracks: make([]*base.TrackInfo, tracks)}
	for ix := range ret.tracks {
		ret.tracks[ix] = base.NewTrackInfo(ix)
	}
	return ret
}

// Disk holds the decoded tracks of a disk, for handing over to a container
// format writer.
type Disk struct {
	name   string
	tracks []*base.TrackInfo
}

//
func (d *Disk) Name() string {
	return d.name
}

//
func (d *Disk) TrackCount() int {
	return len(d.tracks)
}

//
func (d *Disk) Track(nr int) *base.TrackInfo {
	if 0 <= nr && nr < len(d.tracks) {
		return d.tracks[nr]
	}
	return nil
}

// Emit writes a hex dump of all tracks that carry data.
func (d *Disk) Emit(w io.Writer) {
	io.WriteString(w, fmt.Sprintf("DISK: %s, %d tracks\n", d.name, len(d.tracks)))
	for _, t := range d.tracks {
		if len(t.Data()) > 0 {
			t.Emit(w)
		}
	}
}
