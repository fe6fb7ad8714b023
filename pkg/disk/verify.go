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
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
	"github.com/xelalexv/fluxdisk/pkg/disk/format"
	"github.com/xelalexv/fluxdisk/pkg/flux"
	"github.com/xelalexv/fluxdisk/pkg/mfm"
)

var errRoundTrip = errors.New("synthesized track parses differently")

/*
	Verify synthesizes every decoded track of disk d, and parses the result
	again with the same handler. It returns the numbers of all tracks for
	which this round trip does not reproduce the decoded track.
*/
func Verify(d *Disk) []int {

	var ret []int

	for nr := 0; nr < d.TrackCount(); nr++ {

		t := d.Track(nr)
		if t.State() != base.Resolved && t.State() != base.Damaged {
			continue
		}
		if t.Format() == base.NoFormat {
			continue
		}

		if err := verifyTrack(t); err != nil {
			log.WithFields(log.Fields{
				"track": nr, "format": t.Format()}).Warnf("verification failed: %v", err)
			ret = append(ret, nr)
		}
	}

	return ret
}

//
func verifyTrack(t *base.TrackInfo) error {

	h, tr, err := synthesize(t)
	if err != nil {
		return err
	}
	want := t.Block()

	s, err := flux.NewStreamFromTrack(tr, 2)
	if err != nil {
		return err
	}

	got, err := h.Parse(s, t.Nr())
	if err != nil {
		return err
	}

	if !got.Equal(want) {
		return errRoundTrip
	}
	return nil
}

/*
	synthesize turns decoded track t back into bit cells, using the handler of
	its format. Tracks without a format, i.e. unformatted or abandoned ones,
	are filled with noise.
*/
func synthesize(t *base.TrackInfo) (base.Handler, *mfm.Track, error) {

	f := t.Format()
	if t.State() != base.Resolved && t.State() != base.Damaged {
		f = base.NoFormat
	}

	h, err := format.NewHandler(f)
	if err != nil {
		return nil, nil, err
	}

	tr, err := h.Synthesize(t.Nr(), t.Block())
	if err != nil {
		return nil, nil, err
	}
	return h, tr, nil
}
