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
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/flux"
)

// KryoFluxName returns the stream file name for logical track nr
func KryoFluxName(nr int) string {
	return fmt.Sprintf("track%02d.%d.raw", nr/2, nr%2)
}

/*
	Export writes every track of disk d as a KryoFlux stream file into
	directory dir, synthesized from the decoded data. Each file holds the
	given number of revolutions. The result is a clean capture of the disk
	that can be processed like the original one. Returns the number of files
	written.
*/
func Export(d *Disk, dir string, revolutions int) (int, error) {

	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	for nr := 0; nr < d.TrackCount(); nr++ {

		t := d.Track(nr)

		_, tr, err := synthesize(t)
		if err != nil {
			return nr, fmt.Errorf("cannot synthesize track %d: %v", nr, err)
		}

		s, err := flux.NewStreamFromTrack(tr, revolutions)
		if err != nil {
			return nr, err
		}

		c, err := s.Flux(flux.PeriodDD, flux.KryoFluxSampleClock)
		if err != nil {
			return nr, err
		}

		if err := writeCapture(filepath.Join(dir, KryoFluxName(nr)), c); err != nil {
			return nr, err
		}

		log.WithFields(log.Fields{
			"track": nr, "format": t.Format()}).Trace("track exported")
	}

	log.WithFields(log.Fields{
		"dir": dir, "tracks": d.TrackCount()}).Info("disk exported")

	return d.TrackCount(), nil
}

//
func writeCapture(file string, c *flux.Capture) error {

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := flux.WriteKryoFlux(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
