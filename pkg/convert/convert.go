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

package convert

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/config"
	"github.com/xelalexv/fluxdisk/pkg/disk"
	"github.com/xelalexv/fluxdisk/pkg/flux"
)

// Settings control a conversion
type Settings struct {
	// name of the disk format from the formats configuration
	Format string
	//
	IndexAlign bool
	// synthesize and re-parse all decoded tracks
	Verify bool
}

//
type Result struct {
	Disk   *disk.Disk
	Report *disk.Report
}

/*
	Run converts the capture provided by src into a disk, using the plan for
	disk format s.Format from formats. name is used for the disk and its
	report. Each run gets a fresh plan, so candidate list cursors do not carry
	over between disks.
*/
func Run(ctx context.Context, formats *config.Formats, src flux.Source,
	name string, s Settings) (*Result, error) {

	plan, err := formats.Plan(s.Format)
	if err != nil {
		return nil, err
	}

	d, rep, err := disk.NewResolver(
		plan, disk.Options{IndexAlign: s.IndexAlign}).Run(ctx, name, src)
	if err != nil {
		return nil, fmt.Errorf("conversion of %s failed: %v", name, err)
	}

	if s.Verify {
		rep.VerifyFailed = disk.Verify(d)
	}

	logger := log.WithFields(log.Fields{"name": name, "format": s.Format})
	if w := rep.Warning(); w != "" {
		logger.Warn(w)
	} else {
		logger.Info("conversion finished")
	}

	return &Result{Disk: d, Report: rep}, nil
}
