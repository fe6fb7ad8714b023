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
	"testing"

	"github.com/xelalexv/fluxdisk/pkg/config"
	"github.com/xelalexv/fluxdisk/pkg/disk/base"
	"github.com/xelalexv/fluxdisk/pkg/disk/format/amiga"
	"github.com/xelalexv/fluxdisk/pkg/flux"
)

func amigaDOSTrack(t *testing.T, nr int) *flux.Stream {
	t.Helper()
	h := amiga.NewAmigaDOS()
	b := base.NewBlock(h.Geometry())
	for ix := range b.Data {
		b.Data[ix] = byte(nr ^ ix)
	}
	b.SetAllValid(h.Geometry().Sectors)
	tr, err := h.Synthesize(nr, b)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	s, err := flux.NewStreamFromTrack(tr, 2)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRun(t *testing.T) {

	formats, err := config.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	src := flux.NewMemSource()
	src.Add(0, amigaDOSTrack(t, 0))
	src.Add(1, amigaDOSTrack(t, 1))

	res, err := Run(context.Background(), formats, src, "wb",
		Settings{Format: "amigados", Verify: true, IndexAlign: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rep := res.Report
	if rep.Name != "wb" || res.Disk.Name() != "wb" {
		t.Errorf("unexpected names: %s, %s", rep.Name, res.Disk.Name())
	}
	if len(rep.VerifyFailed) != 0 {
		t.Errorf("unexpected verification failures: %v", rep.VerifyFailed)
	}
	if rep.Tracks[1].Format != "amigados" || rep.Tracks[1].State != "resolved" {
		t.Errorf("unexpected track 1: %+v", rep.Tracks[1])
	}
	if rep.Tracks[1].DataBitOff != 1024 {
		t.Errorf("expected aligned data offset, got %d", rep.Tracks[1].DataBitOff)
	}
	if rep.Unidentified != 158 {
		t.Errorf("expected 158 unidentified tracks, got %d", rep.Unidentified)
	}
}

func TestRunUnknownFormat(t *testing.T) {

	formats, err := config.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := Run(context.Background(), formats, flux.NewMemSource(),
		"x", Settings{Format: "atari_st"}); err == nil {
		t.Error("expected error for unknown disk format")
	}
}
