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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
	"github.com/xelalexv/fluxdisk/pkg/disk/format/amiga"
	"github.com/xelalexv/fluxdisk/pkg/flux"
)

func amigaDOSSource(t *testing.T, tracks int) *flux.MemSource {

	t.Helper()

	h := amiga.NewAmigaDOS()
	src := flux.NewMemSource()

	for nr := 0; nr < tracks; nr++ {
		b := base.NewBlock(h.Geometry())
		for ix := range b.Data {
			b.Data[ix] = byte(3*nr + ix)
		}
		b.SetAllValid(h.Geometry().Sectors)
		b.DataBitOff = 1500 * nr
		tr, err := h.Synthesize(nr, b)
		if err != nil {
			t.Fatalf("Synthesize failed: %v", err)
		}
		s, _ := flux.NewStreamFromTrack(tr, 2)
		src.Add(nr, s)
	}

	return src
}

func TestExportReparses(t *testing.T) {

	plan := func() *Plan {
		p := NewPlan(5)
		p.Assign(0, 4, NewCandidateList("amiga", amiga.NewAmigaDOS()))
		return p
	}

	d, _ := run(t, plan(), amigaDOSSource(t, 4), Options{})

	dir := filepath.Join(t.TempDir(), "export")
	n, err := Export(d, dir, 2)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 exported tracks, got %d", n)
	}

	for _, f := range []string{"track00.0.raw", "track01.1.raw", "track02.0.raw"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("expected stream file %s: %v", f, err)
		}
	}

	src, err := flux.NewDirSource(dir, flux.DefaultOptions())
	if err != nil {
		t.Fatalf("NewDirSource failed: %v", err)
	}

	again, _ := run(t, plan(), src, Options{})

	for nr := 0; nr < 4; nr++ {
		want, got := d.Track(nr), again.Track(nr)
		if got.State() != base.Resolved || got.Format() != amiga.AmigaDOS {
			t.Errorf("track %d: expected resolved AmigaDOS track, got %s/%s",
				nr, got.State(), got.Format())
			continue
		}
		if !bytes.Equal(want.Data(), got.Data()) {
			t.Errorf("track %d: data differs after export", nr)
		}
		if want.DataBitOff() != got.DataBitOff() {
			t.Errorf("track %d: expected data offset %d, got %d",
				nr, want.DataBitOff(), got.DataBitOff())
		}
	}

	if f := again.Track(4).Format(); f != base.NoFormat {
		t.Errorf("expected track without capture to come back unformatted, got %s", f)
	}
}

func TestKryoFluxName(t *testing.T) {
	for nr, want := range map[int]string{
		0: "track00.0.raw", 5: "track02.1.raw", 161: "track80.1.raw",
	} {
		if got := KryoFluxName(nr); got != want {
			t.Errorf("track %d: expected %s, got %s", nr, want, got)
		}
		if back, ok := flux.TrackFromKryoFluxName(want); !ok || back != nr {
			t.Errorf("%s: expected track %d, got %d", want, nr, back)
		}
	}
}
