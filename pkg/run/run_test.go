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

package run

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xelalexv/fluxdisk/pkg/config"
	"github.com/xelalexv/fluxdisk/pkg/disk"
	"github.com/xelalexv/fluxdisk/pkg/disk/base"
	"github.com/xelalexv/fluxdisk/pkg/disk/format/amiga"
	"github.com/xelalexv/fluxdisk/pkg/flux"
)

func TestSettings(t *testing.T) {

	r := NewRunner("test", "", "", "", "", func() error { return nil })

	var name string
	var count int
	var align bool
	var backoff time.Duration

	r.AddBaseSettings()
	r.AddSetting(&name, "name", "n", "", nil, "name", true)
	r.AddSetting(&count, "count", "c", "FLUXDISK_TEST_COUNT", 3, "count", false)
	r.AddSetting(&align, "index-align", "x", "", false, "align", false)
	r.AddSetting(&backoff, "backoff", "b", "", time.Second, "backoff", false)

	t.Setenv("FLUXDISK_TEST_COUNT", "9")
	t.Setenv("FLUXDISK_INDEX_ALIGN", "true")

	if err := r.Command.ParseFlags([]string{"-n", "disk1", "--log_level", "error"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if err := r.ParseSettings(); err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}

	if name != "disk1" || count != 9 || !align || backoff != time.Second {
		t.Errorf("unexpected settings: %s %d %v %v", name, count, align, backoff)
	}
	if r.Address != "localhost:8888" || r.LogLevel != "error" {
		t.Errorf("unexpected base settings: %s %s", r.Address, r.LogLevel)
	}
	if !r.IsSet("name") || r.IsSet("backoff") {
		t.Error("unexpected explicit settings")
	}
}

func TestRequiredSetting(t *testing.T) {

	r := NewRunner("test", "", "", "", "", func() error { return nil })
	var input string
	r.AddSetting(&input, "input", "i", "", nil, "input", true)

	if err := r.Command.ParseFlags(nil); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if err := r.ParseSettings(); err == nil {
		t.Error("expected error for missing required setting")
	}
}

func TestAPIURL(t *testing.T) {
	for addr, want := range map[string]string{
		"localhost:8888":         "http://localhost:8888/formats",
		"http://pi.local:8888/":  "http://pi.local:8888/formats",
		"https://flux.local":     "https://flux.local/formats",
	} {
		if got := apiURL(addr, "/formats"); got != want {
			t.Errorf("%s: expected %s, got %s", addr, want, got)
		}
	}
}

// writeAmigaDOSCapture writes KryoFlux stream files for the given tracks,
// either into directory dir, or into zip archive zw if not nil
func amigaDOSCapture(t *testing.T, dir string, zw *zip.Writer, tracks ...int) {

	t.Helper()
	h := amiga.NewAmigaDOS()

	for _, nr := range tracks {

		b := base.NewBlock(h.Geometry())
		for ix := range b.Data {
			b.Data[ix] = byte(ix + 7*nr)
		}
		b.SetAllValid(h.Geometry().Sectors)

		tr, err := h.Synthesize(nr, b)
		if err != nil {
			t.Fatal(err)
		}
		s, _ := flux.NewStreamFromTrack(tr, 2)
		c, err := s.Flux(flux.PeriodDD, flux.KryoFluxSampleClock)
		if err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := flux.WriteKryoFlux(&buf, c); err != nil {
			t.Fatal(err)
		}

		if zw != nil {
			f, err := zw.Create(disk.KryoFluxName(nr))
			if err != nil {
				t.Fatal(err)
			}
			f.Write(buf.Bytes())
		} else {
			err := os.WriteFile(
				filepath.Join(dir, disk.KryoFluxName(nr)), buf.Bytes(), 0644)
			if err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestParse(t *testing.T) {

	tmp := t.TempDir()
	capture := filepath.Join(tmp, "disk1")
	if err := os.Mkdir(capture, 0755); err != nil {
		t.Fatal(err)
	}
	amigaDOSCapture(t, capture, nil, 0, 1, 2)

	report := filepath.Join(tmp, "disk1.json")
	dump := filepath.Join(tmp, "disk1.txt")
	export := filepath.Join(tmp, "export")

	p := NewParse()
	p.Command.SetArgs([]string{
		"--input", capture,
		"--verify",
		"--encoding", "json",
		"--output", report,
		"--dump", dump,
		"--export", export,
		"--yes",
	})
	if err := p.Command.Execute(); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	f, err := os.Open(report)
	if err != nil {
		t.Fatalf("no report: %v", err)
	}
	defer f.Close()

	rep, err := disk.DecodeReport(f)
	if err != nil {
		t.Fatalf("cannot decode report: %v", err)
	}
	if rep.Name != "disk1" || rep.Unidentified != 157 || len(rep.VerifyFailed) != 0 {
		t.Errorf("unexpected report: %s, %d unidentified, failed %v",
			rep.Name, rep.Unidentified, rep.VerifyFailed)
	}
	if run := rep.Runs[0].String(); run != "T0-2: amigados" {
		t.Errorf("unexpected first run: %s", run)
	}

	if info, err := os.Stat(dump); err != nil || info.Size() == 0 {
		t.Errorf("expected hex dump: %v", err)
	}

	entries, err := os.ReadDir(export)
	if err != nil || len(entries) != 160 {
		t.Errorf("expected 160 exported tracks, got %d, %v", len(entries), err)
	}
}

func TestWatchProcess(t *testing.T) {

	tmp := t.TempDir()
	file := filepath.Join(tmp, "game.zip")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	amigaDOSCapture(t, "", zw, 0)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	formats, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}

	w := &Watch{
		Reports: filepath.Join(tmp, "reports"),
		Format:  "bump_n_burn",
		formats: formats,
	}
	os.Mkdir(w.Reports, 0755)

	if err := w.process(context.Background(), file); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	f, err := os.Open(filepath.Join(w.Reports, "game.yaml"))
	if err != nil {
		t.Fatalf("no report: %v", err)
	}
	defer f.Close()

	rep, err := disk.DecodeReport(f)
	if err != nil {
		t.Fatalf("cannot decode report: %v", err)
	}
	if rep.Tracks[0].Format != "amigados" || rep.Unidentified != 159 {
		t.Errorf("unexpected report: %+v, %d unidentified",
			rep.Tracks[0], rep.Unidentified)
	}
}

func TestIsCapture(t *testing.T) {
	for file, want := range map[string]bool{
		"game.zip": true, "game.7z": true, "track00.0.raw.gz": true,
		"track00.0.raw": false, "notes.txt": false,
	} {
		if got := isCapture(file); got != want {
			t.Errorf("%s: expected %v, got %v", file, want, got)
		}
	}
}

func TestIndexLocation(t *testing.T) {
	if l := indexLocation("", "/data/reports/"); l != "/data/reports.index" {
		t.Errorf("unexpected default index location: %s", l)
	}
	if l := indexLocation("/tmp/ix", "/data/reports"); l != "/tmp/ix" {
		t.Errorf("unexpected index location: %s", l)
	}
}
