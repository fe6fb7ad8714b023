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
package flux

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"testing"
)

func kryoFluxFile(t *testing.T, cells int) []byte {
	t.Helper()
	c := &Capture{SampleClock: 1e9, Index: []Index{{Flux: 0}}}
	for ix := 0; ix < cells; ix++ {
		c.Flux = append(c.Flux, 2*PeriodDD)
	}
	var buf bytes.Buffer
	if err := WriteKryoFlux(&buf, c); err != nil {
		t.Fatalf("WriteKryoFlux failed: %v", err)
	}
	return buf.Bytes()
}

func TestArchiveSourceZip(t *testing.T) {

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{
		"capture/track00.0.raw", "capture/track00.1.raw",
		"capture/track01.0.raw", "capture/notes.txt"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create failed: %v", err)
		}
		w.Write(kryoFluxFile(t, 50))
	}
	zw.Close()

	src, err := NewArchiveSource(
		io.NopCloser(&buf), "capture.zip", "zip", DefaultOptions())
	if err != nil {
		t.Fatalf("NewArchiveSource failed: %v", err)
	}
	defer src.Close()

	tracks := src.Tracks()
	if len(tracks) != 3 || tracks[0] != 0 || tracks[1] != 1 || tracks[2] != 2 {
		t.Fatalf("expected tracks [0 1 2], got %v", tracks)
	}

	s, err := src.Track(2)
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	// 50 intervals of two cells each
	if s.Len() != 100 {
		t.Errorf("expected 100 bit cells, got %d", s.Len())
	}

	if _, err := src.Track(3); err != ErrNoTrack {
		t.Errorf("expected ErrNoTrack, got %v", err)
	}
}

func TestArchiveSourceGZip(t *testing.T) {

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Name = "track10.1.raw"
	gw.Write(kryoFluxFile(t, 20))
	gw.Close()

	src, err := NewArchiveSource(
		io.NopCloser(&buf), "upload.gz", "gzip", DefaultOptions())
	if err != nil {
		t.Fatalf("NewArchiveSource failed: %v", err)
	}

	tracks := src.Tracks()
	if len(tracks) != 1 || tracks[0] != 21 {
		t.Fatalf("expected track 21, got %v", tracks)
	}
}

func TestArchiveSourceSingle(t *testing.T) {

	data := kryoFluxFile(t, 20)

	src, err := NewArchiveSource(io.NopCloser(bytes.NewReader(data)),
		"track03.0.raw", "", DefaultOptions())
	if err != nil {
		t.Fatalf("NewArchiveSource failed: %v", err)
	}
	if tracks := src.Tracks(); len(tracks) != 1 || tracks[0] != 6 {
		t.Fatalf("expected track 6, got %v", tracks)
	}

	if _, err := NewArchiveSource(io.NopCloser(bytes.NewReader(data)),
		"readme.txt", "", DefaultOptions()); err == nil {
		t.Error("expected error for capture without stream files")
	}

	if _, err := NewArchiveSource(io.NopCloser(bytes.NewReader(data)),
		"track03.0.raw", "rar", DefaultOptions()); err == nil {
		t.Error("expected error for unsupported compressor")
	}
}

func TestSplitNameTypeCompressor(t *testing.T) {

	tests := []struct {
		file, name, typ, compressor string
	}{
		{"track00.0.raw", "track00.0", "raw", ""},
		{"/tmp/track12.1.raw.gz", "track12.1", "raw", "gz"},
		{"bumpnburn.zip", "bumpnburn", "", "zip"},
		{"bumpnburn.7z", "bumpnburn", "", "7z"},
		{"disk", "disk", "", ""},
	}

	for _, tc := range tests {
		name, typ, comp := SplitNameTypeCompressor(tc.file)
		if name != tc.name || typ != tc.typ || comp != tc.compressor {
			t.Errorf("%s: expected (%s, %s, %s), got (%s, %s, %s)", tc.file,
				tc.name, tc.typ, tc.compressor, name, typ, comp)
		}
	}
}
