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
	"math/rand"
	"testing"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
)

func amigaDOSBlock(seed int64, offset int, missing ...int) *base.Block {
	b := base.NewBlock(NewAmigaDOS().Geometry())
	rand.New(rand.NewSource(seed)).Read(b.Data)
	b.DataBitOff = offset
	b.SetAllValid(amigaDOSSectors)
	for _, m := range missing {
		b.Valid.Clear(uint(m))
		for ix := m * amigaDOSSecLen; ix < (m+1)*amigaDOSSecLen; ix++ {
			b.Data[ix] = 0
		}
	}
	return b
}

func TestAmigaDOSRoundTrip(t *testing.T) {

	tests := []struct {
		name    string
		track   int
		offset  int
		missing []int
	}{
		{"complete", 0, 1024, nil},
		{"complete, across index", 81, NominalBits - 3000, nil},
		{"sector 0 missing", 17, 2000, []int{0}},
		{"several missing", 120, 512, []int{3, 7, 10}},
	}

	h := NewAmigaDOS()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {

			b := amigaDOSBlock(int64(tc.track), tc.offset, tc.missing...)

			got, err := h.Parse(synthesizedStream(t, h, tc.track, b), tc.track)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if !got.Equal(b) {
				t.Errorf("round trip differs: offset %d/%d, valid %v/%v",
					got.DataBitOff, b.DataBitOff, got.Valid, b.Valid)
			}

			complete := len(tc.missing) == 0
			if got.Complete(amigaDOSSectors) != complete {
				t.Errorf("expected complete %v", complete)
			}
		})
	}
}

func TestAmigaDOSNoValidData(t *testing.T) {

	h := NewAmigaDOS()
	b := amigaDOSBlock(1, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	_, err := h.Parse(synthesizedStream(t, h, 4, b), 4)
	if !errors.Is(err, base.ErrStreamExhausted) {
		t.Errorf("expected stream exhausted, got %v", err)
	}
}

func TestAmigaDOSOtherTrack(t *testing.T) {

	h := NewAmigaDOS()
	b := amigaDOSBlock(1, 0)

	_, err := h.Parse(synthesizedStream(t, h, 4, b), 5)
	if !errors.Is(err, base.ErrNoMatch) {
		t.Errorf("expected no match, got %v", err)
	}
}

func TestAmigaDOSOnBumpNBurnTrack(t *testing.T) {

	b := bumpNBurnBlock(t, 8, 1, 8)
	bnb := handlerFor(t, 8, 1, b, false)

	_, err := NewAmigaDOS().Parse(synthesizedStream(t, bnb, 8, b), 8)
	if !errors.Is(err, base.ErrNoMatch) {
		t.Errorf("expected no match, got %v", err)
	}
}

func TestSectorChecksums(t *testing.T) {

	data := make([]byte, amigaDOSSecLen)
	for ix := range data {
		data[ix] = byte(ix)
	}

	sec := generateSector(33, 4, data)

	parsed, err := newSector(sec.raw)
	if err != nil {
		t.Fatalf("newSector failed: %v", err)
	}
	if parsed.Track() != 33 || parsed.Index() != 4 {
		t.Errorf("expected track 33 sector 4, got %d %d",
			parsed.Track(), parsed.Index())
	}
	if err := parsed.ValidateData(); err != nil {
		t.Errorf("unexpected data error: %v", err)
	}
	if string(parsed.Data()) != string(data) {
		t.Error("sector data differs")
	}

	sec.raw[sectorIndex["data"][0]+100] ^= 0x11
	if err := sec.ValidateData(); err == nil {
		t.Error("expected data checksum error")
	}

	sec.raw[sectorIndex["label"][0]] ^= 0x01
	if _, err := newSector(sec.raw); err == nil {
		t.Error("expected header checksum error")
	}
}

func TestSectorFieldsFollowRawLayout(t *testing.T) {

	pos := 0
	for _, f := range sectorFields {
		ix, ok := sectorIndex[f]
		if !ok {
			t.Fatalf("no raw layout for field %s", f)
		}
		if ix[0] != pos {
			t.Errorf("field %s expected at %d, got %d", f, pos, ix[0])
		}
		pos += ix[1]
	}
	if pos != sectorIndex["complete"][1] {
		t.Errorf("fields cover %d bytes, expected %d",
			pos, sectorIndex["complete"][1])
	}
	if pos+rawPreamble+rawSync != rawSectorLen {
		t.Errorf("sector length %d does not match %d",
			pos+rawPreamble+rawSync, rawSectorLen)
	}
}
