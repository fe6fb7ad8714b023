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

package mfm

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestDecodeKnownWords(t *testing.T) {
	tests := []struct {
		name   string
		scheme Scheme
		raw    []byte
		want   []byte
	}{
		{"amiga sync", MFM, []byte{0x44, 0x89}, []byte{0xa1}},
		{"mfm zero", MFM, []byte{0xaa, 0xaa}, []byte{0x00}},
		{"mfm ones", MFM, []byte{0x55, 0x55}, []byte{0xff}},
		{"even odd ones", MFMEvenOdd, []byte{0x55, 0x55}, []byte{0xff}},
		{"even odd high bits", MFMEvenOdd, []byte{0x55, 0xaa}, []byte{0xaa}},
		{"odd even high bits", MFMOddEven, []byte{0xaa, 0x55}, []byte{0xaa}},
		{"raw", Raw, []byte{0x12, 0x34}, []byte{0x12, 0x34}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]byte, len(tt.want))
			Decode(tt.scheme, got, tt.raw)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("expected %x, got %x", tt.want, got)
			}
		})
	}
}

func TestEncodeClockBits(t *testing.T) {
	raw := make([]byte, 2)
	Encode(MFM, raw, []byte{0x00})
	if !bytes.Equal(raw, []byte{0xaa, 0xaa}) {
		t.Errorf("expected aaaa for encoded zero, got %x", raw)
	}

	Encode(MFM, raw, []byte{0xa1})
	// 0xa1 without the missing clock of the sync mark
	if !bytes.Equal(raw, []byte{0x44, 0xa9}) {
		t.Errorf("expected 44a9 for encoded a1, got %x", raw)
	}
}

func TestEncodeDecodeInverse(t *testing.T) {

	rnd := rand.New(rand.NewSource(42))

	for _, s := range []Scheme{Raw, MFM, MFMEvenOdd, MFMOddEven} {
		for _, n := range []int{1, 4, 16, 512, 0x1810} {
			data := make([]byte, n)
			rnd.Read(data)

			raw := make([]byte, RawLen(s, n))
			Encode(s, raw, data)

			got := make([]byte, n)
			Decode(s, got, raw)

			if !bytes.Equal(got, data) {
				t.Fatalf("%v: round trip of %d bytes failed", s, n)
			}
		}
	}
}

func TestEncodeHasNoMFMViolations(t *testing.T) {

	data := []byte{0x00, 0x00, 0xff, 0x01, 0x80, 0x55}
	raw := make([]byte, RawLen(MFMEvenOdd, len(data)))
	Encode(MFMEvenOdd, raw, data)

	zeros := 0
	prev := uint8(0)
	for ix := 0; ix < len(raw)*8; ix++ {
		b := (raw[ix/8] >> (7 - uint(ix%8))) & 1
		if b == 1 && prev == 1 {
			t.Fatalf("adjacent 1 cells at %d", ix)
		}
		if b == 0 {
			zeros++
			if zeros > 3 {
				t.Fatalf("more than three 0 cells at %d", ix)
			}
		} else {
			zeros = 0
		}
		prev = b
	}
}

func TestDecodeSizeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched buffer sizes")
		}
	}()
	Decode(MFMEvenOdd, make([]byte, 4), make([]byte, 7))
}

func TestRawLen(t *testing.T) {
	if RawLen(Raw, 10) != 10 {
		t.Errorf("raw length of raw scheme should be unchanged")
	}
	if RawLen(MFMEvenOdd, 0x1810) != 0x3020 {
		t.Errorf("expected 0x3020, got %#x", RawLen(MFMEvenOdd, 0x1810))
	}
}
