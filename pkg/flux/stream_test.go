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
	"errors"
	"testing"

	"github.com/sigurn/crc16"

	"github.com/xelalexv/fluxdisk/pkg/mfm"
)

func bytesStream(t *testing.T, data []byte, index []int) *Stream {
	t.Helper()
	s, err := NewStream(data, len(data)*8, index)
	if err != nil {
		t.Fatalf("NewStream failed: %v", err)
	}
	return s
}

func TestChecksumMatchesCCITT(t *testing.T) {

	data := []byte("123456789")
	s := bytesStream(t, data, nil)

	buf := make([]byte, len(data))
	if err := s.NextBytes(buf); err != nil {
		t.Fatalf("NextBytes failed: %v", err)
	}

	// CRC-16/CCITT-FALSE check value
	if got := s.Checksum(); got != 0x29b1 {
		t.Errorf("expected checksum 29b1, got %04x", got)
	}
	if want := crc16.Checksum(data, crcTable); s.Checksum() != want {
		t.Errorf("expected %04x, got %04x", want, s.Checksum())
	}
}

func TestChecksumResetIsIndependentOfHistory(t *testing.T) {

	payload := []byte{0xa1, 0x5e, 0x07}

	a := bytesStream(t, append([]byte{0x00, 0xff, 0x13}, payload...), nil)
	b := bytesStream(t, append([]byte{0x42}, payload...), nil)

	skip := make([]byte, 3)
	a.NextBytes(skip)
	b.NextBytes(skip[:1])

	a.StartChecksum()
	b.StartChecksum()

	buf := make([]byte, len(payload))
	a.NextBytes(buf)
	b.NextBytes(buf)

	if a.Checksum() != b.Checksum() {
		t.Errorf("expected equal checksums after reset, got %04x and %04x",
			a.Checksum(), b.Checksum())
	}
}

func TestChecksumIsOrderSensitive(t *testing.T) {

	read := func(data []byte) uint16 {
		s := bytesStream(t, data, nil)
		buf := make([]byte, len(data))
		s.NextBytes(buf)
		return s.Checksum()
	}

	if read([]byte{1, 2, 3}) == read([]byte{3, 2, 1}) {
		t.Error("expected checksum to depend on byte order")
	}
	if read([]byte{1, 2, 3}) == read([]byte{1, 2, 4}) {
		t.Error("expected checksum to depend on byte values")
	}
}

func TestChecksumIgnoresIncompleteByte(t *testing.T) {

	s := bytesStream(t, []byte{0xff, 0xff}, nil)
	s.StartChecksum()
	if _, err := s.NextBits(7); err != nil {
		t.Fatalf("NextBits failed: %v", err)
	}
	if s.Checksum() != 0xffff {
		t.Errorf("expected initial checksum, got %04x", s.Checksum())
	}
}

func TestEndOfStream(t *testing.T) {

	s := bytesStream(t, []byte{0x80}, nil)
	for ix := 0; ix < 8; ix++ {
		if _, err := s.NextBit(); err != nil {
			t.Fatalf("unexpected error at bit %d: %v", ix, err)
		}
	}
	if _, err := s.NextBit(); !errors.Is(err, ErrEndOfStream) {
		t.Errorf("expected end of stream, got %v", err)
	}
	if err := s.NextBytes(make([]byte, 1)); !errors.Is(err, ErrEndOfStream) {
		t.Errorf("expected end of stream for bytes, got %v", err)
	}
}

func TestWordTracksLastBits(t *testing.T) {

	s := bytesStream(t, []byte{0x00, 0x22, 0x91, 0x22, 0x91, 0x00}, nil)

	found := -1
	for {
		if _, err := s.NextBit(); err != nil {
			break
		}
		if s.Word() == 0x22912291 {
			found = s.Pos() - 1
			break
		}
	}
	if found != 39 {
		t.Errorf("expected sync ending at bit 39, got %d", found)
	}
}

func TestIndexOffsetAndTrackLength(t *testing.T) {

	data := make([]byte, 100)
	s := bytesStream(t, data, []int{16, 416})

	if s.Pos() != 16 {
		t.Fatalf("expected stream positioned at first index, got %d", s.Pos())
	}

	s.NextBits(21)
	if off := s.IndexOffset(); off != 20 {
		t.Errorf("expected index offset 20, got %d", off)
	}
	if l := s.TrackLengthBits(); l != 400 {
		t.Errorf("expected track length 400, got %d", l)
	}

	if err := s.NextIndex(); err != nil {
		t.Fatalf("NextIndex failed: %v", err)
	}
	s.NextBit()
	if off := s.IndexOffset(); off != 0 {
		t.Errorf("expected index offset 0 after index, got %d", off)
	}
	// last revolution runs to end of capture
	if l := s.TrackLengthBits(); l != 800-416 {
		t.Errorf("expected track length %d, got %d", 800-416, l)
	}

	if err := s.NextIndex(); !errors.Is(err, ErrEndOfStream) {
		t.Errorf("expected end of stream when no further index, got %v", err)
	}
}

func TestRewindToIndexReplays(t *testing.T) {

	s := bytesStream(t, []byte{0xff, 0x12, 0x34, 0x56}, []int{8})

	first, _ := s.NextBits(16)
	s.StartChecksum()
	s.NextBits(16)

	s.RewindToIndex()
	if s.Word() != 0 || s.Checksum() != 0xffff {
		t.Errorf("expected cleared state after rewind")
	}
	second, _ := s.NextBits(16)
	if first != second || first != 0x1234 {
		t.Errorf("expected replay of 1234, got %04x and %04x", first, second)
	}
}

func TestRevolutionWindow(t *testing.T) {

	s := bytesStream(t, make([]byte, 30), []int{0, 80, 160})
	s.SetRevolutions(1)
	s.RewindToIndex()

	n := 0
	for {
		if _, err := s.NextBit(); err != nil {
			break
		}
		n++
	}
	if n != 80 {
		t.Errorf("expected 80 bits in one revolution, got %d", n)
	}
}

func TestStreamFromTrack(t *testing.T) {

	tr, _ := mfm.NewTrack(200, 50)
	tr.Bits(mfm.Raw, 32, 0x44894489)
	tr.Finish()

	s, err := NewStreamFromTrack(tr, 2)
	if err != nil {
		t.Fatalf("NewStreamFromTrack failed: %v", err)
	}
	if s.Len() != 400 || len(s.IndexPulses()) != 2 {
		t.Fatalf("unexpected stream layout: %d bits, %d pulses",
			s.Len(), len(s.IndexPulses()))
	}

	hits := 0
	for {
		if _, err := s.NextBit(); err != nil {
			break
		}
		if s.Word() == 0x44894489 {
			hits++
			if off := s.IndexOffset() - 31; off != 50 {
				t.Errorf("expected sync at offset 50, got %d", off)
			}
		}
	}
	if hits != 2 {
		t.Errorf("expected sync once per revolution, got %d", hits)
	}
}

func TestNewStreamRejectsBadLength(t *testing.T) {
	if _, err := NewStream(make([]byte, 1), 9, nil); err == nil {
		t.Error("expected error for bit count exceeding buffer")
	}
}
