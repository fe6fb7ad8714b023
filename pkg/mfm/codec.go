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
	"fmt"
)

// Scheme selects how data bytes are laid out as bit cells on the medium.
type Scheme int

const (
	// Raw bit cells, no modulation
	Raw Scheme = iota
	// MFM, clock and data bits interleaved per byte
	MFM
	// MFM, all even data bits of a block first, then all odd data bits
	MFMEvenOdd
	// MFM, all odd data bits of a block first, then all even data bits
	MFMOddEven
)

//
func (s Scheme) String() string {
	switch s {
	case Raw:
		return "raw"
	case MFM:
		return "mfm"
	case MFMEvenOdd:
		return "mfm-even-odd"
	case MFMOddEven:
		return "mfm-odd-even"
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

// RawLen returns the number of raw bytes needed to hold n data bytes in
// scheme s.
func RawLen(s Scheme, n int) int {
	if s == Raw {
		return n
	}
	return 2 * n
}

// Decode decodes the raw bytes in src into the data bytes in dst. The length
// of src must be RawLen(s, len(dst)). Clock bits are ignored.
func Decode(s Scheme, dst, src []byte) {

	checkLen(s, dst, src)
	n := len(dst)

	switch s {

	case Raw:
		copy(dst, src)

	case MFM:
		for ix := range dst {
			dst[ix] = gather(src[2*ix])<<4 | gather(src[2*ix+1])
		}

	case MFMEvenOdd:
		even, odd := src[:n], src[n:]
		for ix := range dst {
			dst[ix] = (even[ix]&0x55)<<1 | odd[ix]&0x55
		}

	case MFMOddEven:
		odd, even := src[:n], src[n:]
		for ix := range dst {
			dst[ix] = (even[ix]&0x55)<<1 | odd[ix]&0x55
		}

	default:
		panic(fmt.Sprintf("mfm: unknown scheme %v", s))
	}
}

// Encode encodes the data bytes in src into raw bytes in dst, including clock
// bits. The data bit preceding the block is taken to be 0. The length of dst
// must be RawLen(s, len(src)).
func Encode(s Scheme, dst, src []byte) {
	checkLen(s, src, dst)
	spread(s, dst, src)
	if s != Raw {
		addClocks(dst, 0)
	}
}

// spread distributes the data bits of src onto the data cell positions of dst,
// in the order in which they appear on the medium. Clock cells stay 0.
func spread(s Scheme, dst, src []byte) {

	n := len(src)

	switch s {

	case Raw:
		copy(dst, src)

	case MFM:
		for ix, b := range src {
			dst[2*ix] = scatter(b >> 4)
			dst[2*ix+1] = scatter(b)
		}

	case MFMEvenOdd:
		for ix, b := range src {
			dst[ix] = (b >> 1) & 0x55
			dst[n+ix] = b & 0x55
		}

	case MFMOddEven:
		for ix, b := range src {
			dst[ix] = b & 0x55
			dst[n+ix] = (b >> 1) & 0x55
		}

	default:
		panic(fmt.Sprintf("mfm: unknown scheme %v", s))
	}
}

// addClocks sets the clock cell between two 0 data cells. prev is the data
// bit preceding raw. Returns the last data bit.
func addClocks(raw []byte, prev uint8) uint8 {
	for ix, b := range raw {
		b &= 0x55
		for pos := 6; pos >= 0; pos -= 2 {
			d := (b >> uint(pos)) & 1
			if prev == 0 && d == 0 {
				b |= 1 << uint(pos+1)
			}
			prev = d
		}
		raw[ix] = b
	}
	return prev
}

// gather collects the four data cells of a raw byte into a nibble
func gather(b byte) byte {
	return (b>>3)&8 | (b>>2)&4 | (b>>1)&2 | b&1
}

// scatter places the low nibble of b onto the four data cells of a raw byte
func scatter(b byte) byte {
	return (b&8)<<3 | (b&4)<<2 | (b&2)<<1 | b&1
}

//
func checkLen(s Scheme, data, raw []byte) {
	if want := RawLen(s, len(data)); len(raw) != want {
		panic(fmt.Sprintf(
			"mfm: %v buffer size mismatch, want %d raw bytes for %d data bytes, got %d",
			s, want, len(data), len(raw)))
	}
}
