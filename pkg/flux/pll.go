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
	"fmt"

	log "github.com/sirupsen/logrus"
)

// nominal bit cell period for double density media, in nanoseconds
const PeriodDD = 2000

//
type Index struct {
	// number of the flux interval during which the index pulse occurred
	Flux int
	// sample clock ticks into that interval at which the pulse occurred
	Ticks uint32
}

// Capture holds the flux transitions of one track, as recorded by capture
// hardware. Each flux value is the interval between two transitions, in
// sample clock ticks.
type Capture struct {
	SampleClock float64
	Flux        []uint32
	Index       []Index
}

//
func (c *Capture) Validate() error {
	if c.SampleClock <= 0 {
		return fmt.Errorf("invalid sample clock: %f", c.SampleClock)
	}
	for _, ix := range c.Index {
		if ix.Flux < 0 || ix.Flux > len(c.Flux) {
			return fmt.Errorf("index pulse at invalid flux position %d", ix.Flux)
		}
	}
	return nil
}

// PLL recovers bit cells from flux timing.
type PLL struct {
	// nominal bit cell period in nanoseconds
	Period float64
	// percentage of phase error used for adjusting the period
	Adjust float64
	// maximum deviation from the nominal period, in percent
	Clamp float64
	// don't snap the timing window to every flux transition, like a real
	// floppy disk controller
	Authentic bool
}

//
func DefaultPLL() PLL {
	return PLL{Period: PeriodDD, Adjust: 10, Clamp: 10}
}

// Decode converts the flux transitions of capture c into a bit cell stream.
func (p PLL) Decode(c *Capture) (*Stream, error) {

	if err := c.Validate(); err != nil {
		return nil, err
	}
	if p.Period <= 0 {
		return nil, fmt.Errorf("invalid PLL period: %f", p.Period)
	}

	nsPerTick := 1e9 / c.SampleClock
	centre := p.Period
	lo := centre * (100 - p.Clamp) / 100
	hi := centre * (100 + p.Clamp) / 100
	clock := centre

	out := &bitWriter{}
	var index []int
	nextIndex := 0

	var phase float64

	for fx, f := range c.Flux {

		for nextIndex < len(c.Index) && c.Index[nextIndex].Flux == fx {
			at := phase + float64(c.Index[nextIndex].Ticks)*nsPerTick
			index = append(index, out.n+int(at/clock+0.5))
			nextIndex++
		}

		phase += float64(f) * nsPerTick
		if phase < clock/2 {
			// too short to be a cell of its own, merge with next interval
			continue
		}

		zeros := 0
		for {
			phase -= clock
			if phase < clock/2 {
				break
			}
			out.put(0)
			zeros++
		}
		out.put(1)

		if zeros >= 1 && zeros <= 3 {
			// in sync, adjust period by a fraction of the phase error
			clock += phase / float64(zeros+1) * p.Adjust / 100
		} else {
			// out of sync, pull period back towards the centre
			clock += (centre - clock) * p.Adjust / 100
		}

		if clock < lo {
			clock = lo
		} else if clock > hi {
			clock = hi
		}

		if p.Authentic {
			phase /= 2
		} else {
			phase = 0
		}
	}

	for ; nextIndex < len(c.Index); nextIndex++ {
		if c.Index[nextIndex].Flux == len(c.Flux) {
			index = append(index, out.n)
		}
	}

	log.WithFields(log.Fields{
		"flux":  len(c.Flux),
		"bits":  out.n,
		"index": len(index),
	}).Trace("decoded flux capture")

	return NewStream(out.data, out.n, index)
}

/*
	EncodeFlux is the inverse of Decode: it turns the n bit cells in bits into
	flux intervals, assuming a perfectly stable cell period given in
	nanoseconds. Index pulses are given as bit positions. Bit cells after the
	last 1 produce no transition and are lost.
*/
func EncodeFlux(bits []byte, n int, index []int, period,
	sampleClock float64) (*Capture, error) {

	if period <= 0 || sampleClock <= 0 {
		return nil, fmt.Errorf(
			"invalid period %f or sample clock %f", period, sampleClock)
	}
	if n > len(bits)*8 {
		return nil, fmt.Errorf("invalid bit count %d", n)
	}

	ticksPerCell := period * sampleClock / 1e9
	c := &Capture{SampleClock: sampleClock}

	start := 0
	nextIndex := 0
	var carry float64

	for pos := 0; pos < n; pos++ {

		for nextIndex < len(index) && index[nextIndex] == pos {
			c.Index = append(c.Index, Index{
				Flux:  len(c.Flux),
				Ticks: uint32(float64(pos-start)*ticksPerCell + 0.5),
			})
			nextIndex++
		}

		if (bits[pos>>3]>>(7-uint(pos&7)))&1 == 0 {
			continue
		}

		exact := float64(pos+1-start)*ticksPerCell + carry
		ticks := uint32(exact + 0.5)
		carry = exact - float64(ticks)
		c.Flux = append(c.Flux, ticks)
		start = pos + 1
	}

	return c, nil
}

//
type bitWriter struct {
	data []byte
	n    int
}

//
func (w *bitWriter) put(b uint8) {
	if w.n&7 == 0 {
		w.data = append(w.data, 0)
	}
	if b != 0 {
		w.data[w.n>>3] |= 0x80 >> uint(w.n&7)
	}
	w.n++
}
