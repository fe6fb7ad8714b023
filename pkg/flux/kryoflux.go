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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// default KryoFlux sample clock, ((18432000 * 73) / 14) / 2 Hz
const KryoFluxSampleClock = 24027428.5714285

// KryoFlux stream block types
const (
	kfFlux2Max = 0x07
	kfNop1     = 0x08
	kfNop2     = 0x09
	kfNop3     = 0x0a
	kfOvl16    = 0x0b
	kfFlux3    = 0x0c
	kfOOB      = 0x0d
)

// KryoFlux out-of-band block types
const (
	kfOOBInvalid    = 0x00
	kfOOBStreamInfo = 0x01
	kfOOBIndex      = 0x02
	kfOOBStreamEnd  = 0x03
	kfOOBInfo       = 0x04
	kfOOBEOF        = 0x0d
)

var kfTrackName = regexp.MustCompile(`(?i)^(.*?)(\d+)\.(\d)\.raw$`)

/*
	TrackFromKryoFluxName determines the logical track number from a KryoFlux
	stream file name such as track05.1.raw, i.e. cylinder*2 + head.
*/
func TrackFromKryoFluxName(name string) (int, bool) {

	m := kfTrackName.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return -1, false
	}

	cyl, err := strconv.Atoi(m[2])
	if err != nil {
		return -1, false
	}
	head, err := strconv.Atoi(m[3])
	if err != nil || head > 1 {
		return -1, false
	}

	return cyl*2 + head, true
}

// ReadKryoFlux reads a KryoFlux stream file into a capture.
func ReadKryoFlux(r io.Reader) (*Capture, error) {

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	c := &Capture{SampleClock: KryoFluxSampleClock}

	type pendingIndex struct {
		streamPos uint32
		ticks     uint32
	}
	var pending []pendingIndex
	var fluxPos []uint32 // stream position at which each flux value starts

	var streamPos uint32
	var overflow uint32

	for ix := 0; ix < len(data); {

		b := data[ix]

		if b == kfOOB {
			if ix+4 > len(data) {
				return nil, fmt.Errorf("truncated OOB block at %d", ix)
			}
			typ := data[ix+1]
			if typ == kfOOBEOF {
				break
			}
			size := int(binary.LittleEndian.Uint16(data[ix+2:]))
			body := ix + 4
			if body+size > len(data) {
				return nil, fmt.Errorf("truncated OOB block of type %d at %d", typ, ix)
			}
			payload := data[body : body+size]

			switch typ {

			case kfOOBIndex:
				if size < 12 {
					return nil, fmt.Errorf("short index block at %d", ix)
				}
				pending = append(pending, pendingIndex{
					streamPos: binary.LittleEndian.Uint32(payload),
					ticks:     binary.LittleEndian.Uint32(payload[4:]),
				})

			case kfOOBInfo:
				parseKryoFluxInfo(c, payload)

			case kfOOBStreamInfo, kfOOBStreamEnd:
				if size >= 4 {
					log.WithFields(log.Fields{
						"type":     typ,
						"position": binary.LittleEndian.Uint32(payload),
					}).Trace("KryoFlux stream block")
				}

			case kfOOBInvalid:
				return nil, fmt.Errorf("invalid OOB block at %d", ix)
			}

			ix = body + size
			continue
		}

		var val uint32
		var n int

		switch {
		case b <= kfFlux2Max:
			if ix+2 > len(data) {
				return nil, fmt.Errorf("truncated flux2 at %d", ix)
			}
			val, n = uint32(b)<<8|uint32(data[ix+1]), 2
		case b == kfNop1:
			n = 1
		case b == kfNop2:
			n = 2
		case b == kfNop3:
			n = 3
		case b == kfOvl16:
			overflow += 0x10000
			ix++
			streamPos++
			continue
		case b == kfFlux3:
			if ix+3 > len(data) {
				return nil, fmt.Errorf("truncated flux3 at %d", ix)
			}
			val, n = uint32(data[ix+1])<<8|uint32(data[ix+2]), 3
		default:
			val, n = uint32(b), 1
		}

		if b < kfNop1 || b > kfNop3 {
			c.Flux = append(c.Flux, val+overflow)
			fluxPos = append(fluxPos, streamPos)
			overflow = 0
		}

		ix += n
		streamPos += uint32(n)
	}

	// an index pulse belongs to the first flux starting at or after its
	// stream position
	fx := 0
	for _, p := range pending {
		for fx < len(fluxPos) && fluxPos[fx] < p.streamPos {
			fx++
		}
		c.Index = append(c.Index, Index{Flux: fx, Ticks: p.ticks})
	}

	log.WithFields(log.Fields{
		"flux":  len(c.Flux),
		"index": len(c.Index),
		"clock": c.SampleClock,
	}).Debug("read KryoFlux stream")

	return c, c.Validate()
}

// parseKryoFluxInfo picks up the sample clock from an info block such as
// "name=KryoFlux DiskSystem, version=3.00s, sck=24027428.5714285"
func parseKryoFluxInfo(c *Capture, payload []byte) {
	info := string(bytes.TrimRight(payload, "\x00"))
	for _, field := range strings.Split(info, ",") {
		kv := strings.SplitN(strings.TrimSpace(field), "=", 2)
		if len(kv) == 2 && kv[0] == "sck" {
			if sck, err := strconv.ParseFloat(kv[1], 64); err == nil && sck > 0 {
				c.SampleClock = sck
			}
		}
	}
}

// WriteKryoFlux writes capture c as a KryoFlux stream file.
func WriteKryoFlux(w io.Writer, c *Capture) error {

	if err := c.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	var streamPos uint32

	oob := func(typ byte, payload []byte) {
		buf.WriteByte(kfOOB)
		buf.WriteByte(typ)
		binary.Write(&buf, binary.LittleEndian, uint16(len(payload)))
		buf.Write(payload)
	}

	info := fmt.Sprintf("name=FluxDisk, sck=%f", c.SampleClock)
	oob(kfOOBInfo, append([]byte(info), 0))

	nextIndex := 0
	var indexCount uint32

	writeIndex := func(fx int) {
		for nextIndex < len(c.Index) && c.Index[nextIndex].Flux == fx {
			p := make([]byte, 12)
			binary.LittleEndian.PutUint32(p, streamPos)
			binary.LittleEndian.PutUint32(p[4:], c.Index[nextIndex].Ticks)
			binary.LittleEndian.PutUint32(p[8:], indexCount)
			oob(kfOOBIndex, p)
			indexCount++
			nextIndex++
		}
	}

	for fx, val := range c.Flux {

		writeIndex(fx)

		for val > 0xffff {
			buf.WriteByte(kfOvl16)
			streamPos++
			val -= 0x10000
		}

		switch {
		case val >= 0x0e && val <= 0xff:
			buf.WriteByte(byte(val))
			streamPos++
		case val < 0x800:
			buf.WriteByte(byte(val >> 8))
			buf.WriteByte(byte(val))
			streamPos += 2
		default:
			buf.WriteByte(kfFlux3)
			buf.WriteByte(byte(val >> 8))
			buf.WriteByte(byte(val))
			streamPos += 3
		}
	}

	writeIndex(len(c.Flux))

	end := make([]byte, 8)
	binary.LittleEndian.PutUint32(end, streamPos)
	oob(kfOOBStreamEnd, end)

	buf.Write([]byte{kfOOB, kfOOBEOF, kfOOBEOF, kfOOBEOF})

	_, err := w.Write(buf.Bytes())
	return err
}
