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
	"encoding/binary"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
	"github.com/xelalexv/fluxdisk/pkg/flux"
	"github.com/xelalexv/fluxdisk/pkg/mfm"
)

// nominal length of an Amiga double density track in bit cells
const NominalBits = 100150

const (
	AmigaDOS base.Format = "amigados"

	amigaDOSSync    = 0x44894489
	amigaDOSSectors = 11
	amigaDOSSecLen  = 512
	amigaDOSFormat  = 0xff

	// raw sector layout, in bytes
	rawPreamble  = 4
	rawSync      = 4
	rawInfo      = 8
	rawLabel     = 32
	rawChecksum  = 8
	rawData      = 2 * amigaDOSSecLen
	rawSectorLen = rawPreamble + rawSync + rawInfo + rawLabel + 2*rawChecksum +
		rawData

	// bits from start of sector to start of sync
	syncBitOff = 8 * rawPreamble
)

//
var sectorIndex = map[string][2]int{
	"info":     {0, rawInfo},
	"label":    {rawInfo, rawLabel},
	"header":   {0, rawInfo + rawLabel},
	"hdrsum":   {rawInfo + rawLabel, rawChecksum},
	"datasum":  {rawInfo + rawLabel + rawChecksum, rawChecksum},
	"data":     {rawInfo + rawLabel + 2*rawChecksum, rawData},
	"complete": {0, rawInfo + rawLabel + 2*rawChecksum + rawData},
}

// order of fields following the sync
var sectorFields = []string{"info", "label", "hdrsum", "datasum", "data"}

// NewAmigaDOS creates the handler for standard AmigaDOS tracks, eleven 512
// byte sectors, each with its own header and checksums.
func NewAmigaDOS() *AmigaDOSHandler {
	return &AmigaDOSHandler{}
}

//
type AmigaDOSHandler struct{}

//
func (a *AmigaDOSHandler) Format() base.Format {
	return AmigaDOS
}

//
func (a *AmigaDOSHandler) Geometry() base.Geometry {
	return base.Geometry{
		BytesPerSector: amigaDOSSecLen,
		Sectors:        amigaDOSSectors,
		Bits:           NominalBits,
	}
}

/*
	Parse collects sectors from all revolutions in the stream, until all
	sectors are valid or the stream ends. A track on which at least one sector
	header validates is considered AmigaDOS, so if the stream ends without any
	valid sector data after that, ErrStreamExhausted is returned. Sectors with
	bad data checksums are missing from the returned block.
*/
func (a *AmigaDOSHandler) Parse(s *flux.Stream, track int) (*base.Block, error) {

	b := base.NewBlock(a.Geometry())
	raw := make([]byte, sectorIndex["complete"][1])
	headers := 0
	first := true

	for int(b.Valid.Count()) < amigaDOSSectors {

		if _, err := s.NextBit(); err != nil {
			break
		}
		if s.Word() != amigaDOSSync {
			continue
		}

		off := s.IndexOffset() - 31

		if err := s.NextBytes(raw); err != nil {
			if errors.Is(err, flux.ErrEndOfStream) {
				break
			}
			return nil, err
		}

		sec, err := newSector(raw)
		if err != nil {
			log.WithFields(log.Fields{
				"track": track}).Tracef("skipping sector: %v", err)
			continue
		}

		if sec.Track() != track || sec.Index() >= amigaDOSSectors {
			log.WithFields(log.Fields{
				"track":  track,
				"header": sec.Track(),
				"sector": sec.Index(),
			}).Debug("sector header for other track or out of range")
			continue
		}
		headers++

		if err := sec.ValidateData(); err != nil {
			log.WithFields(log.Fields{
				"track": track, "sector": sec.Index()}).Debugf("%v", err)
			continue
		}

		if b.Valid.Test(uint(sec.Index())) {
			continue
		}

		copy(b.Data[sec.Index()*amigaDOSSecLen:], sec.Data())
		b.Valid.Set(uint(sec.Index()))

		if first {
			b.DataBitOff = normalize(
				off-syncBitOff-sec.Index()*8*rawSectorLen, b.TotalBits)
			first = false
		}
	}

	if b.Valid.Count() == 0 {
		if headers > 0 {
			return nil, base.ErrStreamExhausted
		}
		return nil, base.ErrNoMatch
	}

	log.WithFields(log.Fields{
		"track":  track,
		"valid":  b.Valid.Count(),
		"offset": b.DataBitOff,
	}).Trace("AmigaDOS track decoded")

	return b, nil
}

// Synthesize writes all eleven sectors. Sectors not marked valid in b are
// written with a corrupted data checksum.
func (a *AmigaDOSHandler) Synthesize(track int, b *base.Block) (*mfm.Track,
	error) {

	g := a.Geometry()
	if len(b.Data) != g.PayloadLen() {
		return nil, fmt.Errorf("invalid payload length for %s: %d",
			AmigaDOS, len(b.Data))
	}

	t, err := mfm.NewTrack(b.TotalBits, b.DataBitOff)
	if err != nil {
		return nil, err
	}

	for ix := 0; ix < amigaDOSSectors; ix++ {
		data := b.Data[ix*amigaDOSSecLen : (ix+1)*amigaDOSSecLen]
		sec := generateSector(track, ix, data)
		if b.Valid == nil || !b.Valid.Test(uint(ix)) {
			sec.corruptData()
		}
		// two zero bytes of gap, 0xaaaaaaaa on the medium
		t.Bits(mfm.MFM, 16, 0)
		t.Bits(mfm.Raw, 32, amigaDOSSync)
		for _, f := range sectorFields {
			t.Bytes(mfm.MFMEvenOdd, sec.decoded(f))
		}
	}

	t.Finish()
	return t, nil
}

// sector is the raw content of one AmigaDOS sector following the sync
type sector struct {
	raw  []byte
	info []byte
}

//
func newSector(raw []byte) (*sector, error) {

	s := &sector{raw: make([]byte, len(raw)), info: make([]byte, 4)}
	copy(s.raw, raw)
	mfm.Decode(mfm.MFMEvenOdd, s.info, s.field("info"))

	if s.info[0] != amigaDOSFormat {
		return nil, fmt.Errorf("unknown sector format: %02x", s.info[0])
	}
	if want, got := s.storedSum("hdrsum"), checksum(s.field("header")); want != got {
		return nil, fmt.Errorf(
			"invalid sector header checksum, want %08x, got %08x", want, got)
	}
	return s, nil
}

//
func generateSector(track, index int, data []byte) *sector {

	s := &sector{
		raw:  make([]byte, sectorIndex["complete"][1]),
		info: []byte{amigaDOSFormat, byte(track), byte(index),
			byte(amigaDOSSectors - index)},
	}

	s.encode("info", s.info)
	s.encode("label", make([]byte, 16))
	s.encode("data", data)
	s.fixChecksums()
	return s
}

//
func (s *sector) Track() int {
	return int(s.info[1])
}

//
func (s *sector) Index() int {
	return int(s.info[2])
}

//
func (s *sector) Data() []byte {
	return s.decoded("data")
}

//
func (s *sector) ValidateData() error {
	if want, got := s.storedSum("datasum"), checksum(s.field("data")); want != got {
		return fmt.Errorf(
			"invalid sector data checksum, want %08x, got %08x", want, got)
	}
	return nil
}

//
func (s *sector) fixChecksums() {
	sum := make([]byte, 4)
	binary.BigEndian.PutUint32(sum, checksum(s.field("header")))
	s.encode("hdrsum", sum)
	binary.BigEndian.PutUint32(sum, checksum(s.field("data")))
	s.encode("datasum", sum)
}

//
func (s *sector) corruptData() {
	sum := make([]byte, 4)
	binary.BigEndian.PutUint32(sum, ^checksum(s.field("data")))
	s.encode("datasum", sum)
}

//
func (s *sector) field(name string) []byte {
	ix := sectorIndex[name]
	return s.raw[ix[0] : ix[0]+ix[1]]
}

// encode writes data into the named field with even/odd encoding
func (s *sector) encode(name string, data []byte) {
	mfm.Encode(mfm.MFMEvenOdd, s.field(name), data)
}

//
func (s *sector) decoded(name string) []byte {
	f := s.field(name)
	ret := make([]byte, len(f)/2)
	mfm.Decode(mfm.MFMEvenOdd, ret, f)
	return ret
}

//
func (s *sector) storedSum(name string) uint32 {
	return binary.BigEndian.Uint32(s.decoded(name))
}

// checksum is the XOR over all longs of raw data, restricted to data cells
func checksum(raw []byte) uint32 {
	var ret uint32
	for ix := 0; ix+4 <= len(raw); ix += 4 {
		ret ^= binary.BigEndian.Uint32(raw[ix:])
	}
	return ret & 0x55555555
}
