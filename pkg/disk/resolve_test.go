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
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
	"github.com/xelalexv/fluxdisk/pkg/disk/format"
	"github.com/xelalexv/fluxdisk/pkg/disk/format/amiga"
	"github.com/xelalexv/fluxdisk/pkg/flux"
	"github.com/xelalexv/fluxdisk/pkg/mfm"
)

// fakeHandler claims the tracks listed in match, with all sectors valid
// unless listed in missing; tracks in exhaust end in stream exhaustion
type fakeHandler struct {
	format  base.Format
	match   map[int]bool
	missing map[int][]int
	exhaust map[int]bool
	calls   []int
}

func newFake(f base.Format, tracks ...int) *fakeHandler {
	ret := &fakeHandler{
		format:  f,
		match:   map[int]bool{},
		missing: map[int][]int{},
		exhaust: map[int]bool{},
	}
	for _, t := range tracks {
		ret.match[t] = true
	}
	return ret
}

func (f *fakeHandler) Format() base.Format {
	return f.format
}

func (f *fakeHandler) Geometry() base.Geometry {
	return base.Geometry{BytesPerSector: 16, Sectors: 6, Bits: 100150}
}

func (f *fakeHandler) Parse(s *flux.Stream, track int) (*base.Block, error) {
	f.calls = append(f.calls, track)
	if f.exhaust[track] {
		return nil, base.ErrStreamExhausted
	}
	if !f.match[track] {
		return nil, base.ErrNoMatch
	}
	b := base.NewBlock(f.Geometry())
	b.DataBitOff = 300 + track
	b.SetAllValid(6)
	for _, m := range f.missing[track] {
		b.Valid.Clear(uint(m))
	}
	return b, nil
}

func (f *fakeHandler) Synthesize(track int, b *base.Block) (*mfm.Track, error) {
	return nil, errors.New("not supported")
}

func mfmStream(t *testing.T) *flux.Stream {
	t.Helper()
	tr, _ := mfm.NewTrack(100150, 0)
	tr.Finish()
	s, err := flux.NewStreamFromTrack(tr, 2)
	if err != nil {
		t.Fatalf("NewStreamFromTrack failed: %v", err)
	}
	return s
}

func noiseStream(t *testing.T, track int) *flux.Stream {
	t.Helper()
	tr, _ := format.NewUnformatted().Synthesize(track, &base.Block{TotalBits: 100150})
	s, err := flux.NewStreamFromTrack(tr, 2)
	if err != nil {
		t.Fatalf("NewStreamFromTrack failed: %v", err)
	}
	return s
}

func source(t *testing.T, tracks int) *flux.MemSource {
	t.Helper()
	src := flux.NewMemSource()
	for nr := 0; nr < tracks; nr++ {
		src.Add(nr, mfmStream(t))
	}
	return src
}

func run(t *testing.T, p *Plan, src flux.Source, opts Options) (*Disk, *Report) {
	t.Helper()
	d, rep, err := NewResolver(p, opts).Run(context.Background(), "test", src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return d, rep
}

func TestCandidateRotation(t *testing.T) {

	a := newFake("a", 0, 1, 5)
	b := newFake("b", 2, 3, 4)
	list := NewCandidateList("ab", a, b)

	p := NewPlan(6)
	if err := p.Assign(0, 5, list); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	d, rep := run(t, p, source(t, 6), Options{})

	want := []base.Format{"a", "a", "b", "b", "b", "a"}
	for nr, f := range want {
		if got := d.Track(nr).Format(); got != f {
			t.Errorf("track %d: expected %s, got %s", nr, f, got)
		}
		if s := d.Track(nr).State(); s != base.Resolved {
			t.Errorf("track %d: expected resolved, got %s", nr, s)
		}
	}

	// b is only tried from track 2 on, a is skipped while b matches
	if calls := a.calls; len(calls) != 4 {
		t.Errorf("expected 4 attempts with a, got %v", calls)
	}
	if calls := b.calls; len(calls) != 4 {
		t.Errorf("expected 4 attempts with b, got %v", calls)
	}
	if list.Pos() != 0 {
		t.Errorf("expected cursor at a, got %d", list.Pos())
	}
	if rep.Warnings != 0 {
		t.Errorf("expected no warnings, got %d", rep.Warnings)
	}
}

func TestCandidateListSharedAcrossRanges(t *testing.T) {

	a := newFake("a", 0)
	b := newFake("b", 1, 10)
	list := NewCandidateList("ab", a, b)

	p := NewPlan(11)
	p.Assign(0, 1, list)
	p.Assign(10, 10, list)
	other := NewCandidateList("c", newFake("c"))
	p.Assign(2, 9, other)

	src := source(t, 11)
	for nr := 2; nr < 10; nr++ {
		src.Add(nr, noiseStream(t, nr))
	}

	d, _ := run(t, p, src, Options{})

	if d.Track(10).Format() != "b" {
		t.Errorf("expected b on track 10, got %s", d.Track(10).Format())
	}
	// cursor still at b from track 1, so a is not tried on track 10
	if len(a.calls) != 2 {
		t.Errorf("expected a to be tried on tracks 0 and 1 only, got %v", a.calls)
	}
}

func TestUnformattedFallback(t *testing.T) {

	a := newFake("a")
	p := NewPlan(162)
	p.Assign(0, 161, NewCandidateList("a", a))

	src := source(t, 162)
	src.Add(1, noiseStream(t, 1))
	src.Add(161, noiseStream(t, 161))

	d, rep := run(t, p, src, Options{})

	if s, f := d.Track(1).State(), d.Track(1).Format(); s != base.Resolved ||
		f != base.NoFormat {
		t.Errorf("expected noise track to resolve as unformatted, got %s %s", s, f)
	}

	for _, nr := range []int{0, 2, 160} {
		if s := d.Track(nr).State(); s != base.Unformatted {
			t.Errorf("track %d: expected unformatted state, got %s", nr, s)
		}
	}

	// every track tried exactly once against the single candidate
	if len(a.calls) != 162 {
		t.Errorf("expected 162 attempts, got %d", len(a.calls))
	}

	// 159 clean but unidentified tracks below 160, none beyond
	if rep.Unidentified != 159 {
		t.Errorf("expected 159 unidentified tracks, got %d", rep.Unidentified)
	}
}

func TestStreamExhaustedAbandonsTrack(t *testing.T) {

	a := newFake("a")
	a.exhaust[0] = true
	b := newFake("b", 0)

	p := NewPlan(1)
	p.Assign(0, 0, NewCandidateList("ab", a, b))

	d, rep := run(t, p, source(t, 1), Options{})

	tr := d.Track(0)
	if tr.State() != base.Abandoned || tr.ValidCount() != 0 {
		t.Errorf("expected abandoned track without valid sectors, got %s, %d",
			tr.State(), tr.ValidCount())
	}
	if len(b.calls) != 0 {
		t.Error("expected no further candidates after exhaustion")
	}
	if rep.Damaged != 1 || rep.Warnings != 1 {
		t.Errorf("expected one damaged track, got %d/%d", rep.Damaged, rep.Warnings)
	}
}

func TestPartialBitmapIsDamaged(t *testing.T) {

	a := newFake("a", 0, 1, 2)
	a.missing[1] = []int{1, 4}

	p := NewPlan(3)
	p.Assign(0, 2, NewCandidateList("a", a))

	d, rep := run(t, p, source(t, 3), Options{})

	if s := d.Track(1).State(); s != base.Damaged {
		t.Errorf("expected damaged, got %s", s)
	}
	if len(d.Track(1).Data()) != 6*16 {
		t.Errorf("expected full payload, got %d bytes", len(d.Track(1).Data()))
	}
	for nr := 0; nr < 3; nr++ {
		tr := d.Track(nr)
		if tr.State() == base.Resolved && tr.ValidCount() != 6 {
			t.Errorf("track %d resolved with incomplete bitmap", nr)
		}
	}

	var buf bytes.Buffer
	rep.WriteText(&buf, false)
	want := "T1: sectors 1,4, missing\nT0-2: a\n"
	if buf.String() != want {
		t.Errorf("expected report\n%s\ngot\n%s", want, buf.String())
	}
	if w := rep.Warning(); !strings.Contains(w, "1 tracks are damaged") {
		t.Errorf("unexpected warning: %s", w)
	}
}

func TestIndexAlign(t *testing.T) {

	a := newFake("a", 0, 1)
	p := NewPlan(2)
	p.Assign(0, 1, NewCandidateList("a", a))

	d, _ := run(t, p, source(t, 2), Options{})
	if off := d.Track(1).DataBitOff(); off != 301 {
		t.Errorf("expected offset from handler, got %d", off)
	}

	d, _ = run(t, p, source(t, 2), Options{IndexAlign: true})
	for nr := 0; nr < 2; nr++ {
		if off := d.Track(nr).DataBitOff(); off != 1024 {
			t.Errorf("track %d: expected aligned offset, got %d", nr, off)
		}
	}
}

func TestMissingCapture(t *testing.T) {

	a := newFake("a", 0, 1)
	p := NewPlan(2)
	p.Assign(0, 1, NewCandidateList("a", a))

	src := flux.NewMemSource()
	src.Add(0, mfmStream(t))

	d, rep := run(t, p, src, Options{})

	if d.Track(1).State() != base.Unformatted {
		t.Errorf("expected track without capture unformatted, got %s",
			d.Track(1).State())
	}
	if !d.Track(1).Notes().Has("capture") {
		t.Error("expected note about missing capture")
	}
	if rep.Unidentified != 1 {
		t.Errorf("expected one unidentified track, got %d", rep.Unidentified)
	}
}

func TestRunCancelled(t *testing.T) {

	p := NewPlan(2)
	p.Assign(0, 1, NewCandidateList("a", newFake("a", 0, 1)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, rep, err := NewResolver(p, Options{}).Run(ctx, "test", source(t, 2))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
	if rep == nil || len(rep.Tracks) != 2 {
		t.Error("expected report for cancelled run")
	}
}

func TestAmigaDOSDiskVerifies(t *testing.T) {

	h := amiga.NewAmigaDOS()
	src := flux.NewMemSource()

	for nr := 0; nr < 4; nr++ {
		b := base.NewBlock(h.Geometry())
		for ix := range b.Data {
			b.Data[ix] = byte(nr + ix)
		}
		b.SetAllValid(h.Geometry().Sectors)
		b.DataBitOff = 700 * nr
		tr, err := h.Synthesize(nr, b)
		if err != nil {
			t.Fatalf("Synthesize failed: %v", err)
		}
		s, _ := flux.NewStreamFromTrack(tr, 2)
		src.Add(nr, s)
	}

	p := NewPlan(4)
	p.Assign(0, 3, NewCandidateList("amiga",
		amiga.NewBumpNBurn(), amiga.NewAmigaDOS()))

	d, rep := run(t, p, src, Options{})

	if len(rep.Runs) != 1 || rep.Runs[0].String() != "T0-3: amigados" {
		t.Errorf("unexpected runs: %v", rep.Runs)
	}
	if bad := Verify(d); len(bad) != 0 {
		t.Errorf("verification failed for tracks %v", bad)
	}
}

// recordingHandler passes through to a real handler, noting parse outcomes
type recordingHandler struct {
	base.Handler
	errs []error
}

func (r *recordingHandler) Parse(s *flux.Stream, track int) (*base.Block, error) {
	b, err := r.Handler.Parse(s, track)
	r.errs = append(r.errs, err)
	return b, err
}

func TestMissingSyncFallsThroughToNextFormat(t *testing.T) {

	dos := amiga.NewAmigaDOS()
	b := base.NewBlock(dos.Geometry())
	for ix := range b.Data {
		b.Data[ix] = byte(ix * 7)
	}
	b.SetAllValid(dos.Geometry().Sectors)
	b.DataBitOff = 1200

	tr, err := dos.Synthesize(6, b)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	s, _ := flux.NewStreamFromTrack(tr, 2)

	bnb := &recordingHandler{Handler: amiga.NewBumpNBurn()}
	ados := &recordingHandler{Handler: dos}
	list := NewCandidateList("amiga", bnb, ados)

	ti := base.NewTrackInfo(6)
	state := NewResolver(NewPlan(160), Options{}).ResolveTrack(ti, list, s)

	if len(bnb.errs) != 1 || !errors.Is(bnb.errs[0], base.ErrNoMatch) {
		t.Fatalf("expected no match from %s, got %v",
			bnb.Format(), bnb.errs)
	}
	if len(ados.errs) != 1 || ados.errs[0] != nil {
		t.Fatalf("expected %s to decode the track, got %v",
			ados.Format(), ados.errs)
	}
	if state != base.Resolved || ti.Format() != amiga.AmigaDOS {
		t.Errorf("expected track resolved as %s, got %s/%s",
			amiga.AmigaDOS, ti.Format(), state)
	}
	if ti.ValidCount() != dos.Geometry().Sectors {
		t.Errorf("expected all sectors valid, got %d", ti.ValidCount())
	}
	if list.Current() != ados {
		t.Error("expected candidate cursor to stay on the successful format")
	}
}
