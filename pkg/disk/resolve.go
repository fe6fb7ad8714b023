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
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
	"github.com/xelalexv/fluxdisk/pkg/disk/format"
	"github.com/xelalexv/fluxdisk/pkg/flux"
)

const (
	// tracks at or beyond are not expected to carry data
	unusedTracks = 160
	// data bit offset used when aligning tracks to the index
	alignedBitOff = 1024
)

//
type Options struct {
	// place the data of all tracks at the same offset from the index
	IndexAlign bool
}

//
func NewResolver(p *Plan, opts Options) *Resolver {
	return &Resolver{
		plan:        p,
		opts:        opts,
		unformatted: format.NewUnformatted(),
	}
}

/*
	Resolver determines the format of each track of a disk by trying the
	candidates the plan assigns to it, and collects the decoded tracks.
*/
type Resolver struct {
	plan        *Plan
	opts        Options
	unformatted base.Handler
}

/*
	Run resolves all tracks of the plan from source src. Cancelling ctx stops
	the run between tracks. The returned disk and report reflect all tracks
	resolved up to that point.
*/
func (r *Resolver) Run(ctx context.Context, name string,
	src flux.Source) (*Disk, *Report, error) {

	d := NewDisk(name, r.plan.Tracks())
	rep := NewReport(name)
	unidentified := 0

	log.WithFields(log.Fields{
		"name": name, "tracks": d.TrackCount()}).Info("resolving disk")

	for nr := 0; nr < d.TrackCount(); nr++ {

		if err := ctx.Err(); err != nil {
			log.WithField("track", nr).Warn("run cancelled")
			rep.Fill(d, unidentified)
			return d, rep, err
		}

		t := d.Track(nr)
		list := r.plan.For(nr)
		if list == nil {
			t.MarkUnformatted()
			continue
		}

		var state base.State

		s, err := src.Track(nr)
		if errors.Is(err, flux.ErrNoTrack) {
			log.WithField("track", nr).Debug("no capture for track")
			t.Notes().Set("capture", "missing")
			t.MarkUnformatted()
			state = base.Unformatted
		} else if err != nil {
			rep.Fill(d, unidentified)
			return d, rep, err
		} else {
			state = r.ResolveTrack(t, list, s)
		}

		if state == base.Unformatted {
			// tracks beyond the regular range are expected to be unused
			if nr < unusedTracks {
				unidentified++
				log.WithField("track", nr).Warn("track unidentified")
			}
		}
	}

	if r.opts.IndexAlign {
		for nr := 0; nr < d.TrackCount(); nr++ {
			d.Track(nr).SetDataBitOff(alignedBitOff)
		}
	}

	rep.Fill(d, unidentified)

	log.WithFields(log.Fields{
		"name":     name,
		"warnings": rep.Warnings,
	}).Info("disk resolved")

	return d, rep, nil
}

/*
	ResolveTrack tries the handlers of list on stream s, starting at the
	list's cursor, and commits the first successful parse into t. Each handler
	is tried at most once. If none succeeds, the track is checked for being
	unformatted. Returns the track's final state.
*/
func (r *Resolver) ResolveTrack(t *base.TrackInfo, list *CandidateList,
	s *flux.Stream) base.State {

	t.SetState(base.Trying)

	for tried := 0; tried < list.Len(); tried++ {

		h := list.Current()
		s.RewindToIndex()

		b, err := h.Parse(s, t.Nr())

		fields := log.Fields{"track": t.Nr(), "format": h.Format()}

		if err == nil {
			state := t.Commit(h, b)
			fields["state"] = state
			if state == base.Damaged {
				fields["missing"] = t.Missing()
				log.WithFields(fields).Warn("track damaged")
			} else {
				log.WithFields(fields).Debug("track resolved")
			}
			return state
		}

		if errors.Is(err, base.ErrStreamExhausted) {
			t.Abandon(h)
			log.WithFields(fields).Warn("stream exhausted, abandoning track")
			return base.Abandoned
		}

		if !errors.Is(err, base.ErrNoMatch) {
			log.WithFields(fields).Errorf("handler error: %v", err)
		} else {
			log.WithFields(fields).Trace("no match")
		}

		list.Advance()
	}

	s.RewindToIndex()
	if b, err := r.unformatted.Parse(s, t.Nr()); err == nil {
		log.WithField("track", t.Nr()).Debug("track unformatted")
		return t.Commit(r.unformatted, b)
	}

	t.MarkUnformatted()
	return base.Unformatted
}
