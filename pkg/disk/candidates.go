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
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
)

//
func NewCandidateList(name string, handlers ...base.Handler) *CandidateList {
	return &CandidateList{name: name, handlers: handlers}
}

/*
	CandidateList is an ordered list of format handlers to try on a track,
	with a cursor pointing at the handler to try first. The cursor is shared by
	all tracks that use the list, so a run of tracks in the same format
	resolves at the first attempt, and the list only rotates when the format
	changes.
*/
type CandidateList struct {
	name     string
	handlers []base.Handler
	pos      int
}

//
func (c *CandidateList) Name() string {
	return c.name
}

//
func (c *CandidateList) Len() int {
	return len(c.handlers)
}

//
func (c *CandidateList) Pos() int {
	return c.pos
}

// Current returns the handler at the cursor
func (c *CandidateList) Current() base.Handler {
	if len(c.handlers) == 0 {
		return nil
	}
	return c.handlers[c.pos]
}

// Advance moves the cursor to the next handler, wrapping around at the end
func (c *CandidateList) Advance() {
	from := c.pos
	c.pos = c.ensureIx(c.pos + 1)
	log.WithFields(log.Fields{
		"list": c.name, "from": from, "to": c.pos}).Trace("moving candidate cursor")
}

//
func (c *CandidateList) Formats() []base.Format {
	ret := make([]base.Format, len(c.handlers))
	for ix, h := range c.handlers {
		ret[ix] = h.Format()
	}
	return ret
}

//
func (c *CandidateList) String() string {
	return fmt.Sprintf("%s%v", c.name, c.Formats())
}

//
func (c *CandidateList) ensureIx(ix int) int {
	if len(c.handlers) == 0 {
		return 0
	}
	if ix < 0 {
		return len(c.handlers) - 1 - (-(ix+1))%len(c.handlers)
	}
	return ix % len(c.handlers)
}

//
func NewPlan(tracks int) *Plan {
	return &Plan{lists: make([]*CandidateList, tracks)}
}

// Plan assigns a candidate list to each track of a disk.
type Plan struct {
	lists []*CandidateList
}

//
func (p *Plan) Tracks() int {
	return len(p.lists)
}

// Assign sets candidate list l for tracks from through to, inclusive. A
// track can only be assigned once.
func (p *Plan) Assign(from, to int, l *CandidateList) error {

	if from < 0 || to >= len(p.lists) || from > to {
		return fmt.Errorf("invalid track range %d-%d for %d tracks",
			from, to, len(p.lists))
	}
	if l == nil || l.Len() == 0 {
		return fmt.Errorf("empty candidate list for tracks %d-%d", from, to)
	}

	for ix := from; ix <= to; ix++ {
		if p.lists[ix] != nil {
			return fmt.Errorf("track %d assigned to both %s and %s",
				ix, p.lists[ix].Name(), l.Name())
		}
	}
	for ix := from; ix <= to; ix++ {
		p.lists[ix] = l
	}
	return nil
}

// For returns the candidate list for track nr, or nil if there is none
func (p *Plan) For(nr int) *CandidateList {
	if 0 <= nr && nr < len(p.lists) {
		return p.lists[nr]
	}
	return nil
}

// Unassigned returns the numbers of all tracks without candidate list
func (p *Plan) Unassigned() []int {
	var ret []int
	for ix, l := range p.lists {
		if l == nil {
			ret = append(ret, ix)
		}
	}
	return ret
}
