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
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
)

//
func NewReport(name string) *Report {
	return &Report{Name: name, Created: time.Now().UTC()}
}

// Report summarizes the outcome of resolving a disk.
type Report struct {
	Name    string        `yaml:"name" json:"name"`
	Created time.Time     `yaml:"created" json:"created"`
	Tracks  []TrackReport `yaml:"tracks" json:"tracks"`
	Runs    []Run         `yaml:"runs" json:"runs"`
	// tracks no candidate, nor the unformatted check, could claim
	Unidentified int `yaml:"unidentified" json:"unidentified"`
	// tracks with missing sectors
	Damaged int `yaml:"damaged" json:"damaged"`
	//
	Warnings int `yaml:"warnings" json:"warnings"`
	// tracks that did not survive synthesis and re-parsing, if verified
	VerifyFailed []int `yaml:"verifyFailed,omitempty" json:"verifyFailed,omitempty"`
}

//
type TrackReport struct {
	Nr         int                    `yaml:"nr" json:"nr"`
	Format     string                 `yaml:"format" json:"format"`
	State      string                 `yaml:"state" json:"state"`
	Sectors    int                    `yaml:"sectors" json:"sectors"`
	Valid      int                    `yaml:"valid" json:"valid"`
	Missing    []int                  `yaml:"missing,omitempty" json:"missing,omitempty"`
	TotalBits  int                    `yaml:"totalBits" json:"totalBits"`
	DataBitOff int                    `yaml:"dataBitOff" json:"dataBitOff"`
	Notes      map[string]interface{} `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// Run is a range of consecutive tracks in the same format
type Run struct {
	From   int    `yaml:"from" json:"from"`
	To     int    `yaml:"to" json:"to"`
	Format string `yaml:"format" json:"format"`
}

//
func (r Run) String() string {
	if r.From == r.To {
		return fmt.Sprintf("T%d: %s", r.To, r.Format)
	}
	return fmt.Sprintf("T%d-%d: %s", r.From, r.To, r.Format)
}

// Fill collects the track details of disk d into this report.
func (r *Report) Fill(d *Disk, unidentified int) {

	r.Tracks = make([]TrackReport, 0, d.TrackCount())
	r.Runs = nil
	r.Unidentified = unidentified
	r.Damaged = 0

	for nr := 0; nr < d.TrackCount(); nr++ {

		t := d.Track(nr)
		tr := TrackReport{
			Nr:         nr,
			Format:     formatName(t.Format()),
			State:      t.State().String(),
			Sectors:    t.Geometry().Sectors,
			Valid:      t.ValidCount(),
			Missing:    t.Missing(),
			TotalBits:  t.TotalBits(),
			DataBitOff: t.DataBitOff(),
			Notes:      t.Notes().Map(),
		}
		r.Tracks = append(r.Tracks, tr)

		if len(tr.Missing) > 0 {
			r.Damaged++
		}

		if l := len(r.Runs); l > 0 && r.Runs[l-1].Format == tr.Format {
			r.Runs[l-1].To = nr
		} else {
			r.Runs = append(r.Runs, Run{From: nr, To: nr, Format: tr.Format})
		}
	}

	r.Warnings = r.Unidentified + r.Damaged
}

// Warning returns the warning about damaged or unidentified tracks, or an
// empty string if there are none
func (r *Report) Warning() string {
	if r.Warnings == 0 {
		return ""
	}
	return fmt.Sprintf("** WARNING: %d tracks are damaged or unidentified!",
		r.Warnings)
}

// Formats returns the names of all formats found on the disk, in order of
// first appearance
func (r *Report) Formats() []string {
	var ret []string
	seen := map[string]bool{}
	for _, run := range r.Runs {
		if !seen[run.Format] {
			seen[run.Format] = true
			ret = append(ret, run.Format)
		}
	}
	return ret
}

/*
	WriteText writes the report as text. Tracks with missing sectors are
	always listed. Unless quiet is set, the format of all tracks follows,
	compressed into runs of tracks with the same format. The warning is not
	included.
*/
func (r *Report) WriteText(w io.Writer, quiet bool) error {

	var sb strings.Builder

	for _, t := range r.Tracks {
		if len(t.Missing) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("T%d: sectors ", t.Nr))
		for _, m := range t.Missing {
			sb.WriteString(fmt.Sprintf("%d,", m))
		}
		sb.WriteString(" missing\n")
	}

	if len(r.VerifyFailed) > 0 {
		sb.WriteString("verification failed for tracks")
		for _, nr := range r.VerifyFailed {
			sb.WriteString(fmt.Sprintf(" T%d", nr))
		}
		sb.WriteString("\n")
	}

	if !quiet {
		for _, run := range r.Runs {
			sb.WriteString(run.String())
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Encode writes the report in the given format, text, yaml, or json.
func (r *Report) Encode(w io.Writer, format string) error {

	switch format {

	case "", "text":
		return r.WriteText(w, false)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()

	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	return fmt.Errorf("unsupported report format: %s", format)
}

// DecodeReport reads a report previously written in yaml or json format.
func DecodeReport(rd io.Reader) (*Report, error) {

	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}

	ret := &Report{}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		err = json.Unmarshal(data, ret)
	} else {
		err = yaml.Unmarshal(data, ret)
	}

	if err != nil {
		return nil, err
	}
	return ret, nil
}

//
func formatName(f base.Format) string {
	if f == "" {
		return "none"
	}
	return string(f)
}
