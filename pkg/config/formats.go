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
package config

import (
	"bytes"
	_ "embed" // default formats
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/xelalexv/fluxdisk/pkg/disk"
	"github.com/xelalexv/fluxdisk/pkg/disk/base"
	"github.com/xelalexv/fluxdisk/pkg/disk/format"
)

//go:embed formats.yaml
var defaultFormats []byte

// Entry assigns a list of candidate formats to a set of tracks
type Entry struct {
	// comma separated track numbers or ranges, e.g. 0-1,4
	Tracks     string   `mapstructure:"tracks" yaml:"tracks" json:"tracks"`
	Candidates []string `mapstructure:"candidates" yaml:"candidates" json:"candidates"`
}

// Formats is the formats configuration, holding the candidate entries for
// each disk format.
type Formats struct {
	Tracks  int                `mapstructure:"tracks" yaml:"tracks" json:"tracks"`
	Formats map[string][]Entry `mapstructure:"formats" yaml:"formats" json:"formats"`
}

/*
	Load reads the formats configuration from file. The file type is taken
	from its extension, and may be anything viper understands, e.g. yaml, json,
	or toml. An empty file name selects the built-in configuration. The
	configuration is validated before it's returned.
*/
func Load(file string) (*Formats, error) {

	v := viper.New()

	if file == "" {
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(defaultFormats)); err != nil {
			return nil, fmt.Errorf("error reading built-in formats: %v", err)
		}
	} else {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading formats from %s: %v", file, err)
		}
	}

	ret := &Formats{}
	if err := v.Unmarshal(ret); err != nil {
		return nil, fmt.Errorf("error parsing formats: %v", err)
	}

	if err := ret.Validate(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"file":    file,
		"formats": len(ret.Formats),
	}).Debug("formats loaded")

	return ret, nil
}

//
func (f *Formats) Names() []string {
	ret := make([]string, 0, len(f.Formats))
	for n := range f.Formats {
		ret = append(ret, n)
	}
	sort.Strings(ret)
	return ret
}

// Validate checks all disk formats of this configuration by building their
// plans.
func (f *Formats) Validate() error {

	if f.Tracks <= 0 {
		return fmt.Errorf("invalid track count: %d", f.Tracks)
	}
	if len(f.Formats) == 0 {
		return fmt.Errorf("no formats configured")
	}

	for _, n := range f.Names() {
		if _, err := f.Plan(n); err != nil {
			return err
		}
	}
	return nil
}

/*
	Plan creates the resolution plan for the named disk format. Every entry
	gets its own candidate list with fresh handlers, shared by all tracks the
	entry covers. All tracks need to be covered exactly once.
*/
func (f *Formats) Plan(name string) (*disk.Plan, error) {

	entries, ok := f.Formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown disk format: %s", name)
	}

	ret := disk.NewPlan(f.Tracks)

	for ix, e := range entries {

		if len(e.Candidates) == 0 {
			return nil, fmt.Errorf("%s: no candidates for tracks %s", name, e.Tracks)
		}

		var handlers []base.Handler
		for _, c := range e.Candidates {
			h, err := format.NewHandler(base.Format(c))
			if err != nil {
				return nil, fmt.Errorf("%s: %v", name, err)
			}
			handlers = append(handlers, h)
		}

		list := disk.NewCandidateList(
			fmt.Sprintf("%s/%d", name, ix), handlers...)

		ranges, err := ParseRanges(e.Tracks)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", name, err)
		}
		for _, r := range ranges {
			if err := ret.Assign(r[0], r[1], list); err != nil {
				return nil, fmt.Errorf("%s: %v", name, err)
			}
		}
	}

	if u := ret.Unassigned(); len(u) > 0 {
		return nil, fmt.Errorf("%s: no candidates for tracks %v", name, u)
	}

	return ret, nil
}

// ParseRanges parses a comma separated list of track numbers and ranges,
// such as 0-1,4,6-9, into inclusive from/to pairs.
func ParseRanges(s string) ([][2]int, error) {

	var ret [][2]int

	for _, part := range strings.Split(s, ",") {

		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty track range in '%s'", s)
		}

		bounds := strings.SplitN(part, "-", 2)
		from, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid track range '%s'", part)
		}
		to := from
		if len(bounds) == 2 {
			if to, err = strconv.Atoi(strings.TrimSpace(bounds[1])); err != nil {
				return nil, fmt.Errorf("invalid track range '%s'", part)
			}
		}
		if from < 0 || to < from {
			return nil, fmt.Errorf("invalid track range '%s'", part)
		}

		ret = append(ret, [2]int{from, to})
	}

	return ret, nil
}

/*
	WriteText lists all track formats with their geometry, followed by the
	disk formats of this configuration with their candidates.
*/
func (f *Formats) WriteText(w io.Writer) error {

	var sb strings.Builder

	sb.WriteString("track formats:\n")
	for _, tf := range format.All() {
		h, err := format.NewHandler(tf)
		if err != nil {
			return err
		}
		sb.WriteString(fmt.Sprintf("  %-14s %s\n", tf, h.Geometry()))
	}

	sb.WriteString(fmt.Sprintf("\ndisk formats, %d tracks:\n", f.Tracks))
	for _, n := range f.Names() {
		sb.WriteString(fmt.Sprintf("  %s\n", n))
		for _, e := range f.Formats[n] {
			sb.WriteString(fmt.Sprintf("    %s: %s\n",
				e.Tracks, strings.Join(e.Candidates, ", ")))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
