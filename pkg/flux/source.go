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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
)

// ErrNoTrack is returned by sources that hold no capture for a track
var ErrNoTrack = errors.New("no capture for track")

// Source provides the flux stream for each physical track of one disk.
type Source interface {
	// Track returns a fresh stream for track nr, or ErrNoTrack
	Track(nr int) (*Stream, error)
	// Tracks returns the numbers of all tracks this source holds, ascending
	Tracks() []int
	//
	Close() error
}

// Options control how captures are turned into streams
type Options struct {
	PLL PLL
	// revolutions to read per track, 0 for all
	Revolutions int
}

//
func DefaultOptions() Options {
	return Options{PLL: DefaultPLL()}
}

//
func (o Options) stream(c *Capture) (*Stream, error) {
	s, err := o.PLL.Decode(c)
	if err != nil {
		return nil, err
	}
	s.SetRevolutions(o.Revolutions)
	s.RewindToIndex()
	return s, nil
}

// NewMemSource creates an empty in-memory source
func NewMemSource() *MemSource {
	return &MemSource{streams: make(map[int]*Stream)}
}

// MemSource holds prepared streams in memory
type MemSource struct {
	streams map[int]*Stream
}

//
func (m *MemSource) Add(nr int, s *Stream) {
	m.streams[nr] = s
}

//
func (m *MemSource) Track(nr int) (*Stream, error) {
	if s, ok := m.streams[nr]; ok {
		s.RewindToIndex()
		return s, nil
	}
	return nil, ErrNoTrack
}

//
func (m *MemSource) Tracks() []int {
	return sortedKeys(m.streams)
}

//
func (m *MemSource) Close() error {
	return nil
}

/*
	NewDirSource creates a source for a directory holding KryoFlux stream
	files, one per track, named like track00.0.raw.
*/
func NewDirSource(dir string, opts Options) (*DirSource, error) {

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	ret := &DirSource{dir: dir, opts: opts, files: make(map[int]string)}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if nr, ok := TrackFromKryoFluxName(e.Name()); ok {
			ret.files[nr] = filepath.Join(dir, e.Name())
		}
	}

	if len(ret.files) == 0 {
		return nil, fmt.Errorf("no KryoFlux stream files in %s", dir)
	}

	log.WithFields(log.Fields{
		"dir": dir, "tracks": len(ret.files)}).Debug("capture directory opened")

	return ret, nil
}

//
type DirSource struct {
	dir   string
	opts  Options
	files map[int]string
}

//
func (d *DirSource) Track(nr int) (*Stream, error) {

	path, ok := d.files[nr]
	if !ok {
		return nil, ErrNoTrack
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readStream(f, d.opts)
}

//
func (d *DirSource) Tracks() []int {
	return sortedKeys(d.files)
}

//
func (d *DirSource) Close() error {
	return nil
}

//
func readStream(r io.Reader, opts Options) (*Stream, error) {
	c, err := ReadKryoFlux(r)
	if err != nil {
		return nil, err
	}
	return opts.stream(c)
}

//
func sortedKeys[V any](m map[int]V) []int {
	ret := make([]int, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Ints(ret)
	return ret
}
