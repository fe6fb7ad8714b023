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
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"

	log "github.com/sirupsen/logrus"
)

/*
	NewArchiveSource creates a source from a capture delivered as a single
	stream. With compressor zip or 7z, the archive may hold any number of
	KryoFlux track files. With gzip or no compressor, r is a single track file,
	and name is used to determine its track number.
*/
func NewArchiveSource(r io.ReadCloser, name, compressor string,
	opts Options) (*ArchiveSource, error) {

	log.WithFields(log.Fields{
		"name": name, "compressor": compressor}).Debug("capture archive requested")

	defer r.Close()

	ret := &ArchiveSource{
		opts:       opts,
		name:       name,
		compressor: compressor,
		tracks:     make(map[int][]byte),
	}

	var err error

	switch compressor {

	case "gzip":
		fallthrough
	case "gz":
		err = ret.readGZip(r)

	case "zip":
		err = ret.readZip(r, false)

	case "7z":
		err = ret.readZip(r, true)

	case "":
		err = ret.readSingle(r, name)

	default:
		err = fmt.Errorf("unsupported compressor: %s", compressor)
	}

	if err != nil {
		return nil, err
	}

	if len(ret.tracks) == 0 {
		return nil, fmt.Errorf("no KryoFlux stream files in capture %s", name)
	}

	log.WithFields(log.Fields{
		"name":       ret.name,
		"compressor": ret.compressor,
		"tracks":     len(ret.tracks)}).Debug("capture archive opened")

	return ret, nil
}

// ArchiveSource holds the still encoded track files of a capture in memory.
// Streams are decoded on demand.
type ArchiveSource struct {
	opts       Options
	name       string
	compressor string
	tracks     map[int][]byte
}

//
func (a *ArchiveSource) Name() string {
	return a.name
}

//
func (a *ArchiveSource) Compressor() string {
	return a.compressor
}

//
func (a *ArchiveSource) Track(nr int) (*Stream, error) {
	data, ok := a.tracks[nr]
	if !ok {
		return nil, ErrNoTrack
	}
	return readStream(bytes.NewReader(data), a.opts)
}

//
func (a *ArchiveSource) Tracks() []int {
	return sortedKeys(a.tracks)
}

//
func (a *ArchiveSource) Close() error {
	a.tracks = nil
	return nil
}

//
func (a *ArchiveSource) add(name string, r io.Reader) error {

	nr, ok := TrackFromKryoFluxName(name)
	if !ok {
		log.WithField("entry", name).Debug("skipping non-stream entry")
		return nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("error reading %s: %v", name, err)
	}

	if _, dup := a.tracks[nr]; dup {
		log.WithFields(log.Fields{
			"entry": name, "track": nr}).Warn("duplicate track in capture, using last")
	}
	a.tracks[nr] = data
	return nil
}

//
func (a *ArchiveSource) readSingle(r io.Reader, name string) error {
	return a.add(name, r)
}

//
func (a *ArchiveSource) readGZip(r io.Reader) error {

	gzr, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gzr.Close()

	name := gzr.Name
	if name == "" {
		name = strings.TrimSuffix(a.name, filepath.Ext(a.name))
	}
	return a.add(name, gzr)
}

//
func (a *ArchiveSource) readZip(r io.Reader, zip7 bool) error {

	var sponge bytes.Buffer
	size, err := io.Copy(&sponge, r)
	if err != nil {
		return err
	}

	if zip7 {
		zr, err := sevenzip.NewReader(bytes.NewReader(sponge.Bytes()), size)
		if err != nil {
			return err
		}
		for _, f := range zr.File {
			if f.FileInfo().IsDir() {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return err
			}
			err = a.add(f.Name, rc)
			rc.Close()
			if err != nil {
				return err
			}
		}

	} else {
		zr, err := zip.NewReader(bytes.NewReader(sponge.Bytes()), size)
		if err != nil {
			return err
		}
		for _, f := range zr.File {
			if f.FileInfo().IsDir() {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return err
			}
			err = a.add(f.Name, rc)
			rc.Close()
			if err != nil {
				return err
			}
		}
	}

	return nil
}

//
func SplitNameTypeCompressor(file string) (name, typ, compressor string) {

	_, n := filepath.Split(file)

	for {
		ext := filepath.Ext(n)
		if ext == "" {
			name = n
			break
		}

		lower := strings.ToLower(strings.TrimPrefix(ext, "."))

		switch lower {

		case "raw":
			typ = lower

		case "gz":
			fallthrough
		case "gzip":
			fallthrough
		case "zip":
			fallthrough
		case "7z":
			compressor = lower

		default:
			// part of the name, e.g. the head in track00.0.raw
			name = n
			return name, typ, compressor
		}

		n = strings.TrimSuffix(n, ext)
	}

	return name, typ, compressor
}
