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

package repo

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/flux"
)

/*
	OpenCapture opens the flux capture referenced by ref. A reference is either
	a directory holding KryoFlux stream files, a single stream file, an archive
	of stream files, or an http(s) URL pointing to a file or archive. The
	compressor is derived from the file extension unless given explicitly.
*/
func OpenCapture(ref, compressor string, opts flux.Options) (flux.Source, error) {

	if ref == "" {
		return nil, fmt.Errorf("no capture given")
	}

	var in io.ReadCloser
	var name string

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("invalid capture URL: %v", err)
		}
		name = path.Base(u.Path)
		if in, err = NewHTTPSource(ref); err != nil {
			return nil, err
		}

	} else {
		info, err := os.Stat(ref)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return flux.NewDirSource(ref, opts)
		}
		name = filepath.Base(ref)
		if in, err = NewFileSource(ref); err != nil {
			return nil, err
		}
	}

	if compressor == "" {
		_, _, compressor = flux.SplitNameTypeCompressor(name)
	}

	log.WithFields(log.Fields{
		"ref": ref, "compressor": compressor}).Debug("opening capture")

	return OpenCaptureReader(in, name, compressor, opts)
}

// OpenCaptureReader opens a capture delivered as a single stream, e.g. an
// upload. r is closed when done.
func OpenCaptureReader(r io.ReadCloser, name, compressor string,
	opts flux.Options) (flux.Source, error) {
	return flux.NewArchiveSource(r, name, compressor, opts)
}
