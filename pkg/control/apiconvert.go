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

package control

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/convert"
	"github.com/xelalexv/fluxdisk/pkg/disk"
	"github.com/xelalexv/fluxdisk/pkg/flux"
	"github.com/xelalexv/fluxdisk/pkg/repo"
)

/*
	convert decodes a capture uploaded in the request body. Only one
	conversion runs at a time, further requests are rejected while it's in
	progress.
*/
func (a *api) convert(w http.ResponseWriter, req *http.Request) {

	name := getArg(req, "name")
	if name == "" {
		name = "upload"
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		handleError(fmt.Errorf("invalid name: %s", name), http.StatusNotAcceptable, w)
		return
	}

	format := getArg(req, "format")
	if format == "" {
		format = "amigados"
	}

	encoding := getArg(req, "encoding")
	if wantsJSON(req) {
		encoding = "json"
	}

	revs, err := getIntArg(req, "revolutions", 0)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	if !a.acquire(name) {
		handleError(fmt.Errorf("busy converting %s", a.converting()),
			http.StatusLocked, w)
		return
	}
	defer a.release()

	opts := flux.DefaultOptions()
	opts.PLL.Authentic = isFlagSet(req, "authentic-pll")
	opts.Revolutions = revs

	in := http.MaxBytesReader(w, req.Body, maxUpload)
	src, err := repo.OpenCaptureReader(in, name, getArg(req, "compressor"), opts)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}
	defer src.Close()

	res, err := convert.Run(req.Context(), a.formats, src, name, convert.Settings{
		Format:     format,
		IndexAlign: isFlagSet(req, "index-align"),
		Verify:     isFlagSet(req, "verify"),
	})
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	if a.reports != "" {
		if err := a.storeReport(res.Report); err != nil {
			log.WithField("name", name).Errorf("cannot store report: %v", err)
		}
	}

	var buf bytes.Buffer
	if encoding == "" || encoding == "text" {
		err = res.Report.WriteText(&buf, isFlagSet(req, "quiet"))
		if warn := res.Report.Warning(); err == nil && warn != "" {
			buf.WriteString(warn + "\n")
		}
	} else {
		err = res.Report.Encode(&buf, encoding)
	}
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	if encoding == "json" {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
		return
	}
	sendReply(buf.Bytes(), http.StatusOK, w)
}

// storeReport writes report r into the reports directory, from where the
// search index picks it up
func (a *api) storeReport(r *disk.Report) error {

	file := filepath.Join(a.reports, r.Name+".yaml")
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := r.Encode(f, "yaml"); err != nil {
		f.Close()
		return err
	}

	log.WithField("file", file).Info("report stored")
	return f.Close()
}

//
func (a *api) status(w http.ResponseWriter, req *http.Request) {

	st := &Status{Converting: a.converting()}

	if wantsJSON(req) {
		sendJSONReply(st, http.StatusOK, w)
		return
	}

	var msg string
	if st.Converting == "" {
		msg = "idle"
	} else {
		msg = fmt.Sprintf("converting %s", st.Converting)
	}
	sendReply([]byte(msg), http.StatusOK, w)
}

//
type Status struct {
	Converting string `json:"converting"`
}
