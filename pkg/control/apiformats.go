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
	"net/http"

	"github.com/xelalexv/fluxdisk/pkg/disk/format"
)

//
type TrackFormat struct {
	Name           string `json:"name"`
	Sectors        int    `json:"sectors"`
	BytesPerSector int    `json:"bytesPerSector"`
	Bits           int    `json:"bits"`
}

//
type FormatList struct {
	TrackFormats []TrackFormat `json:"trackFormats"`
	DiskFormats  interface{}   `json:"diskFormats"`
}

//
func (a *api) listFormats(w http.ResponseWriter, req *http.Request) {

	if wantsJSON(req) {
		list := &FormatList{DiskFormats: a.formats}
		for _, f := range format.All() {
			h, err := format.NewHandler(f)
			if handleError(err, http.StatusInternalServerError, w) {
				return
			}
			g := h.Geometry()
			list.TrackFormats = append(list.TrackFormats, TrackFormat{
				Name:           string(f),
				Sectors:        g.Sectors,
				BytesPerSector: g.BytesPerSector,
				Bits:           g.Bits,
			})
		}
		sendJSONReply(list, http.StatusOK, w)
		return
	}

	var buf bytes.Buffer
	if handleError(a.formats.WriteText(&buf), http.StatusInternalServerError, w) {
		return
	}
	sendReply(buf.Bytes(), http.StatusOK, w)
}
