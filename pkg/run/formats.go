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

package run

import (
	"io"
	"os"

	"github.com/xelalexv/fluxdisk/pkg/config"
)

//
func NewFormats() *Formats {

	f := &Formats{}
	f.Runner = *NewRunner(
		"formats [-f|--formats {file}] [-s|--server] [-a|--address {address}]",
		"list track and disk formats",
		`
Use the formats command to list the supported track formats, and the disk
formats with their candidate track formats, either from the built-in or a
given formats configuration, or from a running API server.`,
		"", runnerHelpEpilogue, f.Run)

	f.AddBaseSettings()
	f.AddSetting(&f.File, "formats", "f", "", nil,
		"formats configuration file; built-in configuration if omitted", false)
	f.AddSetting(&f.Server, "server", "s", "", false,
		"list the formats of the API server", false)

	return f
}

//
type Formats struct {
	Runner
	//
	File   string
	Server bool
}

//
func (f *Formats) Run() error {

	if err := f.ParseSettings(); err != nil {
		return err
	}

	if f.Server {
		resp, err := f.apiCall("GET", "/formats", false, nil)
		if err != nil {
			return err
		}
		defer resp.Close()
		_, err = io.Copy(os.Stdout, resp)
		return err
	}

	formats, err := config.Load(f.File)
	if err != nil {
		return err
	}
	return formats.WriteText(os.Stdout)
}
