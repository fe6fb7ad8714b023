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
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/config"
	"github.com/xelalexv/fluxdisk/pkg/control"
	"github.com/xelalexv/fluxdisk/pkg/repo"
)

//
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		`serve [-a|--address {listen address}] [-f|--formats {file}]
      [-R|--reports {dir} [-I|--index {dir}]]`,
		"start the API server",
		`
Use the serve command to start the API server. It converts uploaded captures,
and lists the available formats. If a reports directory is given, the report
of each conversion is stored there, and all reports in that directory can be
searched.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Formats, "formats", "f", "", nil,
		"formats configuration file; built-in configuration if omitted", false)
	s.AddSetting(&s.Reports, "reports", "R", "", nil,
		"directory for storing and searching conversion reports", false)
	s.AddSetting(&s.Index, "index", "I", "", nil,
		"location of the report index; next to the reports directory if omitted", false)

	return s
}

//
type Serve struct {
	Runner
	//
	Formats string
	Reports string
	Index   string
}

//
func (s *Serve) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	formats, err := config.Load(s.Formats)
	if err != nil {
		return err
	}

	var index *repo.Index

	if s.Reports != "" {
		if err := os.MkdirAll(s.Reports, 0755); err != nil {
			return err
		}
		if index, err = repo.NewIndex(
			indexLocation(s.Index, s.Reports), s.Reports); err != nil {
			return err
		}
		defer index.Stop()
		if err := index.Start(); err != nil {
			return err
		}
	}

	api := control.NewAPIServer(s.Address, formats, index, s.Reports)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		if err := api.Stop(); err != nil {
			log.Errorf("error stopping API server: %v", err)
		}
	}()

	return api.Serve()
}
