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

package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xelalexv/fluxdisk/pkg/run"
)

//
func main() {

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	root := &cobra.Command{
		Use:   "fluxctl",
		Short: "FluxDisk - flux level floppy disk decoder",
		Long: `
fluxctl decodes flux level captures of floppy disks, such as KryoFlux stream
files, into sector data. The format of each track is determined by trying a
list of candidate track formats.`,
		SilenceErrors: true,
	}

	root.AddCommand(
		&run.NewParse().Command,
		&run.NewFormats().Command,
		&run.NewSearch().Command,
		&run.NewServe().Command,
		&run.NewWatch().Command,
		&run.NewVersion().Command,
	)

	if err := root.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
