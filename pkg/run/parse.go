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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/xelalexv/fluxdisk/pkg/config"
	"github.com/xelalexv/fluxdisk/pkg/convert"
	"github.com/xelalexv/fluxdisk/pkg/disk"
	"github.com/xelalexv/fluxdisk/pkg/flux"
	"github.com/xelalexv/fluxdisk/pkg/repo"
)

//
func NewParse() *Parse {

	p := &Parse{}
	p.Runner = *NewRunner(
		`parse -i|--input {capture} [-t|--format {disk format}] [-f|--formats {file}]
      [-c|--compressor {compressor}] [-x|--index-align] [-p|--authentic-pll]
      [-r|--revolutions {count}] [-v|--verify] [-o|--output {report file}]
      [-e|--encoding {text|yaml|json}] [-q|--quiet] [-d|--dump {file}]
      [-E|--export {dir}] [-y|--yes]`,
		"decode a flux capture",
		`
Use the parse command to decode a flux capture of a disk. The capture is either
a directory of KryoFlux stream files, a single stream file, an archive (zip, 7z,
gzip) of stream files, or an http(s) URL of such a file or archive. The format
of each track is determined by trying the candidates that the disk format
lists for it.`,
		"", `- With --verify, every decoded track is synthesized again and re-parsed. Tracks
  where this round trip fails are reported.

- With --export, all tracks are synthesized from the decoded data and written
  as KryoFlux stream files into the given directory. This yields a clean
  capture of the disk.

`+runnerHelpEpilogue, p.Run)

	p.AddBaseSettings()
	p.AddSetting(&p.Input, "input", "i", "", nil, "capture to decode", true)
	p.AddSetting(&p.Format, "format", "t", "", "amigados", "disk format", false)
	p.AddSetting(&p.Formats, "formats", "f", "", nil,
		"formats configuration file; built-in configuration if omitted", false)
	p.AddSetting(&p.Compressor, "compressor", "c", "", nil,
		"compressor of the capture (zip, 7z, gzip); derived from file extension if omitted", false)
	p.AddSetting(&p.IndexAlign, "index-align", "x", "", false,
		"align the data of all tracks at the same offset from the index", false)
	p.AddSetting(&p.AuthenticPLL, "authentic-pll", "p", "", false,
		"use a PLL that behaves like a real floppy disk controller", false)
	p.AddSetting(&p.Revolutions, "revolutions", "r", "", 0,
		"revolutions to read per track, 0 for all", false)
	p.AddSetting(&p.Verify, "verify", "v", "", false,
		"verify decoded tracks by synthesizing them", false)
	p.AddSetting(&p.Output, "output", "o", "", nil,
		"file to write the report to; stdout if omitted", false)
	p.AddSetting(&p.Encoding, "encoding", "e", "", "text",
		"report encoding: text, yaml, json", false)
	p.AddSetting(&p.Quiet, "quiet", "q", "", false,
		"only list damaged tracks in text report", false)
	p.AddSetting(&p.Dump, "dump", "d", "", nil,
		"file to write a hex dump of the decoded disk to", false)
	p.AddSetting(&p.Export, "export", "E", "", nil,
		"directory to export synthesized KryoFlux stream files to", false)
	p.AddSetting(&p.Yes, "yes", "y", "", false,
		"skip confirmation when exporting into a non-empty directory", false)

	return p
}

//
type Parse struct {
	//
	Runner
	//
	Input        string
	Format       string
	Formats      string
	Compressor   string
	IndexAlign   bool
	AuthenticPLL bool
	Revolutions  int
	Verify       bool
	Output       string
	Encoding     string
	Quiet        bool
	Dump         string
	Export       string
	Yes          bool
}

//
func (p *Parse) Run() error {

	if err := p.ParseSettings(); err != nil {
		return err
	}

	formats, err := config.Load(p.Formats)
	if err != nil {
		return err
	}

	if p.Export != "" && !p.Yes && !isEmptyDir(p.Export) &&
		!GetUserConfirmation(fmt.Sprintf(
			"\nexport directory %s is not empty, files may get overwritten. Proceed?",
			p.Export)) {
		return nil
	}

	src, err := repo.OpenCapture(p.Input, p.Compressor, p.fluxOptions())
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	name, _, _ := flux.SplitNameTypeCompressor(p.Input)
	res, err := convert.Run(ctx, formats, src, name, convert.Settings{
		Format:     p.Format,
		IndexAlign: p.IndexAlign,
		Verify:     p.Verify,
	})
	if err != nil {
		return err
	}

	if err := p.writeReport(res.Report); err != nil {
		return err
	}

	if p.Dump != "" {
		if err := writeFile(p.Dump, func(w io.Writer) error {
			res.Disk.Emit(w)
			return nil
		}); err != nil {
			return err
		}
	}

	if p.Export != "" {
		n, err := disk.Export(res.Disk, p.Export, 2)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %d tracks to %s\n", n, p.Export)
	}

	if w := res.Report.Warning(); w != "" {
		fmt.Fprintln(os.Stderr, w)
	}

	return nil
}

//
func (p *Parse) fluxOptions() flux.Options {
	opts := flux.DefaultOptions()
	opts.PLL.Authentic = p.AuthenticPLL
	opts.Revolutions = p.Revolutions
	return opts
}

//
func (p *Parse) writeReport(rep *disk.Report) error {

	encode := func(w io.Writer) error {
		if p.Encoding == "text" || p.Encoding == "" {
			return rep.WriteText(w, p.Quiet)
		}
		return rep.Encode(w, p.Encoding)
	}

	if p.Output == "" {
		return encode(os.Stdout)
	}
	return writeFile(p.Output, encode)
}

//
func writeFile(file string, write func(w io.Writer) error) error {

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

//
func isEmptyDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err != nil || len(entries) == 0
}
