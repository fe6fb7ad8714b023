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
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdisk/pkg/config"
	"github.com/xelalexv/fluxdisk/pkg/convert"
	"github.com/xelalexv/fluxdisk/pkg/flux"
	"github.com/xelalexv/fluxdisk/pkg/repo"
	"github.com/xelalexv/fluxdisk/pkg/util"
)

//
func NewWatch() *Watch {

	w := &Watch{}
	w.Runner = *NewRunner(
		`watch -w|--inbox {dir} -R|--reports {dir} [-t|--format {disk format}]
      [-f|--formats {file}] [-x|--index-align] [-v|--verify]
      [-b|--backoff {duration}]`,
		"convert captures dropped into an inbox directory",
		`
Use the watch command to convert captures as they arrive in an inbox directory.
Captures need to be archives (zip, 7z, gzip). Once no further changes have been
seen in the inbox for the backoff time, all new or changed captures get
converted, and their reports are written to the reports directory.`,
		"", runnerHelpEpilogue, w.Run)

	w.AddBaseSettings()
	w.AddSetting(&w.Inbox, "inbox", "w", "", nil, "inbox directory to watch", true)
	w.AddSetting(&w.Reports, "reports", "R", "", nil,
		"directory to write conversion reports to", true)
	w.AddSetting(&w.Format, "format", "t", "", "amigados", "disk format", false)
	w.AddSetting(&w.Formats, "formats", "f", "", nil,
		"formats configuration file; built-in configuration if omitted", false)
	w.AddSetting(&w.IndexAlign, "index-align", "x", "", false,
		"align the data of all tracks at the same offset from the index", false)
	w.AddSetting(&w.Verify, "verify", "v", "", false,
		"verify decoded tracks by synthesizing them", false)
	w.AddSetting(&w.Backoff, "backoff", "b", "", 5*time.Second,
		"quiet time in the inbox before converting", false)

	return w
}

//
type Watch struct {
	Runner
	//
	Inbox      string
	Reports    string
	Format     string
	Formats    string
	IndexAlign bool
	Verify     bool
	Backoff    time.Duration
	//
	formats *config.Formats
	pending map[string]bool
	ctx     context.Context
}

//
func (w *Watch) Run() error {

	if err := w.ParseSettings(); err != nil {
		return err
	}

	var err error
	if w.formats, err = config.Load(w.Formats); err != nil {
		return err
	}
	if _, err := w.formats.Plan(w.Format); err != nil {
		return err
	}

	if err := os.MkdirAll(w.Reports, 0755); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	w.ctx = ctx
	w.pending = make(map[string]bool)

	watcher, err := util.NewDirWatcher(w.Inbox, isCapture)
	if err != nil {
		return err
	}
	if err := watcher.Start(w.Backoff, w.watchEvent, w.flush); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"inbox": w.Inbox, "reports": w.Reports}).Info("watching inbox")

	<-ctx.Done()
	watcher.Stop()
	return nil
}

//
func (w *Watch) watchEvent(evt fsnotify.Event) error {
	if evt.Op&(fsnotify.Create|fsnotify.Write) != 0 {
		w.pending[evt.Name] = true
	} else if evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		delete(w.pending, evt.Name)
	}
	return nil
}

// flush converts all pending captures; called from the watcher's go routine
func (w *Watch) flush() error {
	for file := range w.pending {
		delete(w.pending, file)
		if err := w.process(w.ctx, file); err != nil {
			log.WithField("capture", file).Errorf("conversion failed: %v", err)
		}
	}
	return nil
}

// process converts capture file and writes its report
func (w *Watch) process(ctx context.Context, file string) error {

	src, err := repo.OpenCapture(file, "", flux.DefaultOptions())
	if err != nil {
		return err
	}
	defer src.Close()

	name, _, _ := flux.SplitNameTypeCompressor(file)
	res, err := convert.Run(ctx, w.formats, src, name, convert.Settings{
		Format:     w.Format,
		IndexAlign: w.IndexAlign,
		Verify:     w.Verify,
	})
	if err != nil {
		return err
	}

	out := filepath.Join(w.Reports, fmt.Sprintf("%s.yaml", name))
	if err := writeFile(out, func(f io.Writer) error {
		return res.Report.Encode(f, "yaml")
	}); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"capture": file, "report": out}).Info("capture converted")
	return nil
}

// isCapture determines whether file is a capture archive
func isCapture(file string) bool {
	_, _, compressor := flux.SplitNameTypeCompressor(file)
	return compressor != ""
}
