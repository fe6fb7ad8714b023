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
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/xelalexv/fluxdisk/pkg/repo"
)

//
func NewSearch() *Search {

	s := &Search{}
	s.Runner = *NewRunner(
		`search -t|--term {search term} [-i|--items {max results}]
      [-a|--address {address}] [-R|--reports {dir} [-I|--index {dir}]]`,
		"search for conversion reports",
		`
Use the search command to find conversion reports, either in the repository of
a running API server, or in a local reports directory. The search term is a
query string, e.g. a disk name, or field queries such as formats:bump_n_burn or
warnings:>0.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Term, "term", "t", "", nil,
		"search term; used to search through the conversion reports", true)
	s.AddSetting(&s.Items, "items", "i", "", 100,
		"max number of search results to return", false)
	s.AddSetting(&s.Reports, "reports", "R", "", nil,
		"local reports directory to search instead of the server's", false)
	s.AddSetting(&s.Index, "index", "I", "", nil,
		"location of the index for the local reports directory; next to it if omitted", false)

	return s
}

//
type Search struct {
	Runner
	//
	Term    string
	Items   int
	Reports string
	Index   string
}

//
func (s *Search) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	if s.Reports != "" {
		return s.searchLocal()
	}

	resp, err := s.apiCall("GET",
		fmt.Sprintf("/search?items=%d&term=%s", s.Items, url.QueryEscape(s.Term)),
		false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	fmt.Println()
	if _, err := io.Copy(os.Stdout, resp); err != nil {
		return err
	}

	return nil
}

//
func (s *Search) searchLocal() error {

	ix, err := repo.NewIndex(indexLocation(s.Index, s.Reports), s.Reports)
	if err != nil {
		return err
	}
	defer ix.Stop()

	if err := ix.Start(); err != nil {
		return err
	}

	res, err := ix.Search(s.Term, s.Items)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("\n")
	for _, h := range res.Hits {
		sb.WriteString(fmt.Sprintf("%s\n", h))
	}
	sb.WriteString(fmt.Sprintf("\ntotal hits: %d\n", res.Total))
	fmt.Print(sb.String())

	return nil
}

// indexLocation returns index, or if empty, the default location of the
// index for reports directory reports
func indexLocation(index, reports string) string {
	if index != "" {
		return index
	}
	return filepath.Clean(reports) + ".index"
}
