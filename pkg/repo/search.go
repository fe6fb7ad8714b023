/*
   FluxDisk - flux level floppy disk decoder
   Copyright (c) 2021, Alexander Vollschwitz

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
	"strings"

	"github.com/blevesearch/bleve/v2"
	log "github.com/sirupsen/logrus"
)

// Hit is a report matching a search
type Hit struct {
	Path     string   `json:"path"`
	Disk     string   `json:"disk"`
	Formats  []string `json:"formats"`
	Warnings int      `json:"warnings"`
}

//
func (h Hit) String() string {
	ret := fmt.Sprintf("%s: %s [%s]", h.Path, h.Disk, strings.Join(h.Formats, " "))
	if h.Warnings > 0 {
		ret += fmt.Sprintf(", %d warnings", h.Warnings)
	}
	return ret
}

//
type SearchResult struct {
	Hits     []Hit  `json:"hits"`
	Total    uint64 `json:"total"`
	Complete bool   `json:"complete"`
}

/*
	Search queries the index with a query string term, e.g. a disk name, or
	field queries such as formats:amigados or warnings:>0. At most max hits
	are returned.
*/
func (i *Index) Search(term string, max int) (*SearchResult, error) {

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("no search term")
	}
	if max < 1 {
		return nil, fmt.Errorf("invalid number of items: %d", max)
	}

	log.Debugf("searching for '%s'", term)
	query := bleve.NewQueryStringQuery(term)
	search := bleve.NewSearchRequestOptions(query, max+1, 0, false)
	search.Fields = []string{"disk", "formats", "warnings"}
	res, err := i.index.Search(search)
	if err != nil {
		return nil, err
	}

	ret := &SearchResult{
		Hits:     make([]Hit, len(res.Hits)),
		Total:    res.Total,
		Complete: true}

	for ix, h := range res.Hits {
		ret.Hits[ix] = Hit{
			Path:     h.ID,
			Disk:     fieldString(h.Fields["disk"]),
			Formats:  fieldStrings(h.Fields["formats"]),
			Warnings: fieldInt(h.Fields["warnings"]),
		}
	}

	if len(ret.Hits) > max {
		ret.Hits = ret.Hits[:max]
		ret.Complete = false
	}

	return ret, nil
}

//
func fieldString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// fieldStrings handles stored array fields, which come back as a plain value
// when they hold a single element
func fieldStrings(v interface{}) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []interface{}:
		ret := make([]string, 0, len(val))
		for _, e := range val {
			if s, ok := e.(string); ok {
				ret = append(ret, s)
			}
		}
		return ret
	}
	return nil
}

//
func fieldInt(v interface{}) int {
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return 0
}
