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
package format

import (
	"fmt"
	"sort"

	"github.com/xelalexv/fluxdisk/pkg/disk/base"
	"github.com/xelalexv/fluxdisk/pkg/disk/format/amiga"
)

var handlers = map[base.Format]func() base.Handler{
	amiga.AmigaDOS:  func() base.Handler { return amiga.NewAmigaDOS() },
	amiga.BumpNBurn: func() base.Handler { return amiga.NewBumpNBurn() },
	base.NoFormat:   func() base.Handler { return NewUnformatted() },
}

// NewHandler creates the handler for format tag f.
func NewHandler(f base.Format) (base.Handler, error) {
	if h, ok := handlers[f]; ok {
		return h(), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", f)
}

// IsKnown determines whether there is a handler for format tag f
func IsKnown(f base.Format) bool {
	_, ok := handlers[f]
	return ok
}

// All returns the tags of all supported formats, sorted
func All() []base.Format {
	ret := make([]base.Format, 0, len(handlers))
	for f := range handlers {
		ret = append(ret, f)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}
