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
package util

import (
	"fmt"
	"sort"
)

// Annotations hold free-form notes about an item, such as a track, that end
// up in reports
type Annotations map[string]*Annotation

//
func (a Annotations) Set(key string, value interface{}) {
	a[key] = NewAnnotation(key, value)
}

//
func (a Annotations) Get(key string) *Annotation {
	if ret, ok := a[key]; ok {
		return ret
	}
	return NewAnnotation(key, nil)
}

//
func (a Annotations) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Keys returns the keys of all annotations, sorted
func (a Annotations) Keys() []string {
	ret := make([]string, 0, len(a))
	for k := range a {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Map returns the annotation values as a plain map, for encoding
func (a Annotations) Map() map[string]interface{} {
	if len(a) == 0 {
		return nil
	}
	ret := make(map[string]interface{}, len(a))
	for k, v := range a {
		ret[k] = v.value
	}
	return ret
}

//
func NewAnnotation(key string, value interface{}) *Annotation {
	return &Annotation{key: key, value: value}
}

//
type Annotation struct {
	key   string
	value interface{}
}

//
func (a *Annotation) Key() string {
	return a.key
}

//
func (a *Annotation) IsSet() bool {
	return a.value != nil
}

//
func (a *Annotation) Bool() bool {
	if v, ok := a.value.(bool); ok {
		return v
	}
	return false
}

//
func (a *Annotation) Int() int {
	if v, ok := a.value.(int); ok {
		return v
	}
	return 0
}

// String returns the annotation value formatted as text
func (a *Annotation) String() string {
	switch v := a.value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
