// LocationChanger Config
// Copyright (c) 2026 The LocationChanger Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LocationChanger Config.
//
// LocationChanger Config is free software: you can redistribute it and/or
// modify it under the terms of the GNU General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LocationChanger Config is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LocationChanger Config.  If not, see <http://www.gnu.org/licenses/>.

// Package mappings holds the location to SSID mapping type and the
// human-editable flat-file format it is stored in.
package mappings

import (
	"github.com/google/uuid"
)

// Mapping ties a network location name to a Wi-Fi SSID. Identity is the ID
// only, the same location/SSID pair may appear more than once.
type Mapping struct {
	ID       string `json:"id,omitempty" csv:"-" yaml:"-"`
	Location string `json:"location" csv:"location" yaml:"location" validate:"required,location"`
	SSID     string `json:"ssid" csv:"ssid" yaml:"ssid" validate:"required,notblank,singleline"`
}

// Pair is a mapping without its identity, used when comparing the flat file
// against the in-memory list.
type Pair struct {
	Location string
	SSID     string
}

// NewID returns a random mapping ID.
func NewID() string {
	return uuid.New().String()
}

// New creates a mapping with a fresh ID.
func New(location, ssid string) Mapping {
	return Mapping{
		ID:       NewID(),
		Location: location,
		SSID:     ssid,
	}
}

// Pairs strips the IDs from ms.
func Pairs(ms []Mapping) []Pair {
	pairs := make([]Pair, len(ms))
	for i, m := range ms {
		pairs[i] = Pair{Location: m.Location, SSID: m.SSID}
	}
	return pairs
}

// EqualPairs reports whether both lists hold the same location/SSID values
// in the same order, ignoring IDs.
func EqualPairs(a, b []Mapping) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Location != b[i].Location || a[i].SSID != b[i].SSID {
			return false
		}
	}
	return true
}

// Clone returns a copy of the list that shares no backing array with ms.
func Clone(ms []Mapping) []Mapping {
	if ms == nil {
		return nil
	}
	out := make([]Mapping, len(ms))
	copy(out, ms)
	return out
}

// Reassign gives every mapping a fresh ID in place. IDs are never carried
// over from a persisted source.
func Reassign(ms []Mapping) {
	for i := range ms {
		ms[i].ID = NewID()
	}
}
