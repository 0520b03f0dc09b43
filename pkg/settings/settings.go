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

// Package settings holds the structured settings document and its JSON
// store.
package settings

import (
	"github.com/LocationChanger/locationchanger-config/pkg/mappings"
)

const (
	DefaultLogLevel         = "info"
	DefaultFallbackLocation = "Automatic"
)

// Settings is the full structured document. FallbackLocation should name a
// configured network location but any string is accepted.
type Settings struct {
	LogLevel            string             `json:"logLevel"`
	FallbackLocation    string             `json:"fallbackLocation"`
	Mappings            []mappings.Mapping `json:"ssidMappings"`
	EnableNotifications bool               `json:"enableNotifications"`
}

func Defaults() Settings {
	return Settings{
		Mappings:            []mappings.Mapping{},
		EnableNotifications: true,
		LogLevel:            DefaultLogLevel,
		FallbackLocation:    DefaultFallbackLocation,
	}
}

// Clone returns a copy whose mapping list can be modified independently.
//
//nolint:gocritic // value receiver keeps Settings usable as a plain snapshot
func (s Settings) Clone() Settings {
	s.Mappings = mappings.Clone(s.Mappings)
	if s.Mappings == nil {
		s.Mappings = []mappings.Mapping{}
	}
	return s
}
