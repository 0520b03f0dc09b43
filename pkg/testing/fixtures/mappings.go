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

// Package fixtures holds sample documents shared by tests.
package fixtures

import (
	"github.com/LocationChanger/locationchanger-config/pkg/mappings"
	"github.com/LocationChanger/locationchanger-config/pkg/settings"
)

// MappingsFile is a hand-edited flat file with comments, blank lines, a
// malformed line and a quoted SSID.
const MappingsFile = `# LocationChanger Configuration
# Format: location_name "WiFi SSID"

Home HomeNet
Work "Office Guest Network"
   # indented comment
Cafe
Travel "Airport Free WiFi"
`

// MappingsFilePairs are the pairs MappingsFile parses to, in order.
var MappingsFilePairs = []mappings.Pair{
	{Location: "Home", SSID: "HomeNet"},
	{Location: "Work", SSID: "Office Guest Network"},
	{Location: "Travel", SSID: "Airport Free WiFi"},
}

// SettingsJSON is a stored settings document with ids on its mappings.
const SettingsJSON = `{
  "ssidMappings": [
    {"id": "6f1c", "location": "Home", "ssid": "HomeNet"},
    {"id": "9a2b", "location": "Lab", "ssid": "Lab 5G"}
  ],
  "enableNotifications": false,
  "logLevel": "debug",
  "fallbackLocation": "Automatic"
}`

// NewHomeMapping returns a sample mapping with a fresh id.
func NewHomeMapping() mappings.Mapping {
	return mappings.New("Home", "HomeNet")
}

// NewWorkMapping returns a sample mapping whose SSID needs quoting.
func NewWorkMapping() mappings.Mapping {
	return mappings.New("Work", "Office Guest Network")
}

// NewSettings returns a settings document holding the sample mappings.
func NewSettings() settings.Settings {
	s := settings.Defaults()
	s.Mappings = []mappings.Mapping{NewHomeMapping(), NewWorkMapping()}
	s.FallbackLocation = "Home"
	return s
}
