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

package netquery

import (
	"strings"
)

// CurrentNetworkMarker precedes the SSID line in the association report.
const CurrentNetworkMarker = "Current Network"

// ParseCurrentSSID scans an association report for the marker line and
// returns the following line with colons removed and whitespace trimmed.
// It reports false when the marker is missing, is the last line, or is
// followed by nothing usable.
func ParseCurrentSSID(output string) (string, bool) {
	lines := splitLines(output)
	for i, line := range lines {
		if !strings.Contains(line, CurrentNetworkMarker) || i+1 >= len(lines) {
			continue
		}
		ssid := strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(lines[i+1]), ":", ""))
		if ssid == "" {
			return "", false
		}
		return ssid, true
	}
	return "", false
}

// ParseLocations returns the trimmed, non-empty lines of a location listing
// in the order the utility printed them.
func ParseLocations(output string) []string {
	locations := make([]string, 0)
	for _, line := range splitLines(output) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		locations = append(locations, trimmed)
	}
	return locations
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
