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

package mappings

import (
	"strings"
)

const (
	commentPrefix = "#"
	quoteChars    = `"`
)

// Header is written at the top of every serialized mappings file.
var Header = []string{
	"# LocationChanger Configuration",
	`# Format: location_name "WiFi SSID"`,
	"# Lines starting with # are comments",
}

// Parse reads the flat-file format. It never fails: comments, blank lines
// and lines with fewer than two fields are skipped. The first field is the
// location, the rest is rejoined with single spaces and has every leading
// and trailing double quote removed. Each result gets a fresh ID.
func Parse(text string) []Mapping {
	ms := make([]Mapping, 0)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, commentPrefix) {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}

		ms = append(ms, New(fields[0], NormalizeSSID(strings.Join(fields[1:], " "))))
	}

	return ms
}

// NormalizeSSID returns the form of ssid that survives a Serialize and
// Parse round trip: whitespace runs collapse to a single space and edge
// double quotes are removed, repeated until nothing changes.
func NormalizeSSID(ssid string) string {
	for {
		next := strings.Trim(strings.Join(strings.Fields(ssid), " "), quoteChars)
		if next == ssid {
			return next
		}
		ssid = next
	}
}

// NormalizeAll rewrites every SSID in ms in place with NormalizeSSID.
func NormalizeAll(ms []Mapping) {
	for i := range ms {
		ms[i].SSID = NormalizeSSID(ms[i].SSID)
	}
}

// Serialize writes mappings in the flat-file format. An SSID is quoted only
// when it contains a space. Embedded quotes are not escaped.
func Serialize(ms []Mapping) string {
	var sb strings.Builder

	for _, line := range Header {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	for _, m := range ms {
		sb.WriteString(m.Location)
		sb.WriteByte(' ')
		sb.WriteString(quoteSSID(m.SSID))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func quoteSSID(ssid string) string {
	if strings.Contains(ssid, " ") {
		return quoteChars + ssid + quoteChars
	}
	return ssid
}
