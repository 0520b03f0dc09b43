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
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// ExportCSV writes mappings as CSV with a location,ssid header. IDs are not
// exported.
func ExportCSV(w io.Writer, ms []Mapping) error {
	rows := ms
	if rows == nil {
		rows = []Mapping{}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write mappings csv: %w", err)
	}
	return nil
}

// ImportCSV reads mappings from CSV produced by ExportCSV. Rows with an
// empty location or SSID are skipped and every row gets a fresh ID.
func ImportCSV(r io.Reader) ([]Mapping, error) {
	var rows []Mapping
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to read mappings csv: %w", err)
	}

	ms := make([]Mapping, 0, len(rows))
	for i, row := range rows {
		location := strings.TrimSpace(row.Location)
		ssid := strings.TrimSpace(row.SSID)
		if location == "" || ssid == "" {
			log.Warn().Int("row", i+1).Msg("skipping csv row with empty field")
			continue
		}
		ms = append(ms, New(location, ssid))
	}

	return ms, nil
}
