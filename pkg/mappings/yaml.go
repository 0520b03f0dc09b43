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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Mappings []Mapping `yaml:"mappings"`
}

// ExportYAML writes mappings as a YAML document with a top-level mappings
// list. IDs are not exported.
func ExportYAML(w io.Writer, ms []Mapping) error {
	doc := yamlDocument{Mappings: ms}
	if doc.Mappings == nil {
		doc.Mappings = []Mapping{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write mappings yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to write mappings yaml: %w", err)
	}
	return nil
}

// ImportYAML reads a document written by ExportYAML. Entries with an empty
// location or SSID are skipped and every entry gets a fresh ID.
func ImportYAML(r io.Reader) ([]Mapping, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read mappings yaml: %w", err)
	}

	ms := make([]Mapping, 0, len(doc.Mappings))
	for i, entry := range doc.Mappings {
		location := strings.TrimSpace(entry.Location)
		ssid := strings.TrimSpace(entry.SSID)
		if location == "" || ssid == "" {
			log.Warn().Int("entry", i+1).Msg("skipping yaml entry with empty field")
			continue
		}
		ms = append(ms, New(location, ssid))
	}
	return ms, nil
}
