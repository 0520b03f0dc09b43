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
	"io/fs"

	"github.com/LocationChanger/locationchanger-config/pkg/helpers/fileutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// FilePerm is the mode of a written mappings file. The file lives in a
// shared system location and is read by the location switcher script.
const FilePerm = 0o644

// ErrNotFound is returned by Load when the mappings file does not exist.
var ErrNotFound = errors.New("mappings file not found")

// Load reads and parses the mappings file. A missing file returns
// ErrNotFound; any other read failure returns an empty list with the error so
// callers can treat it as "no mappings" without crashing.
func Load(afs afero.Fs, path string) ([]Mapping, error) {
	data, err := afero.ReadFile(afs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	} else if err != nil {
		return []Mapping{}, fmt.Errorf("failed to read mappings file: %w", err)
	}

	ms := Parse(string(data))
	log.Debug().Str("path", path).Int("count", len(ms)).Msg("loaded mappings file")

	return ms, nil
}

// Save serializes the mappings and atomically replaces the file at path. The
// containing directory must already exist.
func Save(afs afero.Fs, path string, ms []Mapping) error {
	if path == "" {
		return errors.New("mappings path not set")
	}

	err := fileutil.WriteFileAtomic(afs, path, []byte(Serialize(ms)), FilePerm)
	if err != nil {
		return fmt.Errorf("failed to write mappings file: %w", err)
	}

	log.Debug().Str("path", path).Int("count", len(ms)).Msg("saved mappings file")
	return nil
}
