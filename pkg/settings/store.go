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

package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/LocationChanger/locationchanger-config/pkg/helpers/fileutil"
	"github.com/LocationChanger/locationchanger-config/pkg/mappings"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	FilePerm = 0o600
	DirPerm  = 0o750
)

// ErrNotFound is returned by Load when no settings file exists yet.
var ErrNotFound = errors.New("settings file not found")

// DecodeError reports a settings file that exists but could not be read or
// decoded. Callers keep their defaults.
type DecodeError struct {
	Err  error
	Path string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode settings file %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Store reads and writes the settings document as JSON.
type Store struct {
	fs   afero.Fs
	path string
}

func NewStore(afs afero.Fs, path string) *Store {
	return &Store{fs: afs, path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. Fields missing from the file keep their
// defaults. Every loaded mapping is given a fresh ID.
func (s *Store) Load() (Settings, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, ErrNotFound
	} else if err != nil {
		return Settings{}, &DecodeError{Path: s.path, Err: err}
	}

	vals := Defaults()
	if err := json.Unmarshal(data, &vals); err != nil {
		return Settings{}, &DecodeError{Path: s.path, Err: err}
	}

	if vals.Mappings == nil {
		vals.Mappings = []mappings.Mapping{}
	}
	mappings.Reassign(vals.Mappings)

	log.Debug().
		Str("path", s.path).
		Int("mappings", len(vals.Mappings)).
		Msg("loaded settings file")

	return vals, nil
}

// Save writes the full document atomically, creating the parent directory
// when needed.
//
//nolint:gocritic // settings passed by value as an immutable snapshot
func (s *Store) Save(vals Settings) error {
	if s.path == "" {
		return errors.New("settings path not set")
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), DirPerm); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	if vals.Mappings == nil {
		vals.Mappings = []mappings.Mapping{}
	}

	data, err := json.MarshalIndent(&vals, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := fileutil.WriteFileAtomic(s.fs, s.path, data, FilePerm); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	log.Debug().Str("path", s.path).Msg("saved settings file")
	return nil
}
