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

package helpers

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/LocationChanger/locationchanger-config/pkg/mappings"
	"github.com/LocationChanger/locationchanger-config/pkg/settings"
	"github.com/spf13/afero"
)

const (
	TestMappingsPath = "/usr/local/bin/locationchanger.conf"
	TestSettingsPath = "/home/user/.config/locationchanger/settings.json"
)

// FSHelper provides an in-memory filesystem laid out like a real install,
// with helpers to seed and inspect the two persisted files.
type FSHelper struct {
	Fs           afero.Fs
	MappingsPath string
	SettingsPath string
}

// NewMemoryFS creates a new in-memory filesystem for testing. Both parent
// directories exist, neither file does.
func NewMemoryFS() *FSHelper {
	h := &FSHelper{
		Fs:           afero.NewMemMapFs(),
		MappingsPath: TestMappingsPath,
		SettingsPath: TestSettingsPath,
	}
	_ = h.Fs.MkdirAll(filepath.Dir(h.MappingsPath), 0o755)
	_ = h.Fs.MkdirAll(filepath.Dir(h.SettingsPath), 0o750)
	return h
}

// ReadOnly returns a view of the same files that rejects every write.
func (h *FSHelper) ReadOnly() afero.Fs {
	return afero.NewReadOnlyFs(h.Fs)
}

// WriteMappingsFile writes raw flat-file content.
func (h *FSHelper) WriteMappingsFile(content string) error {
	if err := afero.WriteFile(h.Fs, h.MappingsPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write mappings file: %w", err)
	}
	return nil
}

// WriteSettingsFile writes a settings document given as any JSON-encodable
// value, or raw bytes for malformed documents.
func (h *FSHelper) WriteSettingsFile(doc any) error {
	data, ok := doc.([]byte)
	if !ok {
		var err error
		data, err = json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
	}
	if err := afero.WriteFile(h.Fs, h.SettingsPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// ReadMappings parses the flat file as a fresh process would.
func (h *FSHelper) ReadMappings() ([]mappings.Mapping, error) {
	ms, err := mappings.Load(h.Fs, h.MappingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings file: %w", err)
	}
	return ms, nil
}

// ReadSettings decodes the settings file as a fresh process would.
func (h *FSHelper) ReadSettings() (settings.Settings, error) {
	vals, err := settings.NewStore(h.Fs, h.SettingsPath).Load()
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to load settings file: %w", err)
	}
	return vals, nil
}

// FileExists checks if a file exists
func (h *FSHelper) FileExists(path string) bool {
	exists, err := afero.Exists(h.Fs, path)
	if err != nil {
		return false
	}
	return exists
}
