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
	"os"
	"path/filepath"
	"testing"

	"github.com/LocationChanger/locationchanger-config/pkg/mappings"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPath = "/home/user/.config/locationchanger/settings.json"

func TestDefaults(t *testing.T) {
	t.Parallel()

	d := Defaults()
	assert.True(t, d.EnableNotifications)
	assert.Equal(t, "info", d.LogLevel)
	assert.Equal(t, "Automatic", d.FallbackLocation)
	assert.NotNil(t, d.Mappings)
	assert.Empty(t, d.Mappings)
}

func TestClone_IndependentMappings(t *testing.T) {
	t.Parallel()

	s := Defaults()
	s.Mappings = append(s.Mappings, mappings.New("Home", "A"))

	c := s.Clone()
	c.Mappings[0].SSID = "B"
	c.Mappings = append(c.Mappings, mappings.New("Work", "C"))

	assert.Equal(t, "A", s.Mappings[0].SSID)
	assert.Len(t, s.Mappings, 1)
}

func TestStore_LoadNotFound(t *testing.T) {
	t.Parallel()

	store := NewStore(afero.NewMemMapFs(), testPath)

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LoadMalformed(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte("{not json"), 0o600))

	_, err := NewStore(fs, testPath).Load()

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, testPath, decodeErr.Path)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStore_LoadWrongTypes(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte(`{"enableNotifications":"yes"}`), 0o600))

	_, err := NewStore(fs, testPath).Load()

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestStore_LoadPartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte(`{"fallbackLocation":"Home"}`), 0o600))

	s, err := NewStore(fs, testPath).Load()
	require.NoError(t, err)
	assert.Equal(t, "Home", s.FallbackLocation)
	assert.Equal(t, "info", s.LogLevel)
	assert.True(t, s.EnableNotifications)
	assert.NotNil(t, s.Mappings)
}

func TestStore_LoadDocumentFormat(t *testing.T) {
	t.Parallel()

	doc := `{
  "ssidMappings": [
    {"location": "Home", "ssid": "MyHomeWifi"},
    {"id": "dup", "location": "Office", "ssid": "Office Guest Network"},
    {"id": "dup", "location": "Office", "ssid": "Office Guest Network"}
  ],
  "enableNotifications": false,
  "logLevel": "debug",
  "fallbackLocation": "Not A Real Location"
}`
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte(doc), 0o600))

	s, err := NewStore(fs, testPath).Load()
	require.NoError(t, err)

	assert.False(t, s.EnableNotifications)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "Not A Real Location", s.FallbackLocation)
	assert.Equal(t, []mappings.Pair{
		{Location: "Home", SSID: "MyHomeWifi"},
		{Location: "Office", SSID: "Office Guest Network"},
		{Location: "Office", SSID: "Office Guest Network"},
	}, mappings.Pairs(s.Mappings))

	ids := map[string]bool{}
	for _, m := range s.Mappings {
		assert.NotEmpty(t, m.ID)
		assert.NotEqual(t, "dup", m.ID)
		ids[m.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestStore_SaveCreatesDirectory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	store := NewStore(fs, testPath)

	s := Defaults()
	s.Mappings = append(s.Mappings, mappings.New("Home", "My Wifi"))
	s.FallbackLocation = "Work"
	require.NoError(t, store.Save(s))

	exists, err := afero.DirExists(fs, filepath.Dir(testPath))
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := afero.ReadFile(fs, testPath)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "ssidMappings")
	assert.Contains(t, raw, "enableNotifications")
	assert.Contains(t, raw, "logLevel")
	assert.Contains(t, raw, "fallbackLocation")

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Work", loaded.FallbackLocation)
	assert.True(t, mappings.EqualPairs(s.Mappings, loaded.Mappings))
}

func TestStore_SaveNilMappingsWritesEmptyArray(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, NewStore(fs, testPath).Save(Settings{LogLevel: "info"}))

	data, err := afero.ReadFile(fs, testPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ssidMappings": []`)
}

func TestStore_SaveEmptyPath(t *testing.T) {
	t.Parallel()

	err := NewStore(afero.NewMemMapFs(), "").Save(Defaults())
	require.Error(t, err)
}

func TestStore_SaveDirectoryError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	store := NewStore(afero.NewOsFs(), filepath.Join(blocker, "sub", "settings.json"))
	err := store.Save(Defaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create settings directory")
}

func TestStore_SaveRoundTripOnDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "settings.json")
	store := NewStore(afero.NewOsFs(), path)

	s := Defaults()
	s.EnableNotifications = false
	require.NoError(t, store.Save(s))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePerm), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.False(t, loaded.EnableNotifications)
}

func TestDecodeError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &DecodeError{Path: "/x", Err: cause}
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "/x")
}
