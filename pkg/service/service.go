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

// Package service holds the sync engine: the only writer of the in-memory
// settings document, keeping the flat mapping file and the structured
// settings store in agreement.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LocationChanger/locationchanger-config/pkg/api/models"
	"github.com/LocationChanger/locationchanger-config/pkg/api/validation"
	"github.com/LocationChanger/locationchanger-config/pkg/helpers"
	"github.com/LocationChanger/locationchanger-config/pkg/helpers/command"
	"github.com/LocationChanger/locationchanger-config/pkg/helpers/syncutil"
	"github.com/LocationChanger/locationchanger-config/pkg/mappings"
	"github.com/LocationChanger/locationchanger-config/pkg/netquery"
	"github.com/LocationChanger/locationchanger-config/pkg/service/state"
	"github.com/LocationChanger/locationchanger-config/pkg/settings"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	// ErrInvalidMapping is returned when a location or SSID cannot be stored
	// in the flat file. Nothing is changed or persisted.
	ErrInvalidMapping = errors.New("invalid mapping")
	// ErrInvalidSettings is returned for a rejected settings update.
	ErrInvalidSettings = errors.New("invalid settings")
)

// PersistError reports which of the two writes failed. Both writes are
// always attempted and the in-memory change is kept either way.
type PersistError struct {
	Mappings error
	Settings error
}

func (e *PersistError) Error() string {
	var parts []string
	if e.Mappings != nil {
		parts = append(parts, "mappings file: "+e.Mappings.Error())
	}
	if e.Settings != nil {
		parts = append(parts, "settings store: "+e.Settings.Error())
	}
	return "failed to persist " + strings.Join(parts, "; ")
}

func (e *PersistError) Unwrap() []error {
	var errs []error
	if e.Mappings != nil {
		errs = append(errs, e.Mappings)
	}
	if e.Settings != nil {
		errs = append(errs, e.Settings)
	}
	return errs
}

// NetworkQuery is the read-only view of the host's network state.
type NetworkQuery interface {
	CurrentSSID(ctx context.Context) string
	AvailableLocations(ctx context.Context) []string
}

type Options struct {
	Fs           afero.Fs
	State        *state.State
	Store        *settings.Store
	Query        NetworkQuery
	MappingsPath string
	DebugLogging bool
}

// Engine serialises every mutation of the settings document and persists
// each one to both files.
type Engine struct {
	fs           afero.Fs
	st           *state.State
	store        *settings.Store
	query        NetworkQuery
	validator    *validation.Validator
	mappingsPath string
	debug        bool
	mu           syncutil.Mutex
}

// New builds an engine. Missing options are filled with production
// defaults: the OS filesystem, a fresh state, the settings file under the
// user config directory and the platform's network commands.
//
//nolint:gocritic // options struct passed by value
func New(opts Options) *Engine {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.State == nil {
		opts.State, _ = state.NewState()
	}
	if opts.Store == nil {
		opts.Store = settings.NewStore(opts.Fs, helpers.DefaultSettingsPath())
	}
	if opts.Query == nil {
		opts.Query = netquery.New(&command.RealExecutor{}, netquery.Commands{}, 0)
	}
	return &Engine{
		fs:           opts.Fs,
		st:           opts.State,
		store:        opts.Store,
		query:        opts.Query,
		validator:    validation.DefaultValidator,
		mappingsPath: opts.MappingsPath,
		debug:        opts.DebugLogging,
	}
}

func (e *Engine) State() *state.State {
	return e.st
}

func (e *Engine) MappingsPath() string {
	return e.mappingsPath
}

func (e *Engine) SettingsPath() string {
	return e.store.Path()
}

func (e *Engine) Snapshot() settings.Settings {
	return e.st.Snapshot()
}

func (e *Engine) Mappings() []mappings.Mapping {
	return e.st.Mappings()
}

// Load builds the document from defaults, then the settings store, then the
// flat file, which is authoritative for mappings. Missing or unreadable
// sources are logged and skipped, Load itself never fails.
func (e *Engine) Load() settings.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()

	vals := settings.Defaults()

	loaded, err := e.store.Load()
	var decodeErr *settings.DecodeError
	switch {
	case err == nil:
		vals = loaded
		mappings.NormalizeAll(vals.Mappings)
	case errors.Is(err, settings.ErrNotFound):
		log.Info().Str("path", e.store.Path()).Msg("no settings file, using defaults")
	case errors.As(err, &decodeErr):
		log.Error().Err(err).Msg("settings file unreadable, using defaults")
	default:
		log.Error().Err(err).Msg("error loading settings file")
	}

	ms, err := mappings.Load(e.fs, e.mappingsPath)
	switch {
	case err == nil:
		vals.Mappings = ms
	case errors.Is(err, mappings.ErrNotFound):
		log.Info().Str("path", e.mappingsPath).Msg("no mappings file, keeping stored mappings")
	default:
		log.Warn().Err(err).Msg("mappings file unreadable, keeping stored mappings")
	}

	lvl := helpers.ApplyLogLevel(vals.LogLevel, e.debug)
	log.Info().
		Int("mappings", len(vals.Mappings)).
		Str("level", lvl.String()).
		Msg("settings loaded")

	e.st.Replace(vals)
	return vals.Clone()
}

// newMapping checks the input as given, so line breaks are refused rather
// than collapsed, then checks the SSID again in its round-trip form.
func (e *Engine) newMapping(location, ssid string) (mappings.Mapping, error) {
	m := mappings.New(strings.TrimSpace(location), strings.TrimSpace(ssid))
	if err := e.validator.Validate(&m); err != nil {
		return mappings.Mapping{}, fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}
	m.SSID = mappings.NormalizeSSID(m.SSID)
	if err := e.validator.Validate(&m); err != nil {
		return mappings.Mapping{}, fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}
	return m, nil
}

// AddMapping appends a new mapping with a fresh ID and writes both files.
// The SSID is stored in the form the flat file reads back.
// A *PersistError still returns the mapping, which stays in memory.
func (e *Engine) AddMapping(location, ssid string) (mappings.Mapping, error) {
	m, err := e.newMapping(location, ssid)
	if err != nil {
		return mappings.Mapping{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.st.AppendMappings(m)
	log.Info().Str("location", m.Location).Str("ssid", m.SSID).Msg("added mapping")

	return m, e.persist()
}

// AddMappings appends a batch with a single write of each file. Every entry
// gets a fresh ID. If any entry is invalid nothing is added.
func (e *Engine) AddMappings(batch []mappings.Mapping) ([]mappings.Mapping, error) {
	added := make([]mappings.Mapping, 0, len(batch))
	for i := range batch {
		m, err := e.newMapping(batch[i].Location, batch[i].SSID)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		added = append(added, m)
	}
	if len(added) == 0 {
		return added, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.st.AppendMappings(added...)
	log.Info().Int("count", len(added)).Msg("added mappings")

	return added, e.persist()
}

// RemoveMapping deletes the mapping with the given ID. An absent ID is not
// an error and writes nothing.
func (e *Engine) RemoveMapping(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	removed, ok := e.st.RemoveMapping(id)
	if !ok {
		log.Debug().Str("id", id).Msg("remove mapping: id not found")
		return false, nil
	}
	log.Info().Str("location", removed.Location).Str("ssid", removed.SSID).Msg("removed mapping")

	return true, e.persist()
}

// Save writes the current document to both files.
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persist()
}

// persist must be called with mu held.
func (e *Engine) persist() error {
	vals := e.st.Snapshot()
	perr := &PersistError{}

	if err := mappings.Save(e.fs, e.mappingsPath, vals.Mappings); err != nil {
		log.Error().Err(err).Str("path", e.mappingsPath).Msg("error writing mappings file")
		perr.Mappings = err
	}
	if err := e.store.Save(vals); err != nil {
		log.Error().Err(err).Str("path", e.store.Path()).Msg("error saving settings file")
		perr.Settings = err
	}

	if perr.Mappings == nil && perr.Settings == nil {
		return nil
	}
	return perr
}

// saveStore writes only the settings store, used for changes the flat file
// cannot hold. Must be called with mu held.
func (e *Engine) saveStore() error {
	if err := e.store.Save(e.st.Snapshot()); err != nil {
		log.Error().Err(err).Str("path", e.store.Path()).Msg("error saving settings file")
		return &PersistError{Settings: err}
	}
	return nil
}

// UpdateSettings applies a partial settings update and saves the settings
// store. Nil fields are left unchanged.
func (e *Engine) UpdateSettings(params models.UpdateSettingsParams) error {
	if err := e.validator.Validate(&params); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if params.LogLevel != nil {
		if _, err := helpers.ParseLogLevel(*params.LogLevel); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
	}
	if params.EnableNotifications == nil && params.FallbackLocation == nil && params.LogLevel == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if params.EnableNotifications != nil {
		e.st.SetEnableNotifications(*params.EnableNotifications)
	}
	if params.FallbackLocation != nil {
		e.st.SetFallbackLocation(*params.FallbackLocation)
	}
	if params.LogLevel != nil {
		e.st.SetLogLevel(*params.LogLevel)
		helpers.ApplyLogLevel(*params.LogLevel, e.debug)
	}

	return e.saveStore()
}

func (e *Engine) SetEnableNotifications(enabled bool) error {
	return e.UpdateSettings(models.UpdateSettingsParams{EnableNotifications: &enabled})
}

// SetFallbackLocation accepts any string, it is not checked against the
// available locations.
func (e *Engine) SetFallbackLocation(location string) error {
	return e.UpdateSettings(models.UpdateSettingsParams{FallbackLocation: &location})
}

func (e *Engine) SetLogLevel(level string) error {
	return e.UpdateSettings(models.UpdateSettingsParams{LogLevel: &level})
}

// ReloadMappings re-reads the flat file after an external edit and replaces
// the in-memory mappings when its contents differ. It reports whether
// anything changed. Nothing is written back.
func (e *Engine) ReloadMappings() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ms, err := mappings.Load(e.fs, e.mappingsPath)
	if errors.Is(err, mappings.ErrNotFound) {
		log.Debug().Str("path", e.mappingsPath).Msg("mappings file gone, keeping current mappings")
		return false, nil
	} else if err != nil {
		return false, err
	}

	if mappings.EqualPairs(ms, e.st.Mappings()) {
		return false, nil
	}

	e.st.SetMappings(ms)
	log.Info().Int("mappings", len(ms)).Msg("reloaded mappings file")
	return true, nil
}

func (e *Engine) CurrentSSID(ctx context.Context) string {
	return e.query.CurrentSSID(ctx)
}

func (e *Engine) AvailableLocations(ctx context.Context) []string {
	return e.query.AvailableLocations(ctx)
}

func (e *Engine) Status(ctx context.Context) models.StatusResponse {
	vals := e.st.Snapshot()
	return models.StatusResponse{
		CurrentSSID:         e.query.CurrentSSID(ctx),
		FallbackLocation:    vals.FallbackLocation,
		MappingsCount:       len(vals.Mappings),
		EnableNotifications: vals.EnableNotifications,
	}
}
