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

// Package state holds the process's single settings document and announces
// every change to it on a notification channel.
package state

import (
	"context"

	"github.com/LocationChanger/locationchanger-config/pkg/api/models"
	"github.com/LocationChanger/locationchanger-config/pkg/api/notifications"
	"github.com/LocationChanger/locationchanger-config/pkg/config"
	"github.com/LocationChanger/locationchanger-config/pkg/helpers/syncutil"
	"github.com/LocationChanger/locationchanger-config/pkg/mappings"
	"github.com/LocationChanger/locationchanger-config/pkg/settings"
)

// State holds the in-memory settings document. The sync engine is its only
// writer; everything else reads snapshots or subscribes to Notifications.
//
// LOCKING RULES: mu protects settings. Notifications are always sent after
// the lock is released: lock → modify → copy payload → unlock → send.
type State struct {
	ctx           context.Context
	ctxCancelFunc context.CancelFunc
	Notifications chan<- models.Notification
	settings      settings.Settings
	mu            syncutil.RWMutex
}

// NewState creates a state holding the default settings and returns the
// receiving end of its notification channel.
func NewState() (state *State, notificationCh <-chan models.Notification) {
	ns := make(chan models.Notification, config.NotificationBufferLen)
	ctx, ctxCancelFunc := context.WithCancel(context.Background())
	return &State{
		ctx:           ctx,
		ctxCancelFunc: ctxCancelFunc,
		Notifications: ns,
		settings:      settings.Defaults(),
	}, ns
}

func (s *State) GetContext() context.Context {
	return s.ctx
}

// Stop cancels the state's context, which shuts down anything started
// against it (broker, watcher, API broadcasts).
func (s *State) Stop() {
	s.ctxCancelFunc()
}

// Snapshot returns a copy of the whole document.
func (s *State) Snapshot() settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

func (s *State) Mappings() []mappings.Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := mappings.Clone(s.settings.Mappings)
	if out == nil {
		out = []mappings.Mapping{}
	}
	return out
}

// Replace swaps in a freshly loaded document.
//
//nolint:gocritic // settings passed by value as an immutable snapshot
func (s *State) Replace(vals settings.Settings) {
	s.mu.Lock()
	s.settings = vals.Clone()
	payload := settingsResponse(&s.settings)
	s.mu.Unlock()

	notifications.SettingsLoaded(s.Notifications, payload)
}

// SetMappings replaces the mapping list, used when the flat file is
// reloaded.
func (s *State) SetMappings(ms []mappings.Mapping) {
	s.mu.Lock()
	s.settings.Mappings = mappings.Clone(ms)
	if s.settings.Mappings == nil {
		s.settings.Mappings = []mappings.Mapping{}
	}
	payload := models.MappingsResponse{Mappings: MappingResponses(s.settings.Mappings)}
	s.mu.Unlock()

	notifications.MappingsReloaded(s.Notifications, payload)
}

func (s *State) AppendMappings(ms ...mappings.Mapping) {
	if len(ms) == 0 {
		return
	}

	s.mu.Lock()
	s.settings.Mappings = append(s.settings.Mappings, ms...)
	s.mu.Unlock()

	notifications.MappingsAdded(s.Notifications, MappingResponses(ms))
}

// RemoveMapping removes the first mapping with the given ID and reports
// whether one was found.
func (s *State) RemoveMapping(id string) (mappings.Mapping, bool) {
	s.mu.Lock()
	idx := -1
	for i, m := range s.settings.Mappings {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return mappings.Mapping{}, false
	}

	removed := s.settings.Mappings[idx]
	s.settings.Mappings = append(
		mappings.Clone(s.settings.Mappings[:idx]),
		s.settings.Mappings[idx+1:]...,
	)
	s.mu.Unlock()

	notifications.MappingsRemoved(s.Notifications, MappingResponse(removed))
	return removed, true
}

func (s *State) SetEnableNotifications(enabled bool) {
	s.updateSettings(func(vals *settings.Settings) {
		vals.EnableNotifications = enabled
	})
}

func (s *State) SetFallbackLocation(location string) {
	s.updateSettings(func(vals *settings.Settings) {
		vals.FallbackLocation = location
	})
}

func (s *State) SetLogLevel(level string) {
	s.updateSettings(func(vals *settings.Settings) {
		vals.LogLevel = level
	})
}

func (s *State) updateSettings(fn func(*settings.Settings)) {
	s.mu.Lock()
	fn(&s.settings)
	payload := settingsResponse(&s.settings)
	s.mu.Unlock()

	notifications.SettingsChanged(s.Notifications, payload)
}

func settingsResponse(vals *settings.Settings) models.SettingsResponse {
	return models.SettingsResponse{
		LogLevel:            vals.LogLevel,
		FallbackLocation:    vals.FallbackLocation,
		EnableNotifications: vals.EnableNotifications,
	}
}

func MappingResponse(m mappings.Mapping) models.MappingResponse {
	return models.MappingResponse{
		ID:       m.ID,
		Location: m.Location,
		SSID:     m.SSID,
	}
}

func MappingResponses(ms []mappings.Mapping) []models.MappingResponse {
	out := make([]models.MappingResponse, len(ms))
	for i, m := range ms {
		out[i] = MappingResponse(m)
	}
	return out
}
