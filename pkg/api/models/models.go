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

// Package models holds the payloads exchanged between the engine and its
// API clients.
package models

import (
	"encoding/json"
)

const (
	NotificationMappingsAdded    = "mappings.added"
	NotificationMappingsRemoved  = "mappings.removed"
	NotificationMappingsReloaded = "mappings.reloaded"
	NotificationSettingsChanged  = "settings.changed"
	NotificationSettingsLoaded   = "settings.loaded"
)

// Notification is a change event sent to subscribers. Params holds the JSON
// encoded payload for the method.
type Notification struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type MappingResponse struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	SSID     string `json:"ssid"`
}

type MappingsResponse struct {
	Mappings []MappingResponse `json:"mappings"`
}

type SettingsResponse struct {
	LogLevel            string `json:"logLevel"`
	FallbackLocation    string `json:"fallbackLocation"`
	EnableNotifications bool   `json:"enableNotifications"`
}

type StatusResponse struct {
	CurrentSSID         string `json:"currentSsid"`
	FallbackLocation    string `json:"fallbackLocation"`
	MappingsCount       int    `json:"mappingsCount"`
	EnableNotifications bool   `json:"enableNotifications"`
}

type LocationsResponse struct {
	Locations []string `json:"locations"`
}

type SSIDResponse struct {
	SSID string `json:"ssid"`
}

type AddMappingParams struct {
	Location string `json:"location" validate:"required,location"`
	SSID     string `json:"ssid" validate:"required,notblank,singleline"`
}

// UpdateSettingsParams is a partial update, nil fields are left unchanged.
type UpdateSettingsParams struct {
	EnableNotifications *bool   `json:"enableNotifications,omitempty"`
	FallbackLocation    *string `json:"fallbackLocation,omitempty"`
	LogLevel            *string `json:"logLevel,omitempty" validate:"omitempty,loglevel"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// AddMappingResponse is the created mapping. Error is set when the mapping
// was added in memory but could not be written to disk.
type AddMappingResponse struct {
	MappingResponse
	Error string `json:"error,omitempty"`
}

type ReloadResponse struct {
	Changed bool `json:"changed"`
}
