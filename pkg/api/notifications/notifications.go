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

// Package notifications sends typed change events on the state holder's
// notification channel.
package notifications

import (
	"encoding/json"

	"github.com/LocationChanger/locationchanger-config/pkg/api/models"
	"github.com/rs/zerolog/log"
)

// sendNotification marshals the payload and sends it without blocking. A
// full channel drops the notification with a warning so a slow or absent
// subscriber can never stall a mutation.
func sendNotification(ns chan<- models.Notification, method string, payload any) {
	var params json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("method", method).Msg("error marshalling notification params")
			return
		}
		params = data
	}

	select {
	case ns <- models.Notification{Method: method, Params: params}:
	default:
		log.Warn().Str("method", method).Msg("notification channel full, dropping notification")
	}
}

func MappingsAdded(ns chan<- models.Notification, payload []models.MappingResponse) {
	sendNotification(ns, models.NotificationMappingsAdded, payload)
}

func MappingsRemoved(ns chan<- models.Notification, payload models.MappingResponse) {
	sendNotification(ns, models.NotificationMappingsRemoved, payload)
}

func MappingsReloaded(ns chan<- models.Notification, payload models.MappingsResponse) {
	sendNotification(ns, models.NotificationMappingsReloaded, payload)
}

func SettingsChanged(ns chan<- models.Notification, payload models.SettingsResponse) {
	sendNotification(ns, models.NotificationSettingsChanged, payload)
}

func SettingsLoaded(ns chan<- models.Notification, payload models.SettingsResponse) {
	sendNotification(ns, models.NotificationSettingsLoaded, payload)
}
