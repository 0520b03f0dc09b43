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

package config

import "time"

var AppVersion = "DEVELOPMENT"

const (
	AppName      = "locationchanger"
	LogFile      = "locationchanger.log"
	LogsDir      = "logs"
	CfgFile      = "config.toml"
	SettingsFile = "settings.json"

	// DefaultMappingsFile is read by the location switcher script, so it
	// lives next to it rather than in the user's config directory.
	DefaultMappingsFile = "/usr/local/bin/locationchanger.conf"

	DefaultQueryTimeout   = 5 * time.Second
	DefaultAPIListen      = "127.0.0.1:7498"
	APIRequestTimeout     = 30 * time.Second
	DefaultWatchDebounce  = 250 * time.Millisecond
	NotificationBufferLen = 100
)
