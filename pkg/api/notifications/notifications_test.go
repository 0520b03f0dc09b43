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

package notifications

import (
	"testing"
	"time"

	"github.com/LocationChanger/locationchanger-config/pkg/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSendNotification_NonBlocking verifies a full channel never blocks
// the sender.
func TestSendNotification_NonBlocking(t *testing.T) {
	t.Parallel()

	// Create a channel with no buffer - any send would block without non-blocking logic
	ns := make(chan models.Notification)

	done := make(chan struct{})
	go func() {
		MappingsRemoved(ns, models.MappingResponse{ID: "test"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("sendNotification blocked on full channel")
	}
}

func TestMappingsAdded(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 1)

	MappingsAdded(ns, []models.MappingResponse{{ID: "1", Location: "Home", SSID: "My Wifi"}})

	select {
	case n := <-ns:
		assert.Equal(t, models.NotificationMappingsAdded, n.Method)
		assert.JSONEq(t, `[{"id":"1","location":"Home","ssid":"My Wifi"}]`, string(n.Params))
	case <-time.After(100 * time.Millisecond):
		t.Fatal("expected notification was not sent")
	}
}

func TestSettingsChanged(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 1)

	SettingsChanged(ns, models.SettingsResponse{
		LogLevel:            "debug",
		FallbackLocation:    "Home",
		EnableNotifications: false,
	})

	n := <-ns
	require.Equal(t, models.NotificationSettingsChanged, n.Method)
	assert.JSONEq(t,
		`{"logLevel":"debug","fallbackLocation":"Home","enableNotifications":false}`,
		string(n.Params),
	)
}

func TestSendNotification_NilPayload(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 1)

	sendNotification(ns, "custom.event", nil)

	n := <-ns
	assert.Equal(t, "custom.event", n.Method)
	assert.Nil(t, n.Params)
}
