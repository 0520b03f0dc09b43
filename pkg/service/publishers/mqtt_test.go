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

package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LocationChanger/locationchanger-config/pkg/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPublisher(client *mockMQTTClient, topic string, filter []string) *MQTTPublisher {
	p := NewMQTTPublisher("localhost:1883", topic, filter)
	p.newClient = client.factory
	return p
}

func waitDone(t *testing.T, p *MQTTPublisher) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("publisher did not stop")
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		filter []string
		want   bool
	}{
		{name: "nil filter matches all", method: models.NotificationMappingsAdded, want: true},
		{name: "empty filter matches all", filter: []string{}, method: models.NotificationSettingsChanged, want: true},
		{
			name:   "method in filter",
			filter: []string{models.NotificationMappingsAdded, models.NotificationMappingsRemoved},
			method: models.NotificationMappingsRemoved,
			want:   true,
		},
		{
			name:   "method not in filter",
			filter: []string{models.NotificationMappingsAdded},
			method: models.NotificationSettingsChanged,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewMQTTPublisher("localhost:1883", "locationchanger", tt.filter)
			assert.Equal(t, tt.want, p.matches(tt.method))
		})
	}
}

func TestStart_PublishesFilteredNotifications(t *testing.T) {
	t.Parallel()

	client := &mockMQTTClient{}
	p := newTestPublisher(client, "home/locationchanger/", []string{models.NotificationMappingsAdded})

	ch := make(chan models.Notification, 3)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, p.Start(ctx, ch))

	params, err := json.Marshal([]models.MappingResponse{{ID: "1", Location: "Work", SSID: "Office"}})
	require.NoError(t, err)
	ch <- models.Notification{Method: models.NotificationSettingsChanged, Params: json.RawMessage(`{}`)}
	ch <- models.Notification{Method: models.NotificationMappingsAdded, Params: params}
	close(ch)
	waitDone(t, p)

	msgs := client.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "home/locationchanger/"+models.NotificationMappingsAdded, msgs[0].topic)
	assert.JSONEq(t, string(params), string(msgs[0].payload))
	assert.Equal(t, 1, client.disconnects())
	assert.Equal(t, []string{"tcp://localhost:1883"}, brokerURLs(client))
}

func TestStart_EmptyParams(t *testing.T) {
	t.Parallel()

	client := &mockMQTTClient{}
	p := newTestPublisher(client, "lc", nil)

	ch := make(chan models.Notification, 1)
	require.NoError(t, p.Start(context.Background(), ch))
	ch <- models.Notification{Method: models.NotificationMappingsReloaded}
	close(ch)
	waitDone(t, p)

	msgs := client.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "{}", string(msgs[0].payload))
}

func TestStart_StopsOnContext(t *testing.T) {
	t.Parallel()

	client := &mockMQTTClient{}
	p := newTestPublisher(client, "lc", nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx, make(chan models.Notification)))
	cancel()
	waitDone(t, p)

	assert.False(t, client.IsConnected())
}

func TestStart_ConnectError(t *testing.T) {
	t.Parallel()

	client := &mockMQTTClient{connectError: errors.New("connection refused")}
	p := newTestPublisher(client, "lc", nil)

	err := p.Start(context.Background(), make(chan models.Notification))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStart_UnreachableBrokerDoesNotBlock(t *testing.T) {
	t.Parallel()

	client := &mockMQTTClient{connectPending: make(chan struct{})}
	p := newTestPublisher(client, "lc", []string{
		models.NotificationMappingsAdded,
		models.NotificationSettingsChanged,
	})

	ch := make(chan models.Notification)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	require.NoError(t, p.Start(ctx, ch))
	assert.Less(t, time.Since(start), time.Second)

	// the second send returns only after the first was handled; the
	// second is filtered out either way
	ch <- models.Notification{Method: models.NotificationMappingsAdded}
	ch <- models.Notification{Method: models.NotificationMappingsRemoved}
	assert.Empty(t, client.messages())

	client.finishConnect()
	ch <- models.Notification{Method: models.NotificationSettingsChanged}
	close(ch)
	waitDone(t, p)

	msgs := client.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "lc/"+models.NotificationSettingsChanged, msgs[0].topic)
}

func TestStart_PublishErrorKeepsRunning(t *testing.T) {
	t.Parallel()

	client := &mockMQTTClient{publishError: errors.New("not connected")}
	p := newTestPublisher(client, "lc", nil)

	ch := make(chan models.Notification, 2)
	require.NoError(t, p.Start(context.Background(), ch))
	ch <- models.Notification{Method: models.NotificationMappingsAdded}
	ch <- models.Notification{Method: models.NotificationMappingsRemoved}
	close(ch)
	waitDone(t, p)

	assert.Empty(t, client.messages())
}

func brokerURLs(client *mockMQTTClient) []string {
	client.mu.Lock()
	defer client.mu.Unlock()
	out := make([]string, 0, len(client.opts.Servers))
	for _, u := range client.opts.Servers {
		out = append(out, u.String())
	}
	return out
}
