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

// Package publishers forwards notifications to external message brokers.
package publishers

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/LocationChanger/locationchanger-config/pkg/api/models"
	"github.com/LocationChanger/locationchanger-config/pkg/config"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	disconnectQuiesce = 250
)

// MQTTPublisher publishes notifications to an MQTT broker. Each notification
// goes to <topic>/<method> with its params as the payload.
type MQTTPublisher struct {
	newClient func(*mqtt.ClientOptions) mqtt.Client
	client    mqtt.Client
	done      chan struct{}
	broker    string
	topic     string
	filter    []string
}

// NewMQTTPublisher creates a publisher. An empty filter publishes every
// notification.
func NewMQTTPublisher(broker, topic string, filter []string) *MQTTPublisher {
	return &MQTTPublisher{
		newClient: mqtt.NewClient,
		broker:    broker,
		topic:     strings.TrimSuffix(topic, "/"),
		filter:    slices.Clone(filter),
		done:      make(chan struct{}),
	}
}

// Start connects and forwards notifications until ctx is done or the
// channel is closed.
func (p *MQTTPublisher) Start(ctx context.Context, notifications <-chan models.Notification) error {
	broker := p.broker
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(config.AppName + "-" + uuid.New().String()[:8])
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.OnConnect = func(_ mqtt.Client) {
		log.Info().Str("broker", p.broker).Msg("mqtt publisher connected")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", p.broker).Msg("mqtt publisher connection lost")
	}

	p.client = p.newClient(opts)
	token := p.client.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("failed to connect to mqtt broker %s: %w", p.broker, err)
		}
	default:
		log.Info().Str("broker", p.broker).Msg("connecting to mqtt broker in background")
	}

	go p.run(ctx, notifications, token)
	return nil
}

// Done is closed once the publisher has disconnected.
func (p *MQTTPublisher) Done() <-chan struct{} {
	return p.done
}

func (p *MQTTPublisher) run(ctx context.Context, notifications <-chan models.Notification, connect mqtt.Token) {
	defer close(p.done)
	defer p.client.Disconnect(disconnectQuiesce)

	connecting := connect.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-connecting:
			connecting = nil
			if err := connect.Error(); err != nil {
				log.Error().Err(err).Str("broker", p.broker).Msg("mqtt connect failed")
			}
		case n, ok := <-notifications:
			if !ok {
				return
			}
			if !p.matches(n.Method) {
				continue
			}
			if !p.client.IsConnectionOpen() {
				log.Debug().Str("method", n.Method).Msg("mqtt not connected, dropping notification")
				continue
			}
			p.publish(n)
		}
	}
}

func (p *MQTTPublisher) publish(n models.Notification) {
	payload := []byte(n.Params)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	topic := p.topic + "/" + n.Method
	token := p.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		log.Warn().Str("topic", topic).Msg("mqtt publish timed out")
		return
	}
	if err := token.Error(); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("mqtt publish failed")
		return
	}
	log.Debug().Str("topic", topic).Msg("published notification")
}

func (p *MQTTPublisher) matches(method string) bool {
	return len(p.filter) == 0 || slices.Contains(p.filter, method)
}
