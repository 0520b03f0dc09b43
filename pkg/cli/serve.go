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

package cli

import (
	"context"
	"fmt"

	"github.com/LocationChanger/locationchanger-config/pkg/api"
	"github.com/LocationChanger/locationchanger-config/pkg/api/models"
	"github.com/LocationChanger/locationchanger-config/pkg/config"
	"github.com/LocationChanger/locationchanger-config/pkg/service"
	"github.com/LocationChanger/locationchanger-config/pkg/service/broker"
	"github.com/LocationChanger/locationchanger-config/pkg/service/discovery"
	"github.com/LocationChanger/locationchanger-config/pkg/service/publishers"
	"github.com/LocationChanger/locationchanger-config/pkg/service/state"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Serve keeps the engine running until ctx is done: the mappings file is
// watched for external edits and, when enabled, the local API is served.
// Notifications from st are fanned out to the log, MQTT publishers and
// API clients.
func Serve(
	ctx context.Context,
	env Env,
	st *state.State,
	notifications <-chan models.Notification,
) (returnErr error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("panic recovered: %v", r)
			returnErr = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-st.GetContext().Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	b := broker.NewBroker(ctx, notifications)
	b.Start()
	defer func() {
		cancel()
		<-b.Done()
	}()

	logCh, _ := b.Subscribe(config.NotificationBufferLen)
	go logNotifications(logCh)

	if env.Cfg.WatchMappings() {
		w := service.NewWatcher(env.Engine, env.Engine.MappingsPath(), clockwork.NewRealClock(),
			config.DefaultWatchDebounce)
		if err := w.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("not watching mappings file")
		} else {
			defer w.Stop()
		}
	}

	for _, pc := range env.Cfg.MQTTPublishers() {
		ch, id := b.Subscribe(config.NotificationBufferLen)
		pub := publishers.NewMQTTPublisher(pc.Broker, pc.Topic, pc.Filter)
		if err := pub.Start(ctx, ch); err != nil {
			log.Warn().Err(err).Str("broker", pc.Broker).Msg("not publishing to mqtt")
			b.Unsubscribe(id)
			continue
		}
		defer func() {
			cancel()
			<-pub.Done()
		}()
	}

	if !env.Cfg.APIEnabled() {
		log.Info().Msg("serving without api")
		<-ctx.Done()
		return nil
	}

	adv := discovery.New(env.Cfg, clockwork.NewRealClock())
	if err := adv.Start(); err != nil {
		log.Warn().Err(err).Msg("not advertising api")
	}
	defer adv.Stop()

	apiCh, _ := b.Subscribe(config.NotificationBufferLen)
	if err := api.Start(ctx, env.Cfg, env.Engine, apiCh); err != nil {
		return fmt.Errorf("error running api: %w", err)
	}
	return nil
}

func logNotifications(ch <-chan models.Notification) {
	for n := range ch {
		log.Debug().Str("method", n.Method).Str("params", string(n.Params)).Msg("notification")
	}
}
