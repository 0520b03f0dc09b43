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

// Package discovery advertises the local API over mDNS so companion apps on
// the same network can find it.
package discovery

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/LocationChanger/locationchanger-config/pkg/config"
	"github.com/LocationChanger/locationchanger-config/pkg/helpers/syncutil"
	"github.com/grandcat/zeroconf"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// ServiceType is the DNS-SD service type of the local API.
const ServiceType = "_locationchanger._tcp"

const (
	serviceDomain    = "local."
	retryInterval    = 30 * time.Second
	maxRetryDuration = 5 * time.Minute
)

// virtualPrefixes are interface name prefixes of container and VPN
// interfaces, which are never advertised on.
var virtualPrefixes = []string{
	"docker", "br-", "veth", "virbr", "lxc", "lxd",
	"utun", "awdl", "llw", "bridge", "tun", "tap", "wg",
}

// Config is the part of the app config the advertiser reads.
type Config interface {
	DiscoveryEnabled() bool
	DiscoveryInstanceName() string
	APIPort() (int, error)
}

// RegisterFunc registers a service and returns a handle that can be shut
// down. It matches zeroconf.Register.
type RegisterFunc func(
	instance, service, domain string,
	port int,
	text []string,
	ifaces []net.Interface,
) (Server, error)

// Server is a registered advertisement.
type Server interface {
	Shutdown()
}

func zeroconfRegister(
	instance, service, domain string,
	port int,
	text []string,
	ifaces []net.Interface,
) (Server, error) {
	s, err := zeroconf.Register(instance, service, domain, port, text, ifaces)
	if err != nil {
		return nil, fmt.Errorf("mdns register: %w", err)
	}
	return s, nil
}

type Advertiser struct {
	cfg        Config
	clock      clockwork.Clock
	register   RegisterFunc
	interfaces func() ([]net.Interface, error)
	server     Server
	cancel     context.CancelFunc
	instance   string
	stopped    bool
	mu         syncutil.Mutex
}

func New(cfg Config, clock clockwork.Clock) *Advertiser {
	return &Advertiser{
		cfg:        cfg,
		clock:      clock,
		register:   zeroconfRegister,
		interfaces: net.Interfaces,
	}
}

// Start advertises the API. When no usable interface is up yet it keeps
// retrying in the background for a while. Only configuration problems are
// returned as errors.
func (a *Advertiser) Start() error {
	if !a.cfg.DiscoveryEnabled() {
		log.Debug().Msg("mdns discovery disabled")
		return nil
	}

	port, err := a.cfg.APIPort()
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.instance = instanceName(a.cfg.DiscoveryInstanceName())
	a.mu.Unlock()

	if a.tryRegister(port) {
		return nil
	}

	log.Info().
		Dur("retryInterval", retryInterval).
		Msg("mdns registration failed, retrying in background")

	ctx, cancel := context.WithTimeout(context.Background(), maxRetryDuration)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	go a.retry(ctx, port)
	return nil
}

func (a *Advertiser) tryRegister(port int) bool {
	all, err := a.interfaces()
	if err != nil {
		log.Debug().Err(err).Msg("failed to list network interfaces")
		return false
	}
	ifaces := filterInterfaces(all)
	if len(ifaces) == 0 {
		log.Debug().Msg("no interface suitable for mdns")
		return false
	}

	a.mu.Lock()
	instance := a.instance
	a.mu.Unlock()

	server, err := a.register(
		instance,
		ServiceType,
		serviceDomain,
		port,
		[]string{"version=" + config.AppVersion, "path=/api"},
		ifaces,
	)
	if err != nil {
		log.Debug().Err(err).Msg("mdns registration attempt failed")
		return false
	}

	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		server.Shutdown()
		return false
	}
	a.server = server
	a.mu.Unlock()

	log.Info().
		Str("instance", instance).
		Int("port", port).
		Msg("advertising api over mdns")
	return true
}

func (a *Advertiser) retry(ctx context.Context, port int) {
	ticker := a.clock.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			if a.tryRegister(port) {
				return
			}
		case <-ctx.Done():
			log.Warn().Msg("gave up advertising api over mdns")
			return
		}
	}
}

// Stop withdraws the advertisement. It is safe to call more than once.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopped = true
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// Instance returns the advertised instance name, or "" before Start.
func (a *Advertiser) Instance() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.instance
}

func instanceName(configured string) string {
	if configured != "" {
		return configured
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return config.AppName
	}
	return strings.TrimSuffix(host, ".local")
}

func filterInterfaces(ifaces []net.Interface) []net.Interface {
	var out []net.Interface
	for _, iface := range ifaces {
		switch {
		case iface.Flags&net.FlagUp == 0,
			iface.Flags&net.FlagLoopback != 0,
			iface.Flags&net.FlagMulticast == 0,
			isVirtual(iface.Name):
			continue
		}
		out = append(out, iface)
	}
	return out
}

func isVirtual(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range virtualPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
