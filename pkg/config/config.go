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

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/LocationChanger/locationchanger-config/pkg/helpers/fileutil"
	"github.com/LocationChanger/locationchanger-config/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	CfgEnv        = "LOCATIONCHANGER_CFG"
)

type Values struct {
	Files          Files          `toml:"files"`
	API            API            `toml:"api"`
	ErrorReporting ErrorReporting `toml:"error_reporting"`
	Query          Query          `toml:"query"`
	Publishers     Publishers     `toml:"publishers,omitempty"`
	ConfigSchema   int            `toml:"config_schema"`
	DebugLogging   bool           `toml:"debug_logging"`
}

type Files struct {
	// Mappings is the flat file read by the location switcher.
	Mappings string `toml:"mappings"`
	// Settings is the structured settings document. Empty uses the
	// default path under the user's config directory.
	Settings string `toml:"settings,omitempty"`
	Watch    bool   `toml:"watch"`
}

type Query struct {
	SSIDCommand      []string `toml:"ssid_command,omitempty,multiline"`
	LocationsCommand []string `toml:"locations_command,omitempty,multiline"`
	TimeoutSeconds   int      `toml:"timeout_seconds"`
}

type Publishers struct {
	MQTT []MQTTPublisher `toml:"mqtt,omitempty"`
}

// MQTTPublisher forwards notifications to <topic>/<method> on a broker.
// An empty filter forwards every notification.
type MQTTPublisher struct {
	Broker string   `toml:"broker"`
	Topic  string   `toml:"topic"`
	Filter []string `toml:"filter,omitempty,multiline"`
}

type API struct {
	Listen         string   `toml:"listen"`
	InstanceName   string   `toml:"instance_name,omitempty"`
	AllowedOrigins []string `toml:"allowed_origins,omitempty,multiline"`
	Enabled        bool     `toml:"enabled"`
	// Discovery advertises the API over mDNS. Only useful when Listen is
	// not a loopback address.
	Discovery bool `toml:"discovery"`
}

type ErrorReporting struct {
	DSN     string `toml:"dsn,omitempty"`
	Enabled bool   `toml:"enabled"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Files: Files{
		Mappings: DefaultMappingsFile,
		Watch:    true,
	},
	Query: Query{
		TimeoutSeconds: int(DefaultQueryTimeout / time.Second),
	},
	API: API{
		Listen: DefaultAPIListen,
	},
}

type Instance struct {
	fs       afero.Fs
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads the config file from configDir, or the path in the
// LOCATIONCHANGER_CFG environment variable, writing the defaults first when
// no file exists.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(afs afero.Fs, configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		fs:       afs,
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := afs.Stat(cfgPath); errors.Is(err, fs.ErrNotExist) {
		log.Info().Msg("saving new default config to disk")

		err := afs.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fileutil.WriteFileAtomic(c.fs, c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

func (c *Instance) MappingsFile() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Files.Mappings == "" {
		return DefaultMappingsFile
	}
	return c.vals.Files.Mappings
}

func (c *Instance) SetMappingsFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Files.Mappings = path
}

// SettingsFile returns the configured settings document path, or "" when
// the caller should use its default location.
func (c *Instance) SettingsFile() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Files.Settings
}

func (c *Instance) SetSettingsFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Files.Settings = path
}

func (c *Instance) WatchMappings() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Files.Watch
}

// QueryTimeout bounds every external network query. Values below one
// second fall back to the default.
func (c *Instance) QueryTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Query.TimeoutSeconds < 1 {
		return DefaultQueryTimeout
	}
	return time.Duration(c.vals.Query.TimeoutSeconds) * time.Second
}

// SSIDCommand returns the configured association query command, or nil to
// use the platform default.
func (c *Instance) SSIDCommand() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Query.SSIDCommand)
}

// LocationsCommand returns the configured location listing command, or nil
// to use the platform default.
func (c *Instance) LocationsCommand() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Query.LocationsCommand)
}

func (c *Instance) APIEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.API.Enabled
}

func (c *Instance) APIListen() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.API.Listen == "" {
		return DefaultAPIListen
	}
	return c.vals.API.Listen
}

// APIPort returns the port part of the listen address.
func (c *Instance) APIPort() (int, error) {
	_, port, err := net.SplitHostPort(c.APIListen())
	if err != nil {
		return 0, fmt.Errorf("invalid api listen address: %w", err)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return 0, fmt.Errorf("invalid api port %q: %w", port, err)
	}
	return n, nil
}

func (c *Instance) DiscoveryEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.API.Enabled && c.vals.API.Discovery
}

// DiscoveryInstanceName is the configured mDNS instance name, or "" to use
// the host name.
func (c *Instance) DiscoveryInstanceName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.API.InstanceName
}

func (c *Instance) AllowedOrigins() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.API.AllowedOrigins)
}

// MQTTPublishers returns the configured publishers that name both a broker
// and a topic.
func (c *Instance) MQTTPublishers() []MQTTPublisher {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]MQTTPublisher, 0, len(c.vals.Publishers.MQTT))
	for _, p := range c.vals.Publishers.MQTT {
		if p.Broker == "" || p.Topic == "" {
			continue
		}
		p.Filter = slices.Clone(p.Filter)
		out = append(out, p)
	}
	return out
}

func (c *Instance) ErrorReporting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.ErrorReporting.Enabled && c.vals.ErrorReporting.DSN != ""
}

func (c *Instance) ErrorReportingDSN() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.ErrorReporting.DSN
}
