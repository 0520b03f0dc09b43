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

// Package cli implements the command line front end: flag definitions,
// environment setup and one action per flag.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/LocationChanger/locationchanger-config/internal/telemetry"
	"github.com/LocationChanger/locationchanger-config/pkg/config"
	"github.com/LocationChanger/locationchanger-config/pkg/helpers"
	"github.com/LocationChanger/locationchanger-config/pkg/helpers/command"
	"github.com/LocationChanger/locationchanger-config/pkg/mappings"
	"github.com/LocationChanger/locationchanger-config/pkg/netquery"
	"github.com/LocationChanger/locationchanger-config/pkg/service"
	"github.com/LocationChanger/locationchanger-config/pkg/service/state"
	"github.com/LocationChanger/locationchanger-config/pkg/settings"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	// ErrUsage is returned for flag values that cannot be acted on.
	ErrUsage = errors.New("usage error")
	// ErrNoCurrentSSID is returned when -add leaves the SSID empty and the
	// current network cannot be determined.
	ErrNoCurrentSSID = errors.New("current network unknown")
)

type Flags struct {
	set           *flag.FlagSet
	Version       *bool
	Status        *bool
	List          *bool
	Add           *string
	Remove        *string
	Locations     *bool
	SSID          *bool
	Fallback      *string
	Notifications *string
	LogLevel      *string
	ExportCSV     *string
	ImportCSV     *string
	ExportYAML    *string
	ImportYAML    *string
	Save          *bool
	Serve         *bool
	Daemon        *bool
}

// SetupFlags defines every flag on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		set: fs,
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Status: fs.Bool(
			"status",
			false,
			"print current network, fallback location and mapping count",
		),
		List: fs.Bool(
			"list",
			false,
			"list SSID mappings",
		),
		Add: fs.String(
			"add",
			"",
			"add a mapping, given as LOCATION=SSID (empty SSID uses the current network)",
		),
		Remove: fs.String(
			"remove",
			"",
			"remove a mapping, given as its ID or LOCATION=SSID",
		),
		Locations: fs.Bool(
			"locations",
			false,
			"list available network locations",
		),
		SSID: fs.Bool(
			"ssid",
			false,
			"print the current Wi-Fi network",
		),
		Fallback: fs.String(
			"fallback",
			"",
			"set the fallback location",
		),
		Notifications: fs.String(
			"notifications",
			"",
			"enable or disable notifications (on/off)",
		),
		LogLevel: fs.String(
			"log-level",
			"",
			"set the log level (debug, info, warning, error)",
		),
		ExportCSV: fs.String(
			"export-csv",
			"",
			"write mappings to a CSV file",
		),
		ImportCSV: fs.String(
			"import-csv",
			"",
			"append mappings from a CSV file",
		),
		ExportYAML: fs.String(
			"export-yaml",
			"",
			"write mappings to a YAML file",
		),
		ImportYAML: fs.String(
			"import-yaml",
			"",
			"append mappings from a YAML file",
		),
		Save: fs.Bool(
			"save",
			false,
			"write the current configuration to both files",
		),
		Serve: fs.Bool(
			"serve",
			false,
			"watch the mappings file and run the local API until interrupted",
		),
		Daemon: fs.Bool(
			"daemon",
			false,
			"also log to stderr",
		),
	}
}

func (f *Flags) isFlagPassed(name string) bool {
	found := false
	f.set.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Pre parses args and handles flags that need no environment. It reports
// whether the program is done.
func (f *Flags) Pre(args []string, out io.Writer) (bool, error) {
	if err := f.set.Parse(args); err != nil {
		return true, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if *f.Version {
		_, _ = fmt.Fprintf(out, "LocationChanger Config v%s\n", config.AppVersion)
		return true, nil
	}
	return false, nil
}

// Setup initializes logging, the app config and error reporting.
//
//nolint:gocritic // config struct copied for immutability
func Setup(afs afero.Fs, defaults config.Values, writers []io.Writer) (*config.Instance, error) {
	if err := helpers.InitLogging(helpers.LogDir(), writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(afs, helpers.ConfigDir(), defaults)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	helpers.ApplyLogLevel(settings.DefaultLogLevel, cfg.DebugLogging())

	if err := telemetry.Init(cfg.ErrorReporting(), cfg.ErrorReportingDSN()); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg, nil
}

// NewEngine wires an engine from the app config.
func NewEngine(afs afero.Fs, cfg *config.Instance, st *state.State) *service.Engine {
	settingsPath := cfg.SettingsFile()
	if settingsPath == "" {
		settingsPath = helpers.DefaultSettingsPath()
	}

	query := netquery.New(
		&command.RealExecutor{},
		netquery.Commands{SSID: cfg.SSIDCommand(), Locations: cfg.LocationsCommand()},
		cfg.QueryTimeout(),
	)

	return service.New(service.Options{
		Fs:           afs,
		State:        st,
		Store:        settings.NewStore(afs, settingsPath),
		Query:        query,
		MappingsPath: cfg.MappingsFile(),
		DebugLogging: cfg.DebugLogging(),
	})
}

// Env is what the flag actions run against.
type Env struct {
	Fs     afero.Fs
	Cfg    *config.Instance
	Engine *service.Engine
	Out    io.Writer
}

// Post runs the action for whichever flag was given. The engine must
// already be loaded. It reports false when no action flag was passed.
func (f *Flags) Post(ctx context.Context, env Env) (bool, error) {
	switch {
	case *f.Status:
		return true, printStatus(ctx, env)
	case *f.List:
		return true, printMappings(env)
	case f.isFlagPassed("add"):
		return true, addMapping(ctx, env, *f.Add)
	case f.isFlagPassed("remove"):
		return true, removeMapping(env, *f.Remove)
	case *f.Locations:
		for _, l := range env.Engine.AvailableLocations(ctx) {
			_, _ = fmt.Fprintln(env.Out, l)
		}
		return true, nil
	case *f.SSID:
		_, _ = fmt.Fprintln(env.Out, env.Engine.CurrentSSID(ctx))
		return true, nil
	case f.isFlagPassed("fallback"):
		if err := env.Engine.SetFallbackLocation(*f.Fallback); err != nil {
			return true, err
		}
		hintUnknownLocation(ctx, env, strings.TrimSpace(*f.Fallback))
		return true, nil
	case f.isFlagPassed("notifications"):
		enabled, err := parseSwitch(*f.Notifications)
		if err != nil {
			return true, err
		}
		return true, env.Engine.SetEnableNotifications(enabled)
	case f.isFlagPassed("log-level"):
		return true, env.Engine.SetLogLevel(*f.LogLevel)
	case f.isFlagPassed("export-csv"):
		return true, exportMappings(env, *f.ExportCSV, mappings.ExportCSV)
	case f.isFlagPassed("import-csv"):
		return true, importMappings(env, *f.ImportCSV, mappings.ImportCSV)
	case f.isFlagPassed("export-yaml"):
		return true, exportMappings(env, *f.ExportYAML, mappings.ExportYAML)
	case f.isFlagPassed("import-yaml"):
		return true, importMappings(env, *f.ImportYAML, mappings.ImportYAML)
	case *f.Save:
		if err := env.Engine.Save(); err != nil {
			return true, err
		}
		_, _ = fmt.Fprintln(env.Out, "Configuration saved")
		return true, nil
	}
	return false, nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: expected on or off, got %q", ErrUsage, s)
	}
	return b, nil
}

func printStatus(ctx context.Context, env Env) error {
	st := env.Engine.Status(ctx)
	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Current network:\t%s\n", st.CurrentSSID)
	_, _ = fmt.Fprintf(tw, "Fallback location:\t%s\n", st.FallbackLocation)
	_, _ = fmt.Fprintf(tw, "Mappings:\t%d\n", st.MappingsCount)
	_, _ = fmt.Fprintf(tw, "Notifications:\t%t\n", st.EnableNotifications)
	_, _ = fmt.Fprintf(tw, "Mappings file:\t%s\n", env.Engine.MappingsPath())
	_, _ = fmt.Fprintf(tw, "Settings file:\t%s\n", env.Engine.SettingsPath())
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write status: %w", err)
	}
	return nil
}

func printMappings(env Env) error {
	ms := env.Engine.Mappings()
	if len(ms) == 0 {
		_, _ = fmt.Fprintln(env.Out, "No mappings")
		return nil
	}

	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tLOCATION\tSSID")
	for _, m := range ms {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, m.Location, m.SSID)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write mappings: %w", err)
	}
	return nil
}

func addMapping(ctx context.Context, env Env, value string) error {
	location, ssid, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("%w: -add expects LOCATION=SSID", ErrUsage)
	}
	if strings.TrimSpace(ssid) == "" {
		ssid = env.Engine.CurrentSSID(ctx)
		if ssid == netquery.UnknownSSID {
			return fmt.Errorf("%w: give the SSID explicitly", ErrNoCurrentSSID)
		}
	}

	m, err := env.Engine.AddMapping(location, ssid)
	if errors.Is(err, service.ErrInvalidMapping) {
		return err
	}
	if m.ID != "" {
		_, _ = fmt.Fprintf(env.Out, "Added %s -> %s (%s)\n", m.SSID, m.Location, m.ID)
		hintUnknownLocation(ctx, env, m.Location)
	}
	return err
}

// hintUnknownLocation warns when a location is not one the system knows.
// The value is kept regardless, locations may be created later.
func hintUnknownLocation(ctx context.Context, env Env, location string) {
	if location == "" {
		return
	}
	available := env.Engine.AvailableLocations(ctx)
	if slices.Contains(available, location) {
		return
	}
	if suggestion, ok := netquery.ClosestLocation(location, available); ok {
		_, _ = fmt.Fprintf(env.Out, "Note: location %q does not exist, did you mean %q?\n", location, suggestion)
		return
	}
	_, _ = fmt.Fprintf(env.Out, "Note: location %q does not exist yet\n", location)
}

// removeMapping accepts an ID or a LOCATION=SSID pair. IDs are assigned on
// every load, so from the command line the pair is usually what is known;
// it removes the first matching mapping.
func removeMapping(env Env, value string) error {
	id := value
	if location, ssid, ok := strings.Cut(value, "="); ok {
		id = ""
		for _, m := range env.Engine.Mappings() {
			if m.Location == strings.TrimSpace(location) && m.SSID == strings.TrimSpace(ssid) {
				id = m.ID
				break
			}
		}
	}

	removed := false
	if id != "" {
		var err error
		removed, err = env.Engine.RemoveMapping(id)
		if err != nil {
			return err
		}
	}
	if !removed {
		_, _ = fmt.Fprintf(env.Out, "No mapping matches %s\n", value)
		return nil
	}
	_, _ = fmt.Fprintf(env.Out, "Removed %s\n", value)
	return nil
}

func exportMappings(env Env, path string, encode func(io.Writer, []mappings.Mapping) error) error {
	f, err := env.Fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	ms := env.Engine.Mappings()
	if err := encode(f, ms); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(env.Out, "Exported %d mappings to %s\n", len(ms), path)
	return nil
}

func importMappings(env Env, path string, decode func(io.Reader) ([]mappings.Mapping, error)) error {
	f, err := env.Fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	ms, err := decode(f)
	if err != nil {
		return err
	}

	added, err := env.Engine.AddMappings(ms)
	if errors.Is(err, service.ErrInvalidMapping) {
		return err
	}
	_, _ = fmt.Fprintf(env.Out, "Imported %d mappings from %s\n", len(added), path)
	return err
}
