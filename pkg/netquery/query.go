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

// Package netquery reads the current Wi-Fi network and the configured
// network locations by running external system utilities. Every failure
// degrades to a fixed value so callers always have something to display.
package netquery

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/LocationChanger/locationchanger-config/pkg/helpers/command"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// UnknownSSID is returned when the current network cannot be determined.
const UnknownSSID = "Unknown"

const (
	DefaultTimeout = 5 * time.Second

	flightSSID      = "ssid"
	flightLocations = "locations"
)

var errNoCommand = errors.New("no command configured")

// FallbackLocations is returned when the location listing cannot be read.
func FallbackLocations() []string {
	return []string{"Automatic", "Home", "Work"}
}

// Commands names the utilities behind each query: the first element is the
// executable, the rest its arguments.
type Commands struct {
	SSID      []string
	Locations []string
}

// Query runs the network queries. It holds no state besides its
// collaborators and is safe for concurrent use; concurrent identical calls
// share one child process.
type Query struct {
	exec    command.Executor
	group   *singleflight.Group
	cmds    Commands
	timeout time.Duration
}

// New builds a Query. Empty commands fall back to DefaultCommands and a
// non-positive timeout to DefaultTimeout.
//
//nolint:gocritic // commands copied so callers can't mutate them later
func New(exec command.Executor, cmds Commands, timeout time.Duration) *Query {
	defaults := DefaultCommands()
	if len(cmds.SSID) == 0 {
		cmds.SSID = defaults.SSID
	}
	if len(cmds.Locations) == 0 {
		cmds.Locations = defaults.Locations
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Query{
		exec:    exec,
		group:   &singleflight.Group{},
		cmds:    Commands{SSID: slices.Clone(cmds.SSID), Locations: slices.Clone(cmds.Locations)},
		timeout: timeout,
	}
}

func (q *Query) run(ctx context.Context, argv []string) ([]byte, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errNoCommand
	}

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	out, err := q.exec.Output(ctx, argv[0], argv[1:]...)
	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	return out, err //nolint:wrapcheck // logged by callers with the command name
}

// CurrentSSID returns the SSID of the network the host is associated with,
// or UnknownSSID. A caller whose ctx ends early gets UnknownSSID while the
// shared query keeps running for the others.
func (q *Query) CurrentSSID(ctx context.Context) string {
	ch := q.group.DoChan(flightSSID, func() (any, error) {
		out, err := q.run(context.WithoutCancel(ctx), q.cmds.SSID)
		if err != nil {
			log.Warn().Err(err).Strs("command", q.cmds.SSID).Msg("current ssid query degraded")
			// a non-zero exit can still carry a usable report
			if len(out) == 0 || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return UnknownSSID, nil
			}
		}

		ssid, ok := ParseCurrentSSID(string(out))
		if !ok {
			log.Debug().Msg("current network marker not found in query output")
			return UnknownSSID, nil
		}
		return ssid, nil
	})

	select {
	case <-ctx.Done():
		return UnknownSSID
	case res := <-ch:
		ssid, ok := res.Val.(string)
		if !ok {
			return UnknownSSID
		}
		return ssid
	}
}

// AvailableLocations returns the configured network locations in the order
// the utility lists them, or FallbackLocations when the listing fails or
// ctx ends first.
func (q *Query) AvailableLocations(ctx context.Context) []string {
	ch := q.group.DoChan(flightLocations, func() (any, error) {
		out, err := q.run(context.WithoutCancel(ctx), q.cmds.Locations)
		if err != nil {
			log.Warn().Err(err).Strs("command", q.cmds.Locations).Msg("location listing degraded")
			return FallbackLocations(), nil
		}
		return ParseLocations(string(out)), nil
	})

	select {
	case <-ctx.Done():
		return FallbackLocations()
	case res := <-ch:
		locations, ok := res.Val.([]string)
		if !ok {
			return FallbackLocations()
		}
		// results are shared between concurrent callers
		return slices.Clone(locations)
	}
}
