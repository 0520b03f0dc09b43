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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/LocationChanger/locationchanger-config/internal/telemetry"
	"github.com/LocationChanger/locationchanger-config/pkg/cli"
	"github.com/LocationChanger/locationchanger-config/pkg/config"
	"github.com/LocationChanger/locationchanger-config/pkg/service/state"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)

	done, err := flags.Pre(os.Args[1:], os.Stdout)
	if err != nil || done {
		return err
	}

	if os.Geteuid() == 0 {
		log.Warn().Msg("running as root, files will be owned by root")
	}

	var logWriters []io.Writer
	if *flags.Daemon {
		logWriters = []io.Writer{os.Stderr}
	}

	afs := afero.NewOsFs()
	cfg, err := cli.Setup(afs, config.BaseDefaults, logWriters)
	if err != nil {
		return err
	}
	defer telemetry.Close()

	st, notifications := state.NewState()
	defer st.Stop()

	engine := cli.NewEngine(afs, cfg, st)
	engine.Load()

	env := cli.Env{Fs: afs, Cfg: cfg, Engine: engine, Out: os.Stdout}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handled, err := flags.Post(ctx, env)
	if err != nil {
		return err
	}

	if *flags.Serve {
		log.Info().Str("mappings", engine.MappingsPath()).Msg("serving")
		return cli.Serve(ctx, env, st, notifications)
	}

	if !handled {
		flag.Usage()
	}
	return nil
}
