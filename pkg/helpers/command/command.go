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

// Package command provides an abstraction over exec.Command for testability.
package command

import (
	"context"
	"os/exec"
	"time"
)

// DefaultWaitDelay bounds how long Output waits for the child's pipes to
// close after the context is done and the process has been killed.
const DefaultWaitDelay = 500 * time.Millisecond

// Executor runs external commands. Query code depends on this interface so
// tests can supply canned output instead of running system utilities.
type Executor interface {
	// Output runs a command and returns its standard output. A non-zero exit
	// returns whatever was written to stdout together with the error.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RealExecutor uses actual exec.Command to execute system commands.
// This is the production implementation used in normal operation.
type RealExecutor struct {
	// WaitDelay overrides DefaultWaitDelay when non-zero.
	WaitDelay time.Duration
}

func (e *RealExecutor) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = DefaultWaitDelay
	if e != nil && e.WaitDelay > 0 {
		cmd.WaitDelay = e.WaitDelay
	}
	configure(cmd)
	return cmd
}

// Output runs a command and returns its standard output. The process is
// killed when ctx is done.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (e *RealExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return e.command(ctx, name, args...).Output()
}
