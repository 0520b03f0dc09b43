//go:build deadlock

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

// Package syncutil provides the mutexes used across the module. Building
// with -tags=deadlock swaps in go-deadlock so lock ordering bugs in the
// engine and state holder panic instead of hanging.
package syncutil

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

// DeadlockEnabled reports whether the go-deadlock detector is compiled in.
const DeadlockEnabled = true

// LockTimeout is how long a lock may be waited on before the detector
// reports it. Persistence holds the engine lock across two file writes, so
// this stays well above the slowest expected disk sync.
const LockTimeout = 15 * time.Second

func init() {
	deadlock.Opts.DeadlockTimeout = LockTimeout
}

type Mutex struct {
	deadlock.Mutex
}

type RWMutex struct {
	deadlock.RWMutex
}
