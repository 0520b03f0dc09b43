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

package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LocationChanger/locationchanger-config/pkg/mappings"
	"github.com/LocationChanger/locationchanger-config/pkg/service/state"
	"github.com/LocationChanger/locationchanger-config/pkg/settings"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type countingReloader struct {
	calls chan struct{}
	err   error
	count atomic.Int32
}

func newCountingReloader() *countingReloader {
	return &countingReloader{calls: make(chan struct{}, 10)}
}

func (r *countingReloader) ReloadMappings() (bool, error) {
	r.count.Add(1)
	r.calls <- struct{}{}
	return r.err == nil, r.err
}

func waitForReload(t *testing.T, r *countingReloader) {
	t.Helper()
	select {
	case <-r.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

const watchedPath = "/etc/locationchanger.conf"

func startLoop(
	t *testing.T,
	w *Watcher,
) (events chan fsnotify.Event, errs chan error, stop func()) {
	t.Helper()
	events = make(chan fsnotify.Event)
	errs = make(chan error)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.run(ctx, events, errs)
	}()
	return events, errs, func() {
		cancel()
		<-done
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	clock := clockwork.NewFakeClock()
	r := newCountingReloader()
	w := NewWatcher(r, watchedPath, clock, 250*time.Millisecond)
	events, _, stop := startLoop(t, w)
	defer stop()

	events <- fsnotify.Event{Name: watchedPath, Op: fsnotify.Create}
	events <- fsnotify.Event{Name: watchedPath, Op: fsnotify.Write}
	events <- fsnotify.Event{Name: watchedPath, Op: fsnotify.Write}
	// an ignored event acts as a barrier: once received, the writes above
	// have all been handled
	events <- fsnotify.Event{Name: "/etc/other.conf", Op: fsnotify.Write}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(100 * time.Millisecond)
	select {
	case <-r.calls:
		t.Fatal("reloaded before the debounce interval elapsed")
	default:
	}

	clock.Advance(200 * time.Millisecond)
	waitForReload(t, r)

	clock.Advance(time.Second)
	assert.Equal(t, int32(1), r.count.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	clock := clockwork.NewFakeClock()
	r := newCountingReloader()
	w := NewWatcher(r, watchedPath, clock, 250*time.Millisecond)
	events, errs, stop := startLoop(t, w)

	events <- fsnotify.Event{Name: "/etc/.locationchanger-tmp-123", Op: fsnotify.Create}
	events <- fsnotify.Event{Name: watchedPath, Op: fsnotify.Chmod}
	errs <- errors.New("queue overflow")
	stop()

	assert.Equal(t, int32(0), r.count.Load())
}

func TestWatcher_ReloadErrorKeepsWatching(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	clock := clockwork.NewFakeClock()
	r := newCountingReloader()
	r.err = errors.New("permission denied")
	w := NewWatcher(r, watchedPath, clock, 10*time.Millisecond)
	events, _, stop := startLoop(t, w)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for range 2 {
		events <- fsnotify.Event{Name: watchedPath, Op: fsnotify.Write}
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(10 * time.Millisecond)
		waitForReload(t, r)
	}
	assert.Equal(t, int32(2), r.count.Load())
}

func TestWatcher_StartStopOnDisk(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	path := filepath.Join(dir, "locationchanger.conf")
	require.NoError(t, os.WriteFile(path, []byte("Home HomeNet\n"), 0o600))

	fs := afero.NewOsFs()
	st, _ := state.NewState()
	defer st.Stop()
	e := New(Options{
		Fs:           fs,
		State:        st,
		Store:        settings.NewStore(fs, filepath.Join(dir, "settings.json")),
		Query:        nil,
		MappingsPath: path,
	})
	e.Load()

	w := NewWatcher(e, path, clockwork.NewRealClock(), 20*time.Millisecond)
	require.NoError(t, w.Start(st.GetContext()))
	defer w.Stop()

	require.NoError(t, mappings.Save(fs, path, []mappings.Mapping{
		mappings.New("Home", "HomeNet"),
		mappings.New("Work", "Office Wi Fi"),
	}))

	assert.Eventually(t, func() bool {
		return len(e.Mappings()) == 2
	}, 5*time.Second, 10*time.Millisecond)

	w.Stop()
	w.Stop()
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	t.Parallel()

	w := NewWatcher(newCountingReloader(), filepath.Join(t.TempDir(), "nope", "lc.conf"), nil, time.Millisecond)
	require.Error(t, w.Start(context.Background()))
	w.Stop()

	require.Error(t, NewWatcher(newCountingReloader(), "", nil, time.Millisecond).Start(context.Background()))
}
