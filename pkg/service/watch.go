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
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Reloader re-reads the mappings file. Engine implements it.
type Reloader interface {
	ReloadMappings() (bool, error)
}

// Watcher reloads the mappings file after it is edited outside the
// process. Bursts of events, such as an editor's write-then-rename, are
// collapsed into a single reload once the file has been quiet for the
// debounce interval.
type Watcher struct {
	reloader Reloader
	clock    clockwork.Clock
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	path     string
	debounce time.Duration
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewWatcher(reloader Reloader, path string, clock clockwork.Clock, debounce time.Duration) *Watcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Watcher{
		reloader: reloader,
		clock:    clock,
		path:     filepath.Clean(path),
		debounce: debounce,
		stopChan: make(chan struct{}),
	}
}

// Start watches the file's parent directory, so replacing the file by
// rename is seen too. It returns once the watch is in place.
func (w *Watcher) Start(ctx context.Context) error {
	if w.path == "" || w.path == "." {
		return errors.New("mappings path not set")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.watcher = watcher

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx, watcher.Events, watcher.Errors)
	}()

	log.Debug().Str("path", w.path).Msg("watching mappings file")
	return nil
}

// Stop ends the watch and waits for the event loop to exit. It is safe to
// call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		if w.watcher != nil {
			_ = w.watcher.Close()
		}
		w.wg.Wait()
	})
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

func (w *Watcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	var timer clockwork.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			log.Trace().Str("op", ev.Op.String()).Msg("mappings file event")
			if timer == nil {
				timer = w.clock.NewTimer(w.debounce)
				timerC = timer.Chan()
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("fsnotify error")
		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	changed, err := w.reloader.ReloadMappings()
	if err != nil {
		log.Error().Err(err).Str("path", w.path).Msg("error reloading mappings file")
		return
	}
	if changed {
		log.Info().Str("path", w.path).Msg("mappings file changed on disk")
	}
}
