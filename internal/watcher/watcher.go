// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package watcher watches a source or deployment tree for changes and
// triggers a rebuild-and-reload pass, debounced so a burst of editor
// writes collapses into one pass.
package watcher

import (
	iofs "io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"rivaas.dev/pluginhost/internal/hostlog"
)

// DefaultDebounce matches the dev-mode source watch interval; prod
// watches over the deployment directory use DefaultBuildDebounce.
const DefaultDebounce = 400 * time.Millisecond

// DefaultBuildDebounce matches the shorter interval used when watching
// already-built artifacts rather than source trees being edited.
const DefaultBuildDebounce = 300 * time.Millisecond

// Config configures one Watcher instance.
type Config struct {
	// Dir is the directory tree watched recursively.
	Dir string
	// Debounce is how long to wait after the last relevant event
	// before firing OnChange, coalescing bursts of writes.
	Debounce time.Duration
	// OnChange runs once per debounced burst of relevant events.
	OnChange func()
	Log      hostlog.Logger
}

// Watcher wraps an fsnotify.Watcher with suffix filtering and
// debouncing, mirroring the teacher's certificate watcher shape.
type Watcher struct {
	mu      sync.Mutex
	config  Config
	fs      *fsnotify.Watcher
	stopCh  chan struct{}
	running bool

	debounceMu sync.Mutex
	timer      *time.Timer
}

// New builds a Watcher; call Start to begin watching.
func New(config Config) *Watcher {
	if config.Debounce == 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Log == nil {
		config.Log = hostlog.Default()
	}
	return &Watcher{config: config}
}

// Start begins watching Dir recursively. It is a no-op if already
// running.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := addRecursive(fs, w.config.Dir); err != nil {
		fs.Close()
		return err
	}

	w.fs = fs
	w.stopCh = make(chan struct{})
	w.running = true

	go w.loop(fs.Events, fs.Errors, w.stopCh)
	return nil
}

// Stop halts watching. Safe to call even if Start was never called.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	close(w.stopCh)
	w.fs.Close()
	w.running = false
}

func (w *Watcher) loop(events <-chan fsnotify.Event, errors <-chan error, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if shouldIgnore(ev.Name) {
				continue
			}
			w.scheduleChange()
		case err, ok := <-errors:
			if !ok {
				return
			}
			w.config.Log.Warn("watcher error", "dir", w.config.Dir, "error", err)
		}
	}
}

// scheduleChange (re)arms a single debounce timer so a burst of events
// collapses into one OnChange call, fired config.Debounce after the
// last event in the burst.
func (w *Watcher) scheduleChange() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.Debounce, func() {
		if w.config.OnChange != nil {
			w.config.OnChange()
		}
	})
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // best-effort: unreadable subtrees are skipped, not fatal
		}
		if d.IsDir() {
			_ = fsw.Add(path)
		}
		return nil
	})
}

func shouldIgnore(path string) bool {
	lower := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(lower, ".tmp") ||
		strings.HasSuffix(lower, ".swp") ||
		strings.HasSuffix(lower, "~") ||
		strings.HasSuffix(lower, ".crdownload")
}
