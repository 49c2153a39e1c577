// Copyright 2025 walteh LLC
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

package queue

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/fileq/pkg/config"
	"github.com/walteh/fileq/pkg/fsx"
	"gitlab.com/tozd/go/errors"
)

const (
	// speedInterval is how often throughput and ETA are recomputed for the
	// running operation.
	speedInterval = time.Second

	// pausePollInterval bounds how long a paused executor sleeps between
	// status checks.
	pausePollInterval = 25 * time.Millisecond

	// conflictPollInterval bounds how long the conflict wait sleeps between
	// status checks.
	conflictPollInterval = 25 * time.Millisecond

	// idleInterval is the worker's fallback poll period when the wake signal
	// is missed.
	idleInterval = 200 * time.Millisecond
)

// 🔧 Options contains configuration for the queue manager
type Options struct {
	// FS is the filesystem all operations execute against. Defaults to the
	// operating system filesystem.
	FS afero.Fs

	// Trash receives non-permanent deletes. Defaults to a directory trash
	// under the settings' trash dir.
	Trash fsx.Trash

	// Settings are the initial execution settings. Defaults to
	// config.DefaultSettings().
	Settings *config.Settings
}

// 🎮 Manager owns the pending set, the running slot, and the history ring.
// All mutation of operation state goes through its lock.
type Manager struct {
	mu       sync.Mutex
	fsys     afero.Fs
	trash    fsx.Trash
	settings *config.Settings

	pending []*Operation // sorted ascending by priority
	running *Operation
	history []*Operation // oldest first, trimmed at the front
	byID    map[uuid.UUID]*Operation

	subs    map[int]chan Event
	nextSub int

	wake    chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
	closed  bool
}

// 🏭 NewManager creates a new queue manager
func NewManager(opts Options) *Manager {
	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	trash := opts.Trash
	if trash == nil {
		dir := settings.TrashDir
		if dir == "" {
			dir = fsx.DefaultTrashDir()
		}
		trash = fsx.NewDirTrash(fsys, dir)
	}

	return &Manager{
		fsys:     fsys,
		trash:    trash,
		settings: settings,
		byID:     make(map[uuid.UUID]*Operation),
		subs:     make(map[int]chan Event),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// 🚀 Start launches the background worker and the throughput ticker. Calling
// it more than once has no effect. The context's logger is used for all
// background logging; cancelling the context stops both loops.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started || m.closed {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	m.wg.Add(2)
	go m.workerLoop(ctx)
	go m.speedLoop(ctx)
}

// 🛑 Close shuts the manager down. Any in-flight operation is unwound at its
// next cooperative checkpoint and filed into history as cancelled. Close is
// idempotent and returns once both background loops have exited.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.done)
	m.mu.Unlock()

	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
}

// 📥 Enqueue validates req, computes its size estimate, and appends it to the
// pending set with status queued. The returned snapshot carries the assigned
// id. Enqueue never blocks on execution.
func (m *Manager) Enqueue(ctx context.Context, req Request) (Snapshot, error) {
	logger := zerolog.Ctx(ctx)

	if len(req.Sources) == 0 {
		return Snapshot{}, errors.Errorf("at least one source path is required")
	}
	for _, src := range req.Sources {
		if src == "" {
			return Snapshot{}, errors.Errorf("source path is empty")
		}
	}
	switch req.Kind {
	case KindCopy, KindMove:
		if req.Destination == "" {
			return Snapshot{}, errors.Errorf("destination is required for %s", req.Kind)
		}
	case KindDelete:
	default:
		return Snapshot{}, errors.Errorf("unknown operation kind %d", req.Kind)
	}

	sources := make([]string, len(req.Sources))
	for i, src := range req.Sources {
		sources[i] = filepath.Clean(src)
	}

	// Exclude patterns filter copy contents; move and delete always take
	// whole entries so the counters stay in step with what actually moves.
	var excludes []string
	if req.Kind == KindCopy && len(req.Excludes) > 0 {
		if err := fsx.ValidatePatterns(req.Excludes); err != nil {
			return Snapshot{}, err
		}
		excludes = append([]string(nil), req.Excludes...)
	}

	destination := ""
	if req.Destination != "" {
		destination = filepath.Clean(req.Destination)
	}

	// The estimate runs outside the lock. Totals are fixed here and never
	// recomputed mid-run.
	totals := fsx.Estimate(ctx, m.fsys, sources, excludes)

	op := &Operation{
		id:          uuid.New(),
		kind:        req.Kind,
		sources:     sources,
		destination: destination,
		permanent:   req.Permanent,
		excludes:    excludes,
		tags:        make(map[string]string, len(req.Tags)),
		status:      StatusQueued,
		totalBytes:  totals.Bytes,
		totalFiles:  totals.Files,
		createdAt:   time.Now(),
	}
	for k, v := range req.Tags {
		op.tags[k] = v
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Snapshot{}, errors.Errorf("queue is shut down")
	}
	op.priority = len(m.pending)
	m.pending = append(m.pending, op)
	m.renumberLocked()
	m.byID[op.id] = op
	snap := m.snapshotLocked(op)
	m.emitProgressLocked(op)
	m.mu.Unlock()

	m.wakeWorker()

	logger.Debug().
		Str("id", op.id.String()).
		Str("kind", op.kind.String()).
		Int64("total_bytes", totals.Bytes).
		Int("total_files", totals.Files).
		Msg("operation enqueued")

	return snap, nil
}

// 🔍 Get returns a snapshot of the operation with the given id
func (m *Manager) Get(id uuid.UUID) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	op, ok := m.byID[id]
	if !ok {
		return Snapshot{}, false
	}
	return m.snapshotLocked(op), true
}

// 📋 Pending returns snapshots of the pending set in ascending priority order
func (m *Manager) Pending() []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Snapshot, 0, len(m.pending))
	for _, op := range m.pending {
		out = append(out, m.snapshotLocked(op))
	}
	return out
}

// 🏃 Running returns a snapshot of the operation occupying the running slot
func (m *Manager) Running() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running == nil {
		return Snapshot{}, false
	}
	return m.snapshotLocked(m.running), true
}

// 📚 History returns the most recently finished operations, newest first.
// A count of zero or less returns the whole ring.
func (m *Manager) History(count int) []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if count <= 0 || count > len(m.history) {
		count = len(m.history)
	}
	out := make([]Snapshot, 0, count)
	for i := len(m.history) - 1; i >= 0 && len(out) < count; i-- {
		out = append(out, m.snapshotLocked(m.history[i]))
	}
	return out
}

// ⚙️ UpdateSettings replaces the execution settings. The change applies to
// operations that start after the call; the running operation keeps the
// snapshot it started with.
func (m *Manager) UpdateSettings(settings *config.Settings) error {
	if settings == nil {
		return errors.Errorf("settings are required")
	}
	if err := settings.Validate(); err != nil {
		return errors.Errorf("validating settings: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
	return nil
}

// settingsSnapshot returns a value copy of the current settings for one run.
func (m *Manager) settingsSnapshot() config.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.settings
}

// renumberLocked rewrites pending priorities to the contiguous sequence
// 0..N-1 matching list order. Callers must hold m.mu.
func (m *Manager) renumberLocked() {
	for i, op := range m.pending {
		op.priority = i
	}
}

// fileToHistoryLocked appends op to the history ring and trims the oldest
// entries beyond the configured bound. Callers must hold m.mu.
func (m *Manager) fileToHistoryLocked(op *Operation) {
	m.history = append(m.history, op)

	limit := m.settings.MaxHistorySize
	if limit <= 0 {
		limit = config.DefaultMaxHistorySize
	}
	for len(m.history) > limit {
		evicted := m.history[0]
		m.history = m.history[1:]
		delete(m.byID, evicted.id)
	}
}

// wakeWorker nudges the worker without blocking when a nudge is already
// pending.
func (m *Manager) wakeWorker() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}
