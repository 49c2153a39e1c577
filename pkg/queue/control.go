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
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Control calls never return errors for ineligible targets: an operation in
// the wrong state is left untouched and the call is logged at debug level.
// UI callers race against the worker, so a stale button press must not
// surface as a failure.

// ⏸️ Pause suspends the running operation at its next checkpoint. Legal only
// from running.
func (m *Manager) Pause(ctx context.Context, id uuid.UUID) {
	logger := zerolog.Ctx(ctx)

	m.mu.Lock()
	op, ok := m.byID[id]
	if !ok || op.status != StatusRunning {
		m.mu.Unlock()
		logger.Debug().Str("id", id.String()).Msg("pause ignored")
		return
	}
	op.status = StatusPaused
	m.emitProgressLocked(op)
	m.mu.Unlock()

	logger.Debug().Str("id", id.String()).Msg("operation paused")
}

// ▶️ Resume sets a paused operation back to queued. The executor holding the
// running slot observes the change on its next poll and promotes the
// operation to running without losing progress.
func (m *Manager) Resume(ctx context.Context, id uuid.UUID) {
	logger := zerolog.Ctx(ctx)

	m.mu.Lock()
	op, ok := m.byID[id]
	if !ok || op.status != StatusPaused {
		m.mu.Unlock()
		logger.Debug().Str("id", id.String()).Msg("resume ignored")
		return
	}
	op.status = StatusQueued
	m.emitProgressLocked(op)
	m.mu.Unlock()

	logger.Debug().Str("id", id.String()).Msg("operation resumed")
}

// 🚫 Cancel stops an operation. The running occupant is marked cancelled in
// place and unwinds at its next checkpoint; a queued operation leaves the
// pending set immediately. Cancellation is cooperative: a partially written
// destination is not cleaned up.
func (m *Manager) Cancel(ctx context.Context, id uuid.UUID) {
	logger := zerolog.Ctx(ctx)

	m.mu.Lock()
	op, ok := m.byID[id]
	if !ok || op.status.Terminal() {
		m.mu.Unlock()
		logger.Debug().Str("id", id.String()).Msg("cancel ignored")
		return
	}

	if m.running == op {
		// Running, paused, or waiting on a conflict. The executor observes
		// the status and unwinds; completion is emitted when it finishes.
		op.status = StatusCancelled
		op.conflict = nil
		m.emitProgressLocked(op)
		m.mu.Unlock()
		logger.Debug().Str("id", id.String()).Msg("cancelling running operation")
		return
	}

	for i, pending := range m.pending {
		if pending == op {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			break
		}
	}
	m.renumberLocked()
	op.status = StatusCancelled
	op.completedAt = time.Now()
	m.fileToHistoryLocked(op)
	m.emitCompletionLocked(op)
	m.mu.Unlock()

	logger.Debug().Str("id", id.String()).Msg("queued operation cancelled")
}

// 🔁 Retry re-queues a failed or cancelled operation with its progress
// counters reset. It re-enters the pending set at its previous priority and
// keeps its original size estimate.
func (m *Manager) Retry(ctx context.Context, id uuid.UUID) {
	logger := zerolog.Ctx(ctx)

	m.mu.Lock()
	op, ok := m.byID[id]
	if !ok || (op.status != StatusFailed && op.status != StatusCancelled) {
		m.mu.Unlock()
		logger.Debug().Str("id", id.String()).Msg("retry ignored")
		return
	}

	for i, done := range m.history {
		if done == op {
			m.history = append(m.history[:i], m.history[i+1:]...)
			break
		}
	}

	op.status = StatusQueued
	op.processedBytes = 0
	op.processedFiles = 0
	op.failedFiles = 0
	op.currentFile = ""
	op.bytesPerSec = 0
	op.eta = 0
	op.errMsg = ""
	op.conflict = nil
	op.resolution = ResolutionNone
	op.startedAt = time.Time{}
	op.completedAt = time.Time{}
	op.lastTickBytes = 0

	pos := op.priority
	if pos < 0 {
		pos = 0
	}
	if pos > len(m.pending) {
		pos = len(m.pending)
	}
	m.pending = append(m.pending[:pos], append([]*Operation{op}, m.pending[pos:]...)...)
	m.renumberLocked()
	m.emitProgressLocked(op)
	m.mu.Unlock()

	m.wakeWorker()

	logger.Debug().Str("id", id.String()).Int("priority", pos).Msg("operation requeued")
}

// 🤝 ResolveConflict answers a pending destination conflict. The operation
// returns to queued; the executor's conflict wait unblocks on its next poll
// and applies the resolution.
func (m *Manager) ResolveConflict(ctx context.Context, id uuid.UUID, resolution Resolution) {
	logger := zerolog.Ctx(ctx)

	m.mu.Lock()
	op, ok := m.byID[id]
	if !ok || op.status != StatusConflict {
		m.mu.Unlock()
		logger.Debug().Str("id", id.String()).Msg("conflict resolution ignored")
		return
	}
	op.conflict = nil
	op.resolution = resolution
	op.status = StatusQueued
	m.emitProgressLocked(op)
	m.mu.Unlock()

	logger.Debug().
		Str("id", id.String()).
		Str("resolution", resolution.String()).
		Msg("conflict resolved")
}

// 🔀 ChangePriority moves a queued operation to the given position and
// renumbers the pending set so priorities stay contiguous. Positions are
// clamped to the valid range. The running operation is never preempted.
func (m *Manager) ChangePriority(ctx context.Context, id uuid.UUID, position int) {
	logger := zerolog.Ctx(ctx)

	m.mu.Lock()
	op, ok := m.byID[id]
	if !ok || op.status != StatusQueued {
		m.mu.Unlock()
		logger.Debug().Str("id", id.String()).Msg("priority change ignored")
		return
	}

	idx := -1
	for i, pending := range m.pending {
		if pending == op {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Queued status on the running slot means a resume or conflict
		// resolution is in flight; there is nothing to reorder.
		m.mu.Unlock()
		logger.Debug().Str("id", id.String()).Msg("priority change ignored")
		return
	}

	if position < 0 {
		position = 0
	}
	if position >= len(m.pending) {
		position = len(m.pending) - 1
	}

	m.pending = append(m.pending[:idx], m.pending[idx+1:]...)
	m.pending = append(m.pending[:position], append([]*Operation{op}, m.pending[position:]...)...)
	m.renumberLocked()
	m.emitProgressLocked(op)
	m.mu.Unlock()

	logger.Debug().Str("id", id.String()).Int("position", position).Msg("priority changed")
}

// ⏸️ PauseAll pauses the running operation, if any
func (m *Manager) PauseAll(ctx context.Context) {
	for _, id := range m.idsWhere(StatusRunning) {
		m.Pause(ctx, id)
	}
}

// ▶️ ResumeAll resumes every paused operation
func (m *Manager) ResumeAll(ctx context.Context) {
	for _, id := range m.idsWhere(StatusPaused) {
		m.Resume(ctx, id)
	}
}

// 🚫 CancelAll cancels the running operation and every pending one
func (m *Manager) CancelAll(ctx context.Context) {
	for _, id := range m.idsWhere(StatusQueued, StatusRunning, StatusPaused, StatusConflict) {
		m.Cancel(ctx, id)
	}
}

// idsWhere collects the ids of the running slot and pending operations whose
// status matches one of the given values. Ids are gathered under the lock and
// applied outside it, so a racing transition turns into a harmless no-op.
func (m *Manager) idsWhere(statuses ...Status) []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	match := func(op *Operation) bool {
		for _, s := range statuses {
			if op.status == s {
				return true
			}
		}
		return false
	}

	var ids []uuid.UUID
	if m.running != nil && match(m.running) {
		ids = append(ids, m.running.id)
	}
	for _, op := range m.pending {
		if match(op) {
			ids = append(ids, op.id)
		}
	}
	return ids
}
