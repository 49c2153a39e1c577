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

	"github.com/rs/zerolog"
)

// workerLoop is the single background worker. It drains the pending set one
// operation at a time and idles on the wake signal when nothing is queued.
// An operation's failure never stops the loop.
func (m *Manager) workerLoop(ctx context.Context) {
	defer m.wg.Done()

	logger := zerolog.Ctx(ctx)
	logger.Debug().Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("worker stopped: context done")
			return
		case <-m.done:
			logger.Debug().Msg("worker stopped: manager closed")
			return
		default:
		}

		op := m.dequeue()
		if op == nil {
			select {
			case <-m.wake:
			case <-time.After(idleInterval):
			case <-ctx.Done():
				logger.Debug().Msg("worker stopped: context done")
				return
			case <-m.done:
				logger.Debug().Msg("worker stopped: manager closed")
				return
			}
			continue
		}

		m.runOne(ctx, op)
	}
}

// speedLoop drives the 1-second throughput ticker for the running operation.
func (m *Manager) speedLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(speedInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case <-ticker.C:
			m.updateThroughput()
		}
	}
}

// dequeue claims the first queued operation for the running slot, or nil when
// the slot is busy or nothing is queued. Dequeue order is strictly ascending
// priority among operations queued at the moment the slot frees up.
func (m *Manager) dequeue() *Operation {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running != nil || m.closed {
		return nil
	}

	for i, op := range m.pending {
		if op.status != StatusQueued {
			continue
		}
		m.pending = append(m.pending[:i], m.pending[i+1:]...)
		m.renumberLocked()
		m.running = op
		op.status = StatusRunning
		if op.startedAt.IsZero() {
			op.startedAt = time.Now()
		}
		op.lastTickBytes = op.processedBytes
		m.emitProgressLocked(op)
		return op
	}
	return nil
}

// runOne executes op with a settings snapshot taken at start and files the
// result into history.
func (m *Manager) runOne(ctx context.Context, op *Operation) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("id", op.id.String()).
		Str("kind", op.kind.String()).
		Msg("operation started")

	exec := newExecutor(m, m.settingsSnapshot())
	err := exec.run(ctx, op)
	m.finish(ctx, op, err)
}

// finish maps the executor's outcome onto a terminal status, frees the
// running slot, and moves the operation to history.
func (m *Manager) finish(ctx context.Context, op *Operation, err error) {
	logger := zerolog.Ctx(ctx)

	m.mu.Lock()
	switch {
	case err == nil:
		op.status = StatusCompleted
	case isCancelled(err):
		op.status = StatusCancelled
	default:
		op.status = StatusFailed
		op.errMsg = err.Error()
	}
	op.completedAt = time.Now()
	op.currentFile = ""
	op.bytesPerSec = 0
	op.eta = 0
	op.conflict = nil
	m.running = nil
	m.fileToHistoryLocked(op)
	m.emitCompletionLocked(op)
	status := op.status
	m.mu.Unlock()

	m.wakeWorker()

	evt := logger.Debug()
	if status == StatusFailed {
		evt = logger.Warn().Err(err)
	}
	evt.
		Str("id", op.id.String()).
		Str("kind", op.kind.String()).
		Str("status", status.String()).
		Msg("operation finished")
}
