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
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/fileq/pkg/config"
	"github.com/walteh/fileq/pkg/fsx"
	"gitlab.com/tozd/go/errors"
)

// errCancelled unwinds the executor when an operation is cancelled or the
// manager shuts down. It never reaches callers; finish translates it into
// the cancelled status.
var errCancelled = errors.Base("operation cancelled")

func isCancelled(err error) bool {
	return errors.Is(err, errCancelled)
}

// ⚙️ executor performs the byte-level work for exactly one operation. It owns
// a settings snapshot and a transfer buffer for the duration of the run and
// reports all progress through the manager.
type executor struct {
	m        *Manager
	fsys     afero.Fs
	trash    fsx.Trash
	settings config.Settings
	buf      []byte
}

func newExecutor(m *Manager, settings config.Settings) *executor {
	size := settings.BufferSize
	if size <= 0 {
		size = config.DefaultBufferSize
	}
	return &executor{
		m:        m,
		fsys:     m.fsys,
		trash:    m.trash,
		settings: settings,
		buf:      make([]byte, size),
	}
}

// run dispatches on the operation kind and returns nil, errCancelled, or the
// error that failed the operation.
func (e *executor) run(ctx context.Context, op *Operation) error {
	switch op.kind {
	case KindCopy:
		return e.runCopy(ctx, op)
	case KindMove:
		return e.runMove(ctx, op)
	case KindDelete:
		return e.runDelete(ctx, op)
	default:
		return errors.Errorf("unknown operation kind %d", op.kind)
	}
}

// checkpoint is the executor's cooperative suspension point, consulted before
// every chunk and every entry. It blocks while the operation is paused,
// reports cancellation and shutdown, and promotes a queued operation (after
// resume or conflict resolution) back to running.
func (e *executor) checkpoint(ctx context.Context, op *Operation) error {
	for {
		select {
		case <-ctx.Done():
			return errCancelled
		case <-e.m.done:
			return errCancelled
		default:
		}

		switch e.m.opStatus(op) {
		case StatusCancelled:
			return errCancelled
		case StatusPaused:
			select {
			case <-time.After(pausePollInterval):
			case <-ctx.Done():
				return errCancelled
			case <-e.m.done:
				return errCancelled
			}
		case StatusQueued:
			e.m.markRunning(op)
			return nil
		default:
			return nil
		}
	}
}

// ensureDir creates the destination directory for copy and move operations.
func (e *executor) ensureDir(path string) error {
	if err := e.fsys.MkdirAll(path, 0o755); err != nil {
		return errors.Errorf("creating destination directory %s: %w", path, err)
	}
	return nil
}

// preserveMetadata applies timestamps and permission bits from src onto dest
// according to the settings. Metadata is best effort: a filesystem that
// cannot apply it logs a warning and the transfer stands.
func (e *executor) preserveMetadata(ctx context.Context, srcInfo os.FileInfo, dest string) {
	logger := zerolog.Ctx(ctx)

	if e.settings.PreserveAttributes {
		if err := e.fsys.Chmod(dest, srcInfo.Mode().Perm()); err != nil {
			logger.Warn().Err(err).Str("path", dest).Msg("preserving permissions failed")
		}
	}
	if e.settings.PreserveTimestamps {
		if err := e.fsys.Chtimes(dest, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
			logger.Warn().Err(err).Str("path", dest).Msg("preserving timestamps failed")
		}
	}
}
