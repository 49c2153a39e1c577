package queue

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/fileq/pkg/fsx"
	"gitlab.com/tozd/go/errors"
)

// runMove relocates each source entry under the destination directory. The
// fast path is a rename; when the filesystem refuses (typically a
// cross-device move) the entry falls back to a checkpointed copy followed by
// source removal, so pause and cancel keep working on large transfers.
func (e *executor) runMove(ctx context.Context, op *Operation) error {
	logger := zerolog.Ctx(ctx)

	if err := e.ensureDir(op.destination); err != nil {
		return err
	}

	for _, src := range op.sources {
		if err := e.checkpoint(ctx, op); err != nil {
			return err
		}

		info, err := e.fsys.Stat(src)
		if err != nil {
			return errors.Errorf("stating %s: %w", src, err)
		}

		target, res, err := e.prepareDestination(ctx, op, src, info, filepath.Join(op.destination, filepath.Base(src)))
		if err != nil {
			return err
		}
		if res == ResolutionSkip {
			logger.Debug().Str("source", src).Msg("skipping conflicting entry")
			continue
		}

		// Per-entry totals drive the counter advance for the rename path.
		entry := fsx.Estimate(ctx, e.fsys, []string{src}, nil)
		e.m.setCurrentFile(op, src)

		if res == ResolutionOverwrite {
			// A rename cannot land on an occupied path, so overwrite for a
			// move means replace.
			if err := e.fsys.RemoveAll(target); err != nil {
				return errors.Errorf("replacing %s: %w", target, err)
			}
		}

		if err := e.fsys.Rename(src, target); err != nil {
			logger.Debug().Err(err).
				Str("source", src).
				Str("target", target).
				Msg("rename refused, falling back to copy and delete")
			if err := e.moveByCopy(ctx, op, src, target, info); err != nil {
				return err
			}
			continue
		}

		e.m.advanceEntry(op, entry.Files, entry.Bytes)
	}
	return nil
}

// moveByCopy is the cross-device fallback: stream the entry to the target,
// then remove the source. The copy path advances the progress counters, and
// verification (when enabled) runs before the source is deleted.
func (e *executor) moveByCopy(ctx context.Context, op *Operation, src, dest string, info os.FileInfo) error {
	if info.IsDir() {
		if err := e.copyDir(ctx, op, src, dest, ""); err != nil {
			return err
		}
	} else {
		if err := e.copyFile(ctx, op, src, dest, info); err != nil {
			return err
		}
	}

	if err := e.fsys.RemoveAll(src); err != nil {
		return errors.Errorf("removing source %s: %w", src, err)
	}
	return nil
}
