package queue

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/fileq/pkg/fsx"
)

// runDelete removes each path, through the trash facility unless the request
// was permanent. Per-path failures are logged, counted, and skipped: a delete
// can finish completed with fewer processed files than estimated, and the
// failures surface only in the log and the completion event's failed count.
func (e *executor) runDelete(ctx context.Context, op *Operation) error {
	logger := zerolog.Ctx(ctx)

	for _, path := range op.sources {
		if err := e.checkpoint(ctx, op); err != nil {
			return err
		}

		if _, err := e.fsys.Stat(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("skipping inaccessible path")
			e.m.noteFailedFiles(op, 1)
			continue
		}

		entry := fsx.Estimate(ctx, e.fsys, []string{path}, nil)
		e.m.setCurrentFile(op, path)

		var err error
		if op.permanent {
			err = e.fsys.RemoveAll(path)
		} else {
			err = e.trash.SendToTrash(ctx, path)
		}
		if err != nil {
			failed := entry.Files
			if failed == 0 {
				failed = 1
			}
			logger.Warn().Err(err).Str("path", path).Msg("delete failed, skipping")
			e.m.noteFailedFiles(op, failed)
			continue
		}

		e.m.advanceEntry(op, entry.Files, entry.Bytes)
	}
	return nil
}
