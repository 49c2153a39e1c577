package queue

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/fileq/pkg/fsx"
	"gitlab.com/tozd/go/errors"
)

// Conflicts are detected per top-level destination entry. The chosen
// resolution covers that entry's whole subtree: overwriting a directory
// merges into it on copy and replaces it on move.

// prepareDestination runs the conflict protocol for one destination entry.
// It returns the target path to write (possibly renamed) together with the
// resolution that was applied, ResolutionNone when the destination was free.
func (e *executor) prepareDestination(ctx context.Context, op *Operation, src string, srcInfo os.FileInfo, dest string) (string, Resolution, error) {
	exists, err := afero.Exists(e.fsys, dest)
	if err != nil {
		return "", ResolutionNone, errors.Errorf("checking destination %s: %w", dest, err)
	}
	if !exists {
		return dest, ResolutionNone, nil
	}

	res, err := e.awaitResolution(ctx, op, src, srcInfo, dest)
	if err != nil {
		return "", ResolutionNone, err
	}

	switch res {
	case ResolutionOverwrite:
		return dest, res, nil
	case ResolutionRename:
		target, err := fsx.UniqueName(e.fsys, dest)
		if err != nil {
			return "", res, errors.Errorf("deriving unique name for %s: %w", dest, err)
		}
		return target, res, nil
	case ResolutionSkip:
		return dest, res, nil
	default:
		// ResolveConflict stored no usable answer. Skipping is the only
		// choice that cannot destroy data.
		return dest, ResolutionSkip, nil
	}
}

// awaitResolution records the conflict on the operation and polls until the
// caller answers or the operation is cancelled. The recommendation is
// overwrite when the source is strictly newer than the destination, skip
// otherwise.
func (e *executor) awaitResolution(ctx context.Context, op *Operation, src string, srcInfo os.FileInfo, dest string) (Resolution, error) {
	logger := zerolog.Ctx(ctx)

	destInfo, err := e.fsys.Stat(dest)
	if err != nil {
		return ResolutionNone, errors.Errorf("stating destination %s: %w", dest, err)
	}

	recommended := ResolutionSkip
	if srcInfo.ModTime().After(destInfo.ModTime()) {
		recommended = ResolutionOverwrite
	}

	e.m.setConflict(op, &ConflictInfo{
		SourcePath:         src,
		DestinationPath:    dest,
		SourceSize:         srcInfo.Size(),
		DestinationSize:    destInfo.Size(),
		SourceModTime:      srcInfo.ModTime(),
		DestinationModTime: destInfo.ModTime(),
		Kind:               ConflictDestinationExists,
		Recommended:        recommended,
	})

	logger.Info().
		Str("source", src).
		Str("destination", dest).
		Str("recommended", recommended.String()).
		Msg("destination conflict, waiting for resolution")

	for {
		switch e.m.opStatus(op) {
		case StatusCancelled:
			return ResolutionNone, errCancelled
		case StatusConflict:
			select {
			case <-time.After(conflictPollInterval):
			case <-ctx.Done():
				return ResolutionNone, errCancelled
			case <-e.m.done:
				return ResolutionNone, errCancelled
			}
		default:
			// The caller answered. Promote back to running, then consume
			// the stored resolution.
			if err := e.checkpoint(ctx, op); err != nil {
				return ResolutionNone, err
			}
			return e.m.takeResolution(op), nil
		}
	}
}
