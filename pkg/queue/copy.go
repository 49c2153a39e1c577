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
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/fileq/pkg/fsx"
	"gitlab.com/tozd/go/errors"
)

// runCopy mirrors each source entry under the destination directory. Stream
// copies go through the checkpoint before every chunk so pause and cancel
// take effect mid-file.
func (e *executor) runCopy(ctx context.Context, op *Operation) error {
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
		if !info.IsDir() && fsx.Excluded(op.excludes, filepath.Base(src)) {
			logger.Debug().Str("path", src).Msg("source excluded by pattern")
			continue
		}

		target, res, err := e.prepareDestination(ctx, op, src, info, filepath.Join(op.destination, filepath.Base(src)))
		if err != nil {
			return err
		}
		if res == ResolutionSkip {
			logger.Debug().Str("source", src).Msg("skipping conflicting entry")
			continue
		}

		if info.IsDir() {
			if err := e.copyDir(ctx, op, src, target, ""); err != nil {
				return err
			}
		} else {
			if err := e.copyFile(ctx, op, src, target, info); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyDir recursively mirrors src into dest. rel is the path relative to the
// top-level source entry, used for exclude matching. Unreadable directories
// are logged and skipped, matching the estimator's traversal policy.
func (e *executor) copyDir(ctx context.Context, op *Operation, src, dest, rel string) error {
	logger := zerolog.Ctx(ctx)

	srcInfo, err := e.fsys.Stat(src)
	if err != nil {
		return errors.Errorf("stating %s: %w", src, err)
	}
	if err := e.fsys.MkdirAll(dest, srcInfo.Mode().Perm()); err != nil {
		return errors.Errorf("creating directory %s: %w", dest, err)
	}

	entries, err := afero.ReadDir(e.fsys, src)
	if err != nil {
		logger.Warn().Err(err).Str("path", src).Msg("skipping unreadable directory")
		return nil
	}

	for _, entry := range entries {
		if err := e.checkpoint(ctx, op); err != nil {
			return err
		}

		childRel := filepath.Join(rel, entry.Name())
		if fsx.Excluded(op.excludes, childRel) {
			logger.Debug().Str("path", childRel).Msg("entry excluded by pattern")
			continue
		}

		childSrc := filepath.Join(src, entry.Name())
		childDest := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			if err := e.copyDir(ctx, op, childSrc, childDest, childRel); err != nil {
				return err
			}
		} else {
			if err := e.copyFile(ctx, op, childSrc, childDest, entry); err != nil {
				return err
			}
		}
	}

	// Directory metadata lands after its contents so child writes do not
	// bump the timestamps again.
	e.preserveMetadata(ctx, srcInfo, dest)
	return nil
}

// copyFile streams src to dest in settings-sized chunks, advancing processed
// bytes after every chunk and verifying the result when configured.
func (e *executor) copyFile(ctx context.Context, op *Operation, src, dest string, srcInfo os.FileInfo) error {
	e.m.setCurrentFile(op, src)

	in, err := e.fsys.Open(src)
	if err != nil {
		return errors.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := e.fsys.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating %s: %w", dest, err)
	}

	for {
		if err := e.checkpoint(ctx, op); err != nil {
			out.Close()
			return err
		}

		n, readErr := in.Read(e.buf)
		if n > 0 {
			if _, err := out.Write(e.buf[:n]); err != nil {
				out.Close()
				return errors.Errorf("writing %s: %w", dest, err)
			}
			e.m.advanceBytes(op, n)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			return errors.Errorf("reading %s: %w", src, readErr)
		}
	}

	if err := out.Close(); err != nil {
		return errors.Errorf("closing %s: %w", dest, err)
	}

	e.preserveMetadata(ctx, srcInfo, dest)

	if e.settings.VerifyAfterCopy {
		equal, err := fsx.FilesEqual(ctx, e.fsys, src, dest)
		if err != nil {
			return errors.Errorf("verifying %s: %w", dest, err)
		}
		if !equal {
			return errors.Errorf("verification failed: %s and %s differ", src, dest)
		}
	}

	e.m.fileDone(op)
	return nil
}
