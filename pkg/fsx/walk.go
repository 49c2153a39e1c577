package fsx

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// 📊 Totals is the result of walking a path set: the progress denominators
// for one queued operation.
type Totals struct {
	Bytes int64
	Files int
}

// 🔍 Estimate walks every path and sums file sizes and counts. Entries that
// cannot be read are logged and skipped, never fatal: an estimate may
// undercount, it may not fail. Exclude patterns filter entries the same way
// the copy walk does, keeping denominators consistent with the work
// actually performed.
func Estimate(ctx context.Context, fsys afero.Fs, paths []string, excludes []string) Totals {
	logger := zerolog.Ctx(ctx)

	var totals Totals
	for _, path := range paths {
		info, err := fsys.Stat(path)
		if err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable path during estimate")
			continue
		}

		if !info.IsDir() {
			if Excluded(excludes, filepath.Base(path)) {
				continue
			}
			totals.Bytes += info.Size()
			totals.Files++
			continue
		}

		root := path
		_ = afero.Walk(fsys, root, func(sub string, subInfo os.FileInfo, walkErr error) error {
			if walkErr != nil {
				logger.Debug().Err(walkErr).Str("path", sub).Msg("skipping unreadable entry during estimate")
				if subInfo != nil && subInfo.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			rel, err := filepath.Rel(root, sub)
			if err != nil {
				rel = filepath.Base(sub)
			}
			if rel != "." && Excluded(excludes, rel) {
				if subInfo.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !subInfo.IsDir() {
				totals.Bytes += subInfo.Size()
				totals.Files++
			}
			return nil
		})
	}

	return totals
}
