package fsx

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 🗑️ Trash is the recycle facility invoked for non-permanent deletes. The
// queue only knows this seam; where discarded entries end up is the
// implementation's business.
type Trash interface {
	// SendToTrash moves path out of the way instead of destroying it.
	SendToTrash(ctx context.Context, path string) error
}

// 📦 DirTrash keeps discarded entries in a single directory, suffixing
// collisions with "name (2)" style variants.
type DirTrash struct {
	fsys afero.Fs
	root string
}

// 🏭 NewDirTrash creates a DirTrash rooted at dir. The directory is created
// lazily on the first discard.
func NewDirTrash(fsys afero.Fs, dir string) *DirTrash {
	return &DirTrash{fsys: fsys, root: dir}
}

// SendToTrash renames path into the trash directory. Crossing devices is
// not handled here: a rename failure is returned to the caller, which
// treats it like any other per-path delete failure.
func (t *DirTrash) SendToTrash(ctx context.Context, path string) error {
	logger := zerolog.Ctx(ctx)

	if err := t.fsys.MkdirAll(t.root, 0o755); err != nil {
		return errors.Errorf("creating trash directory: %w", err)
	}

	target := filepath.Join(t.root, filepath.Base(path))
	target, err := UniqueName(t.fsys, target)
	if err != nil {
		return errors.Errorf("deriving trash name for %s: %w", path, err)
	}

	if err := t.fsys.Rename(path, target); err != nil {
		return errors.Errorf("moving %s to trash: %w", path, err)
	}

	logger.Debug().Str("path", path).Str("target", target).Msg("sent to trash")
	return nil
}

// 🔍 DefaultTrashDir returns the directory DirTrash uses when the settings
// do not override it.
func DefaultTrashDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "fileq-trash")
	}
	return filepath.Join(home, ".local", "share", "fileq", "trash")
}
