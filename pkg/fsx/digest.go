package fsx

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// Digest streams are read in 64 KiB slices regardless of the transfer
// buffer size configured for copies.
const digestBufferSize = 64 * 1024

// 🔍 QuickSum computes a cheap xxhash64 digest of a file. It is the first
// content check in the equality chain; collisions are caught by the
// cryptographic pass that follows.
func QuickSum(fsys afero.Fs, path string) (uint64, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return 0, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := xxhash.New()
	buf := make([]byte, digestBufferSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return 0, errors.Errorf("hashing %s: %w", path, err)
	}
	return h.Sum64(), nil
}

// 🔒 Sum computes the hex-encoded SHA-256 digest of a file.
func Sum(fsys afero.Fs, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, digestBufferSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", errors.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ⚖️ FilesEqual reports whether two files hold identical bytes. The chain
// short-circuits: size compare, then quick digests, then SHA-256. Both
// sides of each digest pass run concurrently.
func FilesEqual(ctx context.Context, fsys afero.Fs, a, b string) (bool, error) {
	logger := zerolog.Ctx(ctx)

	infoA, err := fsys.Stat(a)
	if err != nil {
		return false, errors.Errorf("stating %s: %w", a, err)
	}
	infoB, err := fsys.Stat(b)
	if err != nil {
		return false, errors.Errorf("stating %s: %w", b, err)
	}
	if infoA.Size() != infoB.Size() {
		logger.Debug().Str("a", a).Str("b", b).Msg("size mismatch")
		return false, nil
	}

	var quickA, quickB uint64
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		quickA, err = QuickSum(fsys, a)
		return err
	})
	g.Go(func() error {
		var err error
		quickB, err = QuickSum(fsys, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}
	if quickA != quickB {
		logger.Debug().Str("a", a).Str("b", b).Msg("quick digest mismatch")
		return false, nil
	}

	var sumA, sumB string
	g = new(errgroup.Group)
	g.Go(func() error {
		var err error
		sumA, err = Sum(fsys, a)
		return err
	})
	g.Go(func() error {
		var err error
		sumB, err = Sum(fsys, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}
	return sumA == sumB, nil
}
