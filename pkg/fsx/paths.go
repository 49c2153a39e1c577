package fsx

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 🔍 UniqueName returns path if nothing exists there, otherwise the first
// "name (2)", "name (3)", ... variant that is free. The extension stays at
// the end so "report.txt" becomes "report (2).txt".
func UniqueName(fsys afero.Fs, path string) (string, error) {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return "", errors.Errorf("checking %s: %w", path, err)
	}
	if !exists {
		return path, nil
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		exists, err := afero.Exists(fsys, candidate)
		if err != nil {
			return "", errors.Errorf("checking %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
}

// 🎯 Excluded reports whether a relative path matches any of the given
// doublestar patterns. Patterns are tried against the slash-separated
// relative path and against the entry name alone, so "*.tmp" matches
// nested temp files without needing a "**/" prefix.
func Excluded(patterns []string, rel string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := pathBase(rel)
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pat, base); ok {
			return true
		}
	}
	return false
}

// ValidatePatterns rejects malformed exclude globs up front, so matching
// during traversal can ignore pattern errors.
func ValidatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return errors.Errorf("invalid exclude pattern %q", pat)
		}
	}
	return nil
}

func pathBase(rel string) string {
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		return rel[i+1:]
	}
	return rel
}
