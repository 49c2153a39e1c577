package fsx_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileq/pkg/fsx"
)

// 🧪 TestUniqueName tests collision-free name derivation
func TestUniqueName(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		path     string
		want     string
	}{
		{
			name:     "free_path_returned_unchanged",
			existing: nil,
			path:     "/dst/report.txt",
			want:     "/dst/report.txt",
		},
		{
			name:     "taken_path_gets_suffix",
			existing: []string{"/dst/report.txt"},
			path:     "/dst/report.txt",
			want:     "/dst/report (2).txt",
		},
		{
			name:     "suffix_skips_taken_variants",
			existing: []string{"/dst/report.txt", "/dst/report (2).txt"},
			path:     "/dst/report.txt",
			want:     "/dst/report (3).txt",
		},
		{
			name:     "no_extension",
			existing: []string{"/dst/notes"},
			path:     "/dst/notes",
			want:     "/dst/notes (2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			for _, path := range tt.existing {
				require.NoError(t, afero.WriteFile(fsys, path, []byte("x"), 0o644))
			}

			got, err := fsx.UniqueName(fsys, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// 🧪 TestExcluded tests exclude-glob matching
func TestExcluded(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		rel      string
		want     bool
	}{
		{
			name:     "no_patterns",
			patterns: nil,
			rel:      "a/b.txt",
			want:     false,
		},
		{
			name:     "basename_match",
			patterns: []string{"*.tmp"},
			rel:      "deep/nested/cache.tmp",
			want:     true,
		},
		{
			name:     "doublestar_match",
			patterns: []string{"**/node_modules/**"},
			rel:      "app/node_modules/left-pad/index.js",
			want:     true,
		},
		{
			name:     "directory_name_match",
			patterns: []string{".git"},
			rel:      "repo/.git",
			want:     true,
		},
		{
			name:     "non_matching",
			patterns: []string{"*.tmp", "*.bak"},
			rel:      "src/main.go",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fsx.Excluded(tt.patterns, tt.rel))
		})
	}
}

// 🧪 TestValidatePatterns tests rejection of malformed globs
func TestValidatePatterns(t *testing.T) {
	require.NoError(t, fsx.ValidatePatterns([]string{"*.tmp", "**/build/**"}))

	err := fsx.ValidatePatterns([]string{"[unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}
