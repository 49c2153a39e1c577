package queue_test

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileq/pkg/queue"
)

// 🧪 TestMoveConflictRoundTrip tests the full conflict protocol: a move into
// an occupied destination passes through conflict and back without skipping
// states
func TestMoveConflictRoundTrip(t *testing.T) {
	ctx := testContext(t)
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/src/report.txt", "fresh version 2")
	writeFile(t, fsys, "/dst/report.txt", "stale")

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, fsys.Chtimes("/dst/report.txt", older, older))
	require.NoError(t, fsys.Chtimes("/src/report.txt", newer, newer))

	m := newManager(t, fsys, nil)
	rec := newRecorder(t, m, 256)
	m.Start(ctx)

	snap, err := m.Enqueue(ctx, queue.Request{
		Kind:        queue.KindMove,
		Sources:     []string{"/src/report.txt"},
		Destination: "/dst",
	})
	require.NoError(t, err)

	waitStatus(t, m, snap.ID, queue.StatusConflict)

	parked := mustGet(t, m, snap.ID)
	require.NotNil(t, parked.Conflict)
	assert.Equal(t, "/src/report.txt", parked.Conflict.SourcePath)
	assert.Equal(t, "/dst/report.txt", parked.Conflict.DestinationPath)
	assert.Equal(t, int64(15), parked.Conflict.SourceSize)
	assert.Equal(t, int64(5), parked.Conflict.DestinationSize)
	assert.Equal(t, queue.ConflictDestinationExists, parked.Conflict.Kind)
	assert.Equal(t, queue.ResolutionOverwrite, parked.Conflict.Recommended, "newer source recommends overwrite")

	m.ResolveConflict(ctx, snap.ID, queue.ResolutionOverwrite)
	waitStatus(t, m, snap.ID, queue.StatusCompleted)

	final := mustGet(t, m, snap.ID)
	assert.Nil(t, final.Conflict)
	assert.Equal(t, 1, final.ProcessedFiles)
	assert.Equal(t, int64(15), final.ProcessedBytes)

	got, err := afero.ReadFile(fsys, "/dst/report.txt")
	require.NoError(t, err)
	assert.Equal(t, "fresh version 2", string(got))

	moved, err := afero.Exists(fsys, "/src/report.txt")
	require.NoError(t, err)
	assert.False(t, moved, "source is gone after the move")

	trail := rec.statusTrail(snap.ID)
	want := []queue.Status{
		queue.StatusQueued,
		queue.StatusRunning,
		queue.StatusConflict,
		queue.StatusQueued,
		queue.StatusRunning,
		queue.StatusCompleted,
	}
	assert.True(t, containsSubsequence(trail, want), "status trail %v misses %v", trail, want)
}

// 🧪 TestConflictRecommendation tests the recommended resolution rule
func TestConflictRecommendation(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		srcTime  time.Time
		destTime time.Time
		want     queue.Resolution
	}{
		{
			name:     "source_newer_recommends_overwrite",
			srcTime:  newer,
			destTime: older,
			want:     queue.ResolutionOverwrite,
		},
		{
			name:     "source_older_recommends_skip",
			srcTime:  older,
			destTime: newer,
			want:     queue.ResolutionSkip,
		},
		{
			name:     "equal_times_recommend_skip",
			srcTime:  older,
			destTime: older,
			want:     queue.ResolutionSkip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			fsys := afero.NewMemMapFs()
			writeFile(t, fsys, "/src/f.txt", "source")
			writeFile(t, fsys, "/dst/f.txt", "destination")
			require.NoError(t, fsys.Chtimes("/src/f.txt", tt.srcTime, tt.srcTime))
			require.NoError(t, fsys.Chtimes("/dst/f.txt", tt.destTime, tt.destTime))

			m := newManager(t, fsys, nil)
			m.Start(ctx)

			snap, err := m.Enqueue(ctx, queue.Request{
				Kind:        queue.KindCopy,
				Sources:     []string{"/src/f.txt"},
				Destination: "/dst",
			})
			require.NoError(t, err)

			waitStatus(t, m, snap.ID, queue.StatusConflict)
			parked := mustGet(t, m, snap.ID)
			require.NotNil(t, parked.Conflict)
			assert.Equal(t, tt.want, parked.Conflict.Recommended)
			assert.True(t, parked.Conflict.SourceModTime.Equal(tt.srcTime))
			assert.True(t, parked.Conflict.DestinationModTime.Equal(tt.destTime))

			m.Cancel(ctx, snap.ID)
			waitStatus(t, m, snap.ID, queue.StatusCancelled)
		})
	}
}

// 🧪 TestMoveConflictSkipLeavesSource tests that skip resolves the conflict
// without touching either side
func TestMoveConflictSkipLeavesSource(t *testing.T) {
	ctx := testContext(t)
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/src/report.txt", "source stays put")
	writeFile(t, fsys, "/dst/report.txt", "destination stays put")

	m := newManager(t, fsys, nil)
	rec := newRecorder(t, m, 128)
	m.Start(ctx)

	snap, err := m.Enqueue(ctx, queue.Request{
		Kind:        queue.KindMove,
		Sources:     []string{"/src/report.txt"},
		Destination: "/dst",
	})
	require.NoError(t, err)

	waitStatus(t, m, snap.ID, queue.StatusConflict)
	m.ResolveConflict(ctx, snap.ID, queue.ResolutionSkip)
	waitStatus(t, m, snap.ID, queue.StatusCompleted)

	final := mustGet(t, m, snap.ID)
	assert.Equal(t, 0, final.ProcessedFiles, "skipped entry is not counted")

	src, err := afero.ReadFile(fsys, "/src/report.txt")
	require.NoError(t, err)
	assert.Equal(t, "source stays put", string(src))

	dst, err := afero.ReadFile(fsys, "/dst/report.txt")
	require.NoError(t, err)
	assert.Equal(t, "destination stays put", string(dst))

	comps := rec.completions(snap.ID)
	require.Len(t, comps, 1)
	assert.True(t, comps[0].Success, "a fully skipped move still completes")
}

// 🧪 TestCopyConflictRename tests the rename resolution
func TestCopyConflictRename(t *testing.T) {
	ctx := testContext(t)
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/src/a.txt", "incoming")
	writeFile(t, fsys, "/dst/a.txt", "original")

	m := newManager(t, fsys, nil)
	m.Start(ctx)

	snap, err := m.Enqueue(ctx, queue.Request{
		Kind:        queue.KindCopy,
		Sources:     []string{"/src/a.txt"},
		Destination: "/dst",
	})
	require.NoError(t, err)

	waitStatus(t, m, snap.ID, queue.StatusConflict)
	m.ResolveConflict(ctx, snap.ID, queue.ResolutionRename)
	waitStatus(t, m, snap.ID, queue.StatusCompleted)

	original, err := afero.ReadFile(fsys, "/dst/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "original", string(original))

	renamed, err := afero.ReadFile(fsys, "/dst/a (2).txt")
	require.NoError(t, err)
	assert.Equal(t, "incoming", string(renamed))

	final := mustGet(t, m, snap.ID)
	assert.Equal(t, 1, final.ProcessedFiles)
}

// 🧪 TestCopyConflictOverwrite tests the overwrite resolution
func TestCopyConflictOverwrite(t *testing.T) {
	ctx := testContext(t)
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/src/a.txt", "incoming content")
	writeFile(t, fsys, "/dst/a.txt", "original")

	m := newManager(t, fsys, nil)
	m.Start(ctx)

	snap, err := m.Enqueue(ctx, queue.Request{
		Kind:        queue.KindCopy,
		Sources:     []string{"/src/a.txt"},
		Destination: "/dst",
	})
	require.NoError(t, err)

	waitStatus(t, m, snap.ID, queue.StatusConflict)
	m.ResolveConflict(ctx, snap.ID, queue.ResolutionOverwrite)
	waitStatus(t, m, snap.ID, queue.StatusCompleted)

	got, err := afero.ReadFile(fsys, "/dst/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "incoming content", string(got))

	src, err := afero.Exists(fsys, "/src/a.txt")
	require.NoError(t, err)
	assert.True(t, src, "copy leaves the source in place")
}

// 🧪 TestCancelDuringConflictWait tests that cancellation short-circuits the
// conflict wait without applying the write
func TestCancelDuringConflictWait(t *testing.T) {
	ctx := testContext(t)
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/src/a.txt", "incoming")
	writeFile(t, fsys, "/dst/a.txt", "original")

	m := newManager(t, fsys, nil)
	rec := newRecorder(t, m, 128)
	m.Start(ctx)

	snap, err := m.Enqueue(ctx, queue.Request{
		Kind:        queue.KindMove,
		Sources:     []string{"/src/a.txt"},
		Destination: "/dst",
	})
	require.NoError(t, err)

	waitStatus(t, m, snap.ID, queue.StatusConflict)
	m.Cancel(ctx, snap.ID)
	waitStatus(t, m, snap.ID, queue.StatusCancelled)

	final := mustGet(t, m, snap.ID)
	assert.Nil(t, final.Conflict, "cancellation clears the pending conflict")

	dst, err := afero.ReadFile(fsys, "/dst/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "original", string(dst), "conflicting write was never applied")

	src, err := afero.Exists(fsys, "/src/a.txt")
	require.NoError(t, err)
	assert.True(t, src)

	comps := rec.completions(snap.ID)
	require.Len(t, comps, 1)
	assert.False(t, comps[0].Success)
}
