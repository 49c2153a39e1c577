package queue_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileq/pkg/config"
	"github.com/walteh/fileq/pkg/queue"
	"gitlab.com/tozd/go/errors"
)

// 🧪 testContext creates a context with a test logger
func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 newManager creates a manager over fsys that is closed when the test ends
func newManager(t *testing.T, fsys afero.Fs, settings *config.Settings) *queue.Manager {
	t.Helper()
	m := queue.NewManager(queue.Options{FS: fsys, Settings: settings})
	t.Cleanup(m.Close)
	return m
}

// 🧪 writeFile creates path with the given content, making parent directories
func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}

// 🧪 waitStatus polls until the operation reaches the given status
func waitStatus(t *testing.T, m *queue.Manager, id uuid.UUID, want queue.Status) {
	t.Helper()
	require.Eventuallyf(t, func() bool {
		snap, ok := m.Get(id)
		return ok && snap.Status == want
	}, 5*time.Second, 5*time.Millisecond, "waiting for status %s", want)
}

// 🧪 mustGet fetches the operation snapshot, failing the test if it is gone
func mustGet(t *testing.T, m *queue.Manager, id uuid.UUID) queue.Snapshot {
	t.Helper()
	snap, ok := m.Get(id)
	require.True(t, ok, "operation %s not found", id)
	return snap
}

// 📼 recorder drains a subscription into a slice for later inspection
type recorder struct {
	mu     sync.Mutex
	events []queue.Event
	done   chan struct{}
	unsub  func()
}

func newRecorder(t *testing.T, m *queue.Manager, buffer int) *recorder {
	t.Helper()
	ch, unsub := m.Subscribe(buffer)
	r := &recorder{done: make(chan struct{}), unsub: unsub}
	go func() {
		defer close(r.done)
		for ev := range ch {
			r.mu.Lock()
			r.events = append(r.events, ev)
			r.mu.Unlock()
		}
	}()
	t.Cleanup(r.stop)
	return r
}

func (r *recorder) stop() {
	r.unsub()
	<-r.done
}

func (r *recorder) all() []queue.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]queue.Event(nil), r.events...)
}

// completions returns terminal events for id, in arrival order. Events are
// delivered asynchronously, so this waits briefly for the first terminal
// event to be drained before snapshotting.
func (r *recorder) completions(id uuid.UUID) []queue.Event {
	deadline := time.Now().Add(5 * time.Second)
	for {
		var out []queue.Event
		for _, ev := range r.all() {
			if ev.Kind == queue.EventCompletion && ev.Op.ID == id {
				out = append(out, ev)
			}
		}
		if len(out) > 0 || time.Now().After(deadline) {
			return out
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// statusTrail returns the sequence of distinct statuses observed for id.
func (r *recorder) statusTrail(id uuid.UUID) []queue.Status {
	var trail []queue.Status
	for _, ev := range r.all() {
		if ev.Op.ID != id {
			continue
		}
		if len(trail) == 0 || trail[len(trail)-1] != ev.Op.Status {
			trail = append(trail, ev.Op.Status)
		}
	}
	return trail
}

// containsSubsequence reports whether want appears in trail in order, with
// other statuses allowed in between.
func containsSubsequence(trail, want []queue.Status) bool {
	i := 0
	for _, s := range trail {
		if i < len(want) && s == want[i] {
			i++
		}
	}
	return i == len(want)
}

// 🐌 slowFs delays every read so in-flight operations stay observable
type slowFs struct {
	afero.Fs
	delay time.Duration
}

func (s *slowFs) Open(name string) (afero.File, error) {
	f, err := s.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	return &slowFile{File: f, delay: s.delay}, nil
}

type slowFile struct {
	afero.File
	delay time.Duration
}

func (f *slowFile) Read(p []byte) (int, error) {
	time.Sleep(f.delay)
	return f.File.Read(p)
}

// 🚧 renameBlockedFs refuses renames, forcing the move fallback path
type renameBlockedFs struct {
	afero.Fs
}

func (r *renameBlockedFs) Rename(oldname, newname string) error {
	return errors.Errorf("invalid cross-device link")
}

// 💥 failOnceFs fails the first file creation, then behaves normally
type failOnceFs struct {
	afero.Fs
	tripped atomic.Bool
}

func (f *failOnceFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&os.O_CREATE != 0 && !f.tripped.Swap(true) {
		return nil, errors.Errorf("device not ready")
	}
	return f.Fs.OpenFile(name, flag, perm)
}
