package queue

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Kind identifies the work an operation performs
type Kind int

const (
	KindCopy Kind = iota
	KindMove
	KindDelete
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindCopy:
		return "copy"
	case KindMove:
		return "move"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// 🔍 ParseKind maps a job-file kind string to a Kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy":
		return KindCopy, nil
	case "move":
		return KindMove, nil
	case "delete":
		return KindDelete, nil
	default:
		return 0, errors.Errorf("unknown operation kind %q", s)
	}
}

// 📊 Status is the lifecycle state of an operation
type Status int

const (
	StatusQueued Status = iota
	StatusRunning
	StatusPaused
	StatusConflict
	StatusCompleted
	StatusFailed
	StatusCancelled
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusConflict:
		return "conflict"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final. Terminal operations live in
// the history ring and are never mutated again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// 🤝 Resolution is the caller's answer to a destination conflict
type Resolution int

const (
	ResolutionNone Resolution = iota
	ResolutionOverwrite
	ResolutionSkip
	ResolutionRename
)

// String returns a string representation of Resolution
func (r Resolution) String() string {
	switch r {
	case ResolutionOverwrite:
		return "overwrite"
	case ResolutionSkip:
		return "skip"
	case ResolutionRename:
		return "rename"
	default:
		return "none"
	}
}

// 🔍 ParseResolution maps a user-facing resolution string to a Resolution
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite":
		return ResolutionOverwrite, nil
	case "skip":
		return ResolutionSkip, nil
	case "rename":
		return ResolutionRename, nil
	default:
		return ResolutionNone, errors.Errorf("unknown conflict resolution %q", s)
	}
}

// ⚔️ ConflictKind categorizes a destination conflict
type ConflictKind int

const (
	ConflictDestinationExists ConflictKind = iota
)

// String returns a string representation of ConflictKind
func (k ConflictKind) String() string {
	switch k {
	case ConflictDestinationExists:
		return "destination-exists"
	default:
		return "unknown"
	}
}

// 📄 ConflictInfo describes a destination collision awaiting resolution
type ConflictInfo struct {
	SourcePath         string
	DestinationPath    string
	SourceSize         int64
	DestinationSize    int64
	SourceModTime      time.Time
	DestinationModTime time.Time
	Kind               ConflictKind

	// Recommended is Overwrite when the source is strictly newer than the
	// destination, Skip otherwise.
	Recommended Resolution
}

// 📨 Request describes one operation to enqueue
type Request struct {
	Kind        Kind
	Sources     []string
	Destination string            // required for copy and move
	Permanent   bool              // delete bypasses the trash facility
	Excludes    []string          // glob patterns, honored by copy only
	Tags        map[string]string // free-form extras carried on the snapshot
}

// 🎮 Operation is the mutable record for one queued request. Identity fields
// are fixed at creation; everything else is guarded by the owning Manager's
// lock and reaches callers only through Snapshots.
type Operation struct {
	id          uuid.UUID
	kind        Kind
	sources     []string
	destination string
	permanent   bool
	excludes    []string
	tags        map[string]string

	status         Status
	priority       int
	totalBytes     int64
	processedBytes int64
	totalFiles     int
	processedFiles int
	failedFiles    int
	currentFile    string
	bytesPerSec    float64
	eta            time.Duration
	createdAt      time.Time
	startedAt      time.Time
	completedAt    time.Time
	errMsg         string
	conflict       *ConflictInfo
	resolution     Resolution

	// lastTickBytes is the processed-bytes value at the previous throughput
	// tick, used to derive the per-second delta.
	lastTickBytes int64
}

// 📸 Snapshot is an immutable copy of an operation's state at one instant
type Snapshot struct {
	ID          uuid.UUID
	Kind        Kind
	Sources     []string
	Destination string
	Permanent   bool
	Excludes    []string
	Tags        map[string]string

	Status         Status
	Priority       int
	TotalBytes     int64
	ProcessedBytes int64
	TotalFiles     int
	ProcessedFiles int
	FailedFiles    int
	CurrentFile    string
	BytesPerSecond float64
	ETA            time.Duration
	CreatedAt      time.Time
	StartedAt      time.Time
	CompletedAt    time.Time
	Error          string
	Conflict       *ConflictInfo
}

// snapshotLocked copies op into a Snapshot. Callers must hold m.mu.
func (m *Manager) snapshotLocked(op *Operation) Snapshot {
	snap := Snapshot{
		ID:             op.id,
		Kind:           op.kind,
		Sources:        append([]string(nil), op.sources...),
		Destination:    op.destination,
		Permanent:      op.permanent,
		Excludes:       append([]string(nil), op.excludes...),
		Tags:           make(map[string]string, len(op.tags)),
		Status:         op.status,
		Priority:       op.priority,
		TotalBytes:     op.totalBytes,
		ProcessedBytes: op.processedBytes,
		TotalFiles:     op.totalFiles,
		ProcessedFiles: op.processedFiles,
		FailedFiles:    op.failedFiles,
		CurrentFile:    op.currentFile,
		BytesPerSecond: op.bytesPerSec,
		ETA:            op.eta,
		CreatedAt:      op.createdAt,
		StartedAt:      op.startedAt,
		CompletedAt:    op.completedAt,
		Error:          op.errMsg,
	}
	for k, v := range op.tags {
		snap.Tags[k] = v
	}
	if op.conflict != nil {
		info := *op.conflict
		snap.Conflict = &info
	}
	return snap
}
