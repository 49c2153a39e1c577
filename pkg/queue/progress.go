package queue

import "time"

// Executor-facing progress mutators. The executor never touches an Operation
// directly; every write funnels through these so the lock discipline and the
// event stream stay in one place.

// opStatus reads the operation's current status.
func (m *Manager) opStatus(op *Operation) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return op.status
}

// markRunning promotes a queued operation back to running after a resume or
// a conflict resolution.
func (m *Manager) markRunning(op *Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if op.status != StatusQueued {
		return
	}
	op.status = StatusRunning
	m.emitProgressLocked(op)
}

// setConflict parks the running operation in the conflict state. A racing
// cancellation wins: the conflict is not recorded on a cancelled operation.
func (m *Manager) setConflict(op *Operation, info *ConflictInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if op.status != StatusRunning {
		return
	}
	op.conflict = info
	op.status = StatusConflict
	m.emitProgressLocked(op)
}

// takeResolution consumes the stored conflict answer.
func (m *Manager) takeResolution(op *Operation) Resolution {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := op.resolution
	op.resolution = ResolutionNone
	return res
}

// setCurrentFile records the path being transferred.
func (m *Manager) setCurrentFile(op *Operation, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	op.currentFile = path
	m.emitProgressLocked(op)
}

// advanceBytes adds one chunk's worth of progress. Processed bytes are capped
// at the estimate so a tree that grew after estimation corrects instead of
// overshooting.
func (m *Manager) advanceBytes(op *Operation, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	op.processedBytes += int64(n)
	if op.processedBytes > op.totalBytes {
		op.processedBytes = op.totalBytes
	}
	m.emitProgressLocked(op)
}

// fileDone marks one file fully transferred.
func (m *Manager) fileDone(op *Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	op.processedFiles++
	if op.processedFiles > op.totalFiles {
		op.processedFiles = op.totalFiles
	}
	m.emitProgressLocked(op)
}

// advanceEntry credits a whole entry's files and bytes at once, used when an
// entry moves or deletes without streaming its contents.
func (m *Manager) advanceEntry(op *Operation, files int, bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	op.processedFiles += files
	if op.processedFiles > op.totalFiles {
		op.processedFiles = op.totalFiles
	}
	op.processedBytes += bytes
	if op.processedBytes > op.totalBytes {
		op.processedBytes = op.totalBytes
	}
	m.emitProgressLocked(op)
}

// noteFailedFiles counts entries that were skipped after an error. Failed
// counts surface on the completion event, not as progress.
func (m *Manager) noteFailedFiles(op *Operation, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op.failedFiles += n
}

// updateThroughput recomputes speed and ETA for the running operation from
// the bytes moved since the previous tick, then emits a progress event.
func (m *Manager) updateThroughput() {
	m.mu.Lock()
	defer m.mu.Unlock()

	op := m.running
	if op == nil || op.status != StatusRunning {
		return
	}

	delta := op.processedBytes - op.lastTickBytes
	op.lastTickBytes = op.processedBytes
	op.bytesPerSec = float64(delta) / speedInterval.Seconds()

	if op.bytesPerSec > 0 {
		remaining := op.totalBytes - op.processedBytes
		if remaining < 0 {
			remaining = 0
		}
		op.eta = time.Duration(float64(remaining) / op.bytesPerSec * float64(time.Second))
	} else {
		op.eta = 0
	}

	m.emitProgressLocked(op)
}
