package queue

import "time"

// 📚 Statistics aggregates the queue's lifetime activity. It is derived on
// demand from the pending set, the running slot, and the history ring.
type Statistics struct {
	// TotalOperations counts every operation currently known to the manager.
	TotalOperations int

	// ByStatus counts operations per lifecycle status.
	ByStatus map[Status]int

	// BytesTransferred sums processed bytes over completed operations.
	BytesTransferred int64

	// AverageSpeed is the aggregate throughput of completed operations in
	// bytes per second, zero when nothing has completed.
	AverageSpeed float64

	// TotalDuration is the cumulative wall-clock time spent executing
	// operations that reached a terminal status.
	TotalDuration time.Duration
}

// 📊 Statistics derives aggregate counts and throughput over every operation
// the manager knows about
func (m *Manager) Statistics() Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Statistics{ByStatus: make(map[Status]int)}

	var completedDuration time.Duration
	tally := func(op *Operation) {
		stats.TotalOperations++
		stats.ByStatus[op.status]++

		if op.status.Terminal() && !op.startedAt.IsZero() && !op.completedAt.IsZero() {
			stats.TotalDuration += op.completedAt.Sub(op.startedAt)
		}
		if op.status == StatusCompleted {
			stats.BytesTransferred += op.processedBytes
			if !op.startedAt.IsZero() && !op.completedAt.IsZero() {
				completedDuration += op.completedAt.Sub(op.startedAt)
			}
		}
	}

	for _, op := range m.pending {
		tally(op)
	}
	if m.running != nil {
		tally(m.running)
	}
	for _, op := range m.history {
		tally(op)
	}

	if secs := completedDuration.Seconds(); secs > 0 {
		stats.AverageSpeed = float64(stats.BytesTransferred) / secs
	}

	return stats
}
