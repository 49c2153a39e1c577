package queue

// 📢 EventKind distinguishes progress updates from terminal notifications
type EventKind int

const (
	EventProgress EventKind = iota
	EventCompletion
)

// String returns a string representation of EventKind
func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// 📨 Event is delivered to subscribers on every state change. Progress events
// fire on each processed chunk and file and at least once per second for the
// running operation. Completion events fire exactly once per operation when it
// reaches a terminal status.
type Event struct {
	Kind EventKind
	Op   Snapshot

	// Completion-only fields, zero for progress events.
	Success        bool
	ProcessedFiles int
	FailedFiles    int
}

// 🔔 Subscribe registers an event channel with the given buffer size and
// returns it together with an unsubscribe function. Events are dropped rather
// than block when a subscriber's buffer is full, so slow consumers see a
// sampled stream but never stall the queue. Unsubscribing closes the channel.
func (m *Manager) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	id := m.nextSub
	m.nextSub++
	ch := make(chan Event, buffer)
	m.subs[id] = ch

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
}

// emitLocked fans an event out to every subscriber. Callers must hold m.mu;
// sends are non-blocking so holding the lock here is safe.
func (m *Manager) emitLocked(ev Event) {
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// emitProgressLocked emits a progress event for op. Callers must hold m.mu.
func (m *Manager) emitProgressLocked(op *Operation) {
	m.emitLocked(Event{Kind: EventProgress, Op: m.snapshotLocked(op)})
}

// emitCompletionLocked emits the terminal event for op. Callers must hold m.mu.
func (m *Manager) emitCompletionLocked(op *Operation) {
	m.emitLocked(Event{
		Kind:           EventCompletion,
		Op:             m.snapshotLocked(op),
		Success:        op.status == StatusCompleted,
		ProcessedFiles: op.processedFiles,
		FailedFiles:    op.failedFiles,
	})
}
