// Package queue implements the background file-operation queue: a serialized
// job runner for copy, move, and delete requests with live progress reporting,
// pause/resume/cancel/retry control, and blocking destination-conflict
// resolution.
//
// 🎯 Purpose:
//   - Accept operation requests and execute them off the caller's goroutine
//   - Run at most one operation at a time to avoid disk contention
//   - Report bytes/files processed, throughput, and ETA while running
//   - Block on destination conflicts until a caller supplies a resolution
//   - Retain a bounded history of terminal operations
//
// 🔄 Flow:
//
//	┌─────────┐   Enqueue    ┌─────────────┐   dequeue    ┌──────────┐
//	│ Caller  │ ───────────> │   Manager   │ ───────────> │ Executor │
//	└─────────┘              │ pending set │              └──────────┘
//	     ▲                   │ running op  │                   │
//	     │                   │ history     │ <──── progress ───┘
//	     └──── events ────── └─────────────┘
//
// 📦 Components:
//   - Manager: owns the pending set, the running slot, and the history ring;
//     every mutation goes through its lock
//   - executor: performs the byte-level work for one operation, checkpointing
//     between chunks so pause, resume, and cancel stay cooperative
//   - Snapshot: immutable copy of an operation handed to subscribers
//
// 🤝 Contracts:
//   - Control calls on ineligible operations are silent no-ops
//   - Cancellation is cooperative and may leave partial destination output
//   - Priorities stay contiguous 0..N-1 across the pending set
package queue
