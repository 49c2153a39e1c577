// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// 📈 Reporter narrates operation lifecycle to the log. It keeps just enough
// state to render progress lines; the queue itself stays the source of truth.
type Reporter struct {
	logger    *zerolog.Logger
	formatter OperationFormatter

	mu         sync.Mutex
	totalFiles int
	totalBytes int64
}

// 🏭 NewReporter creates a reporter writing through logger
func NewReporter(logger *zerolog.Logger) *Reporter {
	return &Reporter{
		logger:    logger,
		formatter: NewDefaultOperationFormatter(),
	}
}

// StartOperation announces an operation and pins the totals used by later
// progress lines.
func (r *Reporter) StartOperation(ctx context.Context, kind, subject string, totalFiles int, totalBytes int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalFiles = totalFiles
	r.totalBytes = totalBytes

	msg := r.formatter.FormatOperation(kind, subject, "running")
	r.logger.Info().
		Str("kind", kind).
		Int("total_files", totalFiles).
		Int64("total_bytes", totalBytes).
		Msg(msg)
}

// UpdateProgress logs the current counters against the pinned totals.
func (r *Reporter) UpdateProgress(ctx context.Context, processedFiles int, processedBytes int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := r.formatter.FormatProgress(processedFiles, r.totalFiles, processedBytes, r.totalBytes)
	r.logger.Info().
		Int("processed_files", processedFiles).
		Int64("processed_bytes", processedBytes).
		Msg(msg)
}

// FinishOperation logs the terminal state of an operation. A non-nil err is
// rendered through the error formatter instead of the lifecycle one.
func (r *Reporter) FinishOperation(ctx context.Context, kind, subject, state string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.logger.Error().Err(err).Msg(r.formatter.FormatError(err))
		return
	}
	r.logger.Info().
		Str("state", state).
		Msg(r.formatter.FormatOperation(kind, subject, state))
}
