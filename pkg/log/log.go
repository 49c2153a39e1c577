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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	lineIndent  = 4  // spaces to indent operation entries
	kindWidth   = 8  // width for the operation kind
	pathWidth   = 40 // base width for the leading path
	statusWidth = 12 // width for status text
)

// 🎯 OperationLine represents one queued operation for logging
type OperationLine struct {
	ID       string // Short operation id
	Kind     string // copy/move/delete
	Path     string // Leading source path
	Status   string // Current status text
	Progress string // Human progress summary ("1.2 MB / 3.4 MB")
	IsDone   bool   // Whether the operation completed
	IsFailed bool   // Whether the operation failed
}

// 📦 BatchOperation represents one job-file run for logging
type BatchOperation struct {
	JobFile string // Path of the job file driving this run
	Jobs    int    // Number of jobs enqueued
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentRun *BatchOperation
	lines      []OperationLine
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatOperationLine formats one operation entry for display
func (l *Logger) formatOperationLine(line OperationLine) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case line.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case line.IsDone:
		symbol = '✓'
		symbolColor = color.FgGreen
	default:
		symbol = '⟳'
		symbolColor = color.FgBlue
	}

	// Format kind with color
	var kindColor color.Attribute
	switch line.Kind {
	case "copy":
		kindColor = color.FgCyan
	case "move":
		kindColor = color.FgBlue
	case "delete":
		kindColor = color.FgYellow
	default:
		kindColor = color.FgWhite
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", lineIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, line.Kind)),
		fmt.Sprintf("%-*s", pathWidth, line.Path),
		fmt.Sprintf("%-*s", statusWidth, line.Status),
		color.New(color.Faint).Sprint(line.Progress))
}

// 📝 LogOperation logs one operation entry
func (l *Logger) LogOperation(ctx context.Context, line OperationLine) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to lines list
	l.lines = append(l.lines, line)

	// Format and print
	fmt.Fprintln(l.console, l.formatOperationLine(line))

	// Log to zerolog
	l.zlog.Info().
		Str("id", line.ID).
		Str("kind", line.Kind).
		Str("path", line.Path).
		Str("status", line.Status).
		Str("progress", line.Progress).
		Bool("done", line.IsDone).
		Bool("failed", line.IsFailed).
		Msg("operation")
}

// 📝 StartBatch starts a new job-file run
func (l *Logger) StartBatch(ctx context.Context, run BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentRun = &run
	l.lines = nil

	// Print run header
	fmt.Fprintf(l.console, "[running %s]\n",
		color.New(color.FgCyan).Sprint(run.JobFile))

	fmt.Fprintf(l.console, "%s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d job(s)", run.Jobs),
		color.New(color.Faint).Sprint("queued"))

	// Log to zerolog
	l.zlog.Info().
		Str("job_file", run.JobFile).
		Int("jobs", run.Jobs).
		Msg("starting job-file run")
}

// 📝 EndBatch ends the current job-file run
func (l *Logger) EndBatch(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentRun == nil {
		return
	}

	// Log summary
	l.zlog.Info().
		Str("job_file", l.currentRun.JobFile).
		Int("operations", len(l.lines)).
		Msg("job-file run complete")

	l.currentRun = nil
	l.lines = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	brand := color.New(color.Bold, color.FgCyan).Sprint("fileq")
	fmt.Fprintf(l.console, "\n%s %s\n\n", brand, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
