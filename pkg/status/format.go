package status

import (
	"fmt"
	"time"
)

// FormatBytes renders n in binary-stepped units with one decimal, plain
// bytes below 1 KB.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatSpeed renders a throughput reading. A reading of zero means no
// fresh bytes since the last tick, shown as a dash rather than "0 B/s".
func FormatSpeed(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return "-"
	}
	return FormatBytes(int64(bytesPerSec)) + "/s"
}

// FormatETA renders a remaining-time estimate rounded to whole seconds.
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return "<1s"
	}
	return d.Round(time.Second).String()
}

// FormatPercent renders current over total as a whole percentage.
func FormatPercent(current, total int64) string {
	return fmt.Sprintf("%.0f%%", percent(current, total))
}

// percent maps progress onto 0..100. A zero total with work done reads as
// finished, not as a division error.
func percent(current, total int64) float64 {
	if total <= 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	p := float64(current) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// OperationFormatter defines how operations and their progress should be
// formatted
type OperationFormatter interface {
	// FormatOperation formats a lifecycle message for one operation
	FormatOperation(kind, subject, state string) string

	// FormatProgress formats a progress message
	FormatProgress(processedFiles, totalFiles int, processedBytes, totalBytes int64) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultOperationFormatter provides a default implementation of
// OperationFormatter
type DefaultOperationFormatter struct{}

// NewDefaultOperationFormatter creates a new DefaultOperationFormatter
func NewDefaultOperationFormatter() *DefaultOperationFormatter {
	return &DefaultOperationFormatter{}
}

// FormatOperation formats a lifecycle message with emojis
func (f *DefaultOperationFormatter) FormatOperation(kind, subject, state string) string {
	var emoji, verb string
	switch state {
	case "queued":
		emoji, verb = "⏳", "Queued"
	case "running":
		emoji, verb = "🚀", "Running"
	case "paused":
		emoji, verb = "⏸️ ", "Paused"
	case "conflict":
		emoji, verb = "⚠️ ", "Blocked"
	case "completed":
		emoji, verb = "✅", "Completed"
	case "failed":
		emoji, verb = "❌", "Failed"
	case "cancelled":
		emoji, verb = "🚫", "Cancelled"
	default:
		emoji, verb = "❓", "Unknown"
	}
	return fmt.Sprintf("%s %s %s of %s", emoji, verb, kind, subject)
}

// FormatProgress formats a progress message with file and byte counters
func (f *DefaultOperationFormatter) FormatProgress(processedFiles, totalFiles int, processedBytes, totalBytes int64) string {
	pct := percent(processedBytes, totalBytes)
	if totalBytes == 0 {
		pct = percent(int64(processedFiles), int64(totalFiles))
	}

	emoji := "⏳"
	if processedFiles >= totalFiles && processedBytes >= totalBytes {
		emoji = "✅"
	}
	return fmt.Sprintf("%s Progress: %d/%d files, %s/%s (%.0f%%)",
		emoji,
		processedFiles, totalFiles,
		FormatBytes(processedBytes), FormatBytes(totalBytes),
		pct,
	)
}

// FormatError formats an error message with emoji
func (f *DefaultOperationFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
