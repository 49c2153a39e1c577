package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestFormatBytes tests human-readable byte rendering
func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name        string
		n           int64
		want        string
		description string
	}{
		{
			name:        "zero",
			n:           0,
			want:        "0 B",
			description: "zero bytes should stay in plain bytes",
		},
		{
			name:        "below_one_kilobyte",
			n:           512,
			want:        "512 B",
			description: "values under the unit should not get a decimal",
		},
		{
			name:        "boundary",
			n:           1023,
			want:        "1023 B",
			description: "one below the unit stays in bytes",
		},
		{
			name:        "exactly_one_kilobyte",
			n:           1024,
			want:        "1.0 KB",
			description: "the unit boundary should roll over",
		},
		{
			name:        "one_and_a_half_kilobytes",
			n:           1536,
			want:        "1.5 KB",
			description: "fractions should show one decimal",
		},
		{
			name:        "one_megabyte",
			n:           1 << 20,
			want:        "1.0 MB",
			description: "each step divides by 1024",
		},
		{
			name:        "five_gigabytes",
			n:           5 << 30,
			want:        "5.0 GB",
			description: "large values climb the unit ladder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.n), tt.description)
		})
	}
}

// 🧪 TestFormatSpeed tests throughput rendering
func TestFormatSpeed(t *testing.T) {
	tests := []struct {
		name        string
		speed       float64
		want        string
		description string
	}{
		{
			name:        "stalled",
			speed:       0,
			want:        "-",
			description: "no fresh bytes should read as a dash, not zero",
		},
		{
			name:        "negative",
			speed:       -100,
			want:        "-",
			description: "negative readings should be treated as stalled",
		},
		{
			name:        "bytes_per_second",
			speed:       500,
			want:        "500 B/s",
			description: "small speeds stay in bytes",
		},
		{
			name:        "kilobytes_per_second",
			speed:       2048,
			want:        "2.0 KB/s",
			description: "speeds use the same unit ladder as sizes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSpeed(tt.speed), tt.description)
		})
	}
}

// 🧪 TestFormatETA tests remaining-time rendering
func TestFormatETA(t *testing.T) {
	tests := []struct {
		name        string
		d           time.Duration
		want        string
		description string
	}{
		{
			name:        "unknown",
			d:           0,
			want:        "-",
			description: "no estimate should read as a dash",
		},
		{
			name:        "negative",
			d:           -time.Second,
			want:        "-",
			description: "negative estimates should read as a dash",
		},
		{
			name:        "subsecond",
			d:           300 * time.Millisecond,
			want:        "<1s",
			description: "almost done should not render as zero",
		},
		{
			name:        "seconds",
			d:           45 * time.Second,
			want:        "45s",
			description: "plain seconds render directly",
		},
		{
			name:        "minutes_and_seconds",
			d:           90 * time.Second,
			want:        "1m30s",
			description: "longer estimates use compound units",
		},
		{
			name:        "hours",
			d:           3661 * time.Second,
			want:        "1h1m1s",
			description: "hour-scale estimates stay readable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatETA(tt.d), tt.description)
		})
	}
}

// 🧪 TestFormatPercent tests percentage rendering edge cases
func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name        string
		current     int64
		total       int64
		want        string
		description string
	}{
		{
			name:        "half",
			current:     50,
			total:       100,
			want:        "50%",
			description: "should show plain ratio",
		},
		{
			name:        "rounding",
			current:     1,
			total:       3,
			want:        "33%",
			description: "should round to whole percent",
		},
		{
			name:        "empty_operation",
			current:     0,
			total:       0,
			want:        "0%",
			description: "nothing to do and nothing done is zero",
		},
		{
			name:        "zero_total_with_progress",
			current:     5,
			total:       0,
			want:        "100%",
			description: "work done against an empty estimate reads as finished",
		},
		{
			name:        "overshoot_caps",
			current:     150,
			total:       100,
			want:        "100%",
			description: "should cap at 100 when current exceeds total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPercent(tt.current, tt.total), tt.description)
		})
	}
}

// 🧪 TestDefaultOperationFormatter tests lifecycle message formatting
func TestDefaultOperationFormatter(t *testing.T) {
	tests := []struct {
		name        string
		kind        string
		subject     string
		state       string
		want        string
		description string
	}{
		{
			name:        "queued",
			kind:        "copy",
			subject:     "/src/photos",
			state:       "queued",
			want:        "⏳ Queued copy of /src/photos",
			description: "should show waiting symbol for queued operations",
		},
		{
			name:        "running",
			kind:        "move",
			subject:     "/src/photos",
			state:       "running",
			want:        "🚀 Running move of /src/photos",
			description: "should show active symbol for running operations",
		},
		{
			name:        "paused",
			kind:        "copy",
			subject:     "/src/photos",
			state:       "paused",
			want:        "⏸️  Paused copy of /src/photos",
			description: "should show pause symbol for held operations",
		},
		{
			name:        "conflict",
			kind:        "move",
			subject:     "/src/photos",
			state:       "conflict",
			want:        "⚠️  Blocked move of /src/photos",
			description: "should show warning symbol for operations awaiting a decision",
		},
		{
			name:        "completed",
			kind:        "copy",
			subject:     "/src/photos",
			state:       "completed",
			want:        "✅ Completed copy of /src/photos",
			description: "should show success symbol for finished operations",
		},
		{
			name:        "failed",
			kind:        "delete",
			subject:     "/tmp/cache",
			state:       "failed",
			want:        "❌ Failed delete of /tmp/cache",
			description: "should show error symbol for failed operations",
		},
		{
			name:        "cancelled",
			kind:        "copy",
			subject:     "/src/photos",
			state:       "cancelled",
			want:        "🚫 Cancelled copy of /src/photos",
			description: "should show stop symbol for cancelled operations",
		},
		{
			name:        "unknown_state",
			kind:        "copy",
			subject:     "/src/photos",
			state:       "bogus",
			want:        "❓ Unknown copy of /src/photos",
			description: "should fall back gracefully on unknown states",
		},
	}

	formatter := NewDefaultOperationFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatter.FormatOperation(tt.kind, tt.subject, tt.state)
			assert.Equal(t, tt.want, got, tt.description)
		})
	}
}

// 🧪 TestProgressFormatting tests progress message formatting
func TestProgressFormatting(t *testing.T) {
	tests := []struct {
		name           string
		processedFiles int
		totalFiles     int
		processedBytes int64
		totalBytes     int64
		want           string
		description    string
	}{
		{
			name:           "zero_progress",
			processedFiles: 0,
			totalFiles:     10,
			processedBytes: 0,
			totalBytes:     1000,
			want:           "⏳ Progress: 0/10 files, 0 B/1000 B (0%)",
			description:    "should show 0% progress",
		},
		{
			name:           "half_progress",
			processedFiles: 5,
			totalFiles:     10,
			processedBytes: 500,
			totalBytes:     1000,
			want:           "⏳ Progress: 5/10 files, 500 B/1000 B (50%)",
			description:    "should show 50% progress",
		},
		{
			name:           "complete",
			processedFiles: 10,
			totalFiles:     10,
			processedBytes: 1000,
			totalBytes:     1000,
			want:           "✅ Progress: 10/10 files, 1000 B/1000 B (100%)",
			description:    "should show 100% progress",
		},
		{
			name:           "zero_total",
			processedFiles: 0,
			totalFiles:     0,
			processedBytes: 0,
			totalBytes:     0,
			want:           "✅ Progress: 0/0 files, 0 B/0 B (0%)",
			description:    "an empty operation is already done",
		},
		{
			name:           "bytes_lead_percentage",
			processedFiles: 1,
			totalFiles:     4,
			processedBytes: 900,
			totalBytes:     1000,
			want:           "⏳ Progress: 1/4 files, 900 B/1000 B (90%)",
			description:    "percentage follows bytes, not file counts",
		},
		{
			name:           "file_fallback_without_bytes",
			processedFiles: 2,
			totalFiles:     4,
			processedBytes: 0,
			totalBytes:     0,
			want:           "⏳ Progress: 2/4 files, 0 B/0 B (50%)",
			description:    "byte-free operations fall back to file counts",
		},
		{
			name:           "overshoot_caps",
			processedFiles: 12,
			totalFiles:     10,
			processedBytes: 1500,
			totalBytes:     1000,
			want:           "✅ Progress: 12/10 files, 1.5 KB/1000 B (100%)",
			description:    "should cap at 100% when current exceeds total",
		},
	}

	formatter := NewDefaultOperationFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatter.FormatProgress(tt.processedFiles, tt.totalFiles, tt.processedBytes, tt.totalBytes)
			assert.Equal(t, tt.want, got, tt.description)
		})
	}
}

// 🧪 TestErrorFormatting tests error message formatting
func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		want        string
		description string
	}{
		{
			name:        "simple_error",
			err:         assert.AnError,
			want:        "❌ Error: assert.AnError general error for testing",
			description: "should format simple errors",
		},
		{
			name:        "nil_error",
			err:         nil,
			want:        "",
			description: "should return empty string for nil errors",
		},
	}

	formatter := NewDefaultOperationFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatter.FormatError(tt.err)
			assert.Equal(t, tt.want, got, tt.description)
		})
	}
}
