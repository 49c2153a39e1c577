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
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	lineIndent   = 4  // spaces to indent queue entries
	subjectWidth = 35 // base width for the operation subject
	kindWidth    = 8  // width for the operation kind
	statusWidth  = 12 // width for status text
)

// 🎯 Glyph returns the colored one-character marker for a lifecycle state
func Glyph(state string) string {
	switch state {
	case "queued":
		return color.HiBlackString("·")
	case "running":
		return color.CyanString("➤")
	case "paused":
		return color.YellowString("‖")
	case "conflict":
		return color.MagentaString("?")
	case "completed":
		return color.GreenString("✓")
	case "failed":
		return color.RedString("✗")
	case "cancelled":
		return color.HiBlackString("✗")
	default:
		return color.HiBlackString("-")
	}
}

// 📋 FormatOperationLine formats one queue entry for a list view
func FormatOperationLine(state, kind, subject, detail string) string {
	prefix := Glyph(state)

	// Format parts with padding
	subjectPart := fmt.Sprintf("%-*s", subjectWidth, subject)
	kindPart := fmt.Sprintf("%-*s", kindWidth, kind)
	statusPart := fmt.Sprintf("%-*s", statusWidth, state)

	// Build final string with indentation
	return fmt.Sprintf("%s%s %s %s %s %s",
		strings.Repeat(" ", lineIndent),
		prefix,
		subjectPart,
		kindPart,
		statusPart,
		detail,
	)
}

// Subject condenses an operation's source list to one displayable token.
func Subject(sources []string) string {
	switch len(sources) {
	case 0:
		return ""
	case 1:
		return sources[0]
	default:
		return fmt.Sprintf("%s (+%d more)", sources[0], len(sources)-1)
	}
}
