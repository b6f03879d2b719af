package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialize renders entries in the given order. Cues are renumbered from 1 on
// every call and blocks are separated by exactly one blank line, so the same
// entries always produce the same bytes.
func Serialize(entries []Entry, format Format) (string, error) {
	if format != FormatSRT && format != FormatVTT {
		return "", fmt.Errorf("unsupported format: %s", format)
	}

	var sb strings.Builder

	// VTT header
	if format == FormatVTT {
		sb.WriteString("WEBVTT\n\n")
	}

	for i, entry := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		// index (1-based)
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("\n")
		sb.WriteString(FormatTimecode(entry.StartTime, format))
		sb.WriteString(" --> ")
		sb.WriteString(FormatTimecode(entry.EndTime, format))
		sb.WriteString("\n")
		sb.WriteString(entry.Text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
