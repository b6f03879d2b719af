package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"
)

// represents single subtitle entry, times are seconds from media start
type Entry struct {
	ID        string
	StartTime float64
	EndTime   float64
	Text      string
}

// represents transcribed audio segment
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// text given to entries added without any text
const DefaultEntryText = "New subtitle"

// ParseFormat maps a user supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unsupported subtitle format %q: use srt or vtt", s)
	}
}

// subtitle format based on file extension, falls back to sniffing the content
func DetectFormat(fileName, content string) Format {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	}
	trimmed := strings.TrimPrefix(strings.TrimSpace(content), "\ufeff")
	if strings.HasPrefix(trimmed, "WEBVTT") {
		return FormatVTT
	}
	return FormatSRT
}

// file extension for a format
func ExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	default:
		return ".srt"
	}
}
