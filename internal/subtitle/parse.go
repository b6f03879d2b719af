package subtitle

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const timingArrow = "-->"

// result of parsing a caption document. Skipped counts blocks that did not
// have the shape of a cue and were dropped.
type ParseResult struct {
	Entries []Entry
	Skipped int
}

// Parse converts caption text to entries. A malformed block never fails the
// whole document; it is dropped and counted in Skipped.
func Parse(content string, format Format) (*ParseResult, error) {
	switch format {
	case FormatSRT:
		return ParseSRT(content), nil
	case FormatVTT:
		return ParseVTT(content), nil
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", format)
	}
}

// ParseSRT parses SubRip text. Each block is an index line, a timing line and
// one or more text lines. The source index is discarded.
func ParseSRT(content string) *ParseResult {
	result := &ParseResult{Entries: []Entry{}}
	for _, block := range splitBlocks(normalizeLines(content)) {
		if len(block) < 3 || !strings.Contains(block[1], timingArrow) {
			result.Skipped++
			continue
		}
		entry, ok := parseCue(block[1], block[2:], FormatSRT)
		if !ok {
			result.Skipped++
			continue
		}
		result.Entries = append(result.Entries, entry)
	}
	return result
}

// ParseVTT parses WebVTT text. The header block, NOTE blocks and STYLE blocks
// are removed; cue identifiers and cue settings are ignored. NOTE and STYLE
// only count when they open a block, so cue text may start with either word.
func ParseVTT(content string) *ParseResult {
	blocks := splitBlocks(normalizeLines(content))
	if len(blocks) > 0 {
		blocks = stripVTTHeader(blocks)
	}

	result := &ParseResult{Entries: []Entry{}}
	for _, block := range blocks {
		if isVTTMetadataBlock(block[0]) {
			continue
		}
		// optional cue identifier
		if !strings.Contains(block[0], timingArrow) {
			block = block[1:]
		}
		if len(block) < 2 || !strings.Contains(block[0], timingArrow) {
			result.Skipped++
			continue
		}
		entry, ok := parseCue(block[0], block[1:], FormatVTT)
		if !ok {
			result.Skipped++
			continue
		}
		result.Entries = append(result.Entries, entry)
	}
	return result
}

// comment and stylesheet blocks are identified by their first line
func isVTTMetadataBlock(first string) bool {
	for _, keyword := range []string{"NOTE", "STYLE"} {
		if first == keyword ||
			strings.HasPrefix(first, keyword+" ") ||
			strings.HasPrefix(first, keyword+"\t") {
			return true
		}
	}
	return false
}

func parseCue(timing string, textLines []string, format Format) (Entry, bool) {
	start, end, err := parseTimingLine(timing, format)
	if err != nil || end < start {
		return Entry{}, false
	}
	return Entry{
		ID:        uuid.NewString(),
		StartTime: start,
		EndTime:   end,
		Text:      strings.Join(textLines, "\n"),
	}, true
}

// "start --> end [cue settings]"; only the first token after the arrow is the end time
func parseTimingLine(line string, format Format) (float64, float64, error) {
	parts := strings.SplitN(line, timingArrow, 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("missing %q in timing line %q", timingArrow, line)
	}
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("missing end time in %q", line)
	}
	start, err := ParseTimecode(parts[0], format)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimecode(endFields[0], format)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// splits trimmed lines, drops BOM and carriage returns
func normalizeLines(content string) []string {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// groups lines separated by one or more blank lines
func splitBlocks(lines []string) [][]string {
	var blocks [][]string
	var current []string
	for _, line := range lines {
		if line == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// drops the WEBVTT line and the header metadata that shares its block. A cue
// written directly under the signature line is kept.
func stripVTTHeader(blocks [][]string) [][]string {
	header := blocks[0]
	if !strings.HasPrefix(header[0], "WEBVTT") {
		return blocks
	}
	for i, line := range header[1:] {
		if strings.Contains(line, timingArrow) {
			blocks[0] = header[1+i:]
			return blocks
		}
	}
	return blocks[1:]
}
