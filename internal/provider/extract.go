package provider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mgpai22/subalign/internal/subtitle"
)

// segment from an LLM's JSON transcript
type transcriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// segment from OpenAI Whisper verbose_json response
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

var jsonFenceRegex = regexp.MustCompile("```(?:json)?\\s*")

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = jsonFenceRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// parses a verbose_json transcription. A response without segments becomes a
// single segment spanning the reported duration.
func parseVerboseJSON(rawJSON string) ([]subtitle.Segment, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var resp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(resp.Segments) == 0 {
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return nil, nil
		}
		return []subtitle.Segment{{Start: 0, End: resp.Duration, Text: text}}, nil
	}

	segments := make([]subtitle.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}
	return normalizeSegments(segments), nil
}

// finds the first JSON value in text that looks like a transcript. Models
// wrap the array in prose, fences or an object often enough that a plain
// Unmarshal is not good enough.
func extractTranscriptSegments(text string) ([]transcriptSegment, error) {
	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		decoder := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			continue
		}
		if segments, ok := tryExtractSegments(raw, 0); ok {
			return segments, nil
		}
	}
	return nil, fmt.Errorf("no transcript JSON found in response")
}

const maxWrapperDepth = 3

func tryExtractSegments(raw json.RawMessage, depth int) ([]transcriptSegment, bool) {
	var segments []transcriptSegment
	if err := json.Unmarshal(raw, &segments); err == nil && validateSegments(segments) {
		return segments, true
	}
	if depth >= maxWrapperDepth {
		return nil, false
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, false
	}
	for _, key := range []string{"segments", "transcript", "data", "results"} {
		if field, ok := wrapper[key]; ok {
			if segments, ok := tryExtractSegments(field, depth+1); ok {
				return segments, true
			}
		}
	}
	for _, field := range wrapper {
		if segments, ok := tryExtractSegments(field, depth+1); ok {
			return segments, true
		}
	}
	return nil, false
}

// at least one segment must carry a time or text
func validateSegments(segments []transcriptSegment) bool {
	for _, s := range segments {
		if s.Text != "" || s.Start != 0 || s.End != 0 {
			return true
		}
	}
	return false
}

func toSegments(in []transcriptSegment) []subtitle.Segment {
	out := make([]subtitle.Segment, len(in))
	for i, ts := range in {
		out[i] = subtitle.Segment{Start: ts.Start, End: ts.End, Text: ts.Text}
	}
	return normalizeSegments(out)
}

// truncates a string to maxLen bytes
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
