package provider

import (
	"testing"
)

func TestParseVerboseJSON(t *testing.T) {
	tests := []struct {
		name      string
		rawJSON   string
		wantCount int
		wantEnd   float64
		wantErr   bool
	}{
		{
			name: "valid verbose_json with segments",
			rawJSON: `{
				"text": "Hello world. How are you today?",
				"segments": [
					{"start": 0.0, "end": 1.5, "text": "Hello world."},
					{"start": 1.5, "end": 3.0, "text": "How are you today?"}
				],
				"language": "en",
				"duration": 3.0
			}`,
			wantCount: 2,
			wantEnd:   3.0,
		},
		{
			name: "verbose_json with no segments but has text",
			rawJSON: `{
				"text": "This is a transcription without segments.",
				"segments": [],
				"language": "en",
				"duration": 2.5
			}`,
			wantCount: 1,
			wantEnd:   2.5,
		},
		{
			name: "verbose_json with null segments",
			rawJSON: `{
				"text": "Transcription text only.",
				"segments": null,
				"duration": 1.0
			}`,
			wantCount: 1,
			wantEnd:   1.0,
		},
		{
			name: "empty text segments filtered out",
			rawJSON: `{
				"text": "Hello world",
				"segments": [
					{"start": 0.0, "end": 0.5, "text": ""},
					{"start": 0.5, "end": 1.5, "text": "Hello world"},
					{"start": 1.5, "end": 2.0, "text": "   "}
				]
			}`,
			wantCount: 1,
			wantEnd:   1.5,
		},
		{
			name:      "nothing transcribed",
			rawJSON:   `{"text": "", "segments": []}`,
			wantCount: 0,
		},
		{
			name:    "empty response",
			rawJSON: "",
			wantErr: true,
		},
		{
			name:    "not json",
			rawJSON: "Hello world",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := parseVerboseJSON(tt.rawJSON)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(segments) != tt.wantCount {
				t.Fatalf("got %d segments, want %d", len(segments), tt.wantCount)
			}
			if tt.wantCount > 0 {
				if got := segments[len(segments)-1].End; got != tt.wantEnd {
					t.Errorf("last segment end = %v, want %v", got, tt.wantEnd)
				}
			}
			for _, seg := range segments {
				if seg.Text == "" || seg.Text[0] == ' ' {
					t.Errorf("segment text not trimmed: %q", seg.Text)
				}
			}
		})
	}
}

func TestExtractTranscriptSegments(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name: "plain valid array",
			input: `[
				{"start": 0.0, "end": 2.5, "text": "Hello world"},
				{"start": 2.5, "end": 5.0, "text": "How are you"}
			]`,
			wantCount: 2,
		},
		{
			name: "preamble with valid array",
			input: `Here is the JSON transcript:
			[
				{"start": 0.0, "end": 2.5, "text": "Hello world"},
				{"start": 2.5, "end": 5.0, "text": "How are you"}
			]`,
			wantCount: 2,
		},
		{
			name: "preamble and trailing text",
			input: `Here is your transcript:
			[{"start": 1.0, "end": 3.0, "text": "Test segment"}]
			That's all!`,
			wantCount: 1,
		},
		{
			name: "wrapper object with segments key",
			input: `{"segments": [
				{"start": 0.0, "end": 2.0, "text": "Wrapped segment"}
			]}`,
			wantCount: 1,
		},
		{
			name: "wrapper object with unknown key",
			input: `{"myCustomKey": [
				{"start": 0.0, "end": 2.0, "text": "From unknown key"}
			]}`,
			wantCount: 1,
		},
		{
			name: "unrelated object first then transcript array",
			input: `{"status": "ok", "count": 5}
			[{"start": 0.0, "end": 2.0, "text": "Real transcript"}]`,
			wantCount: 1,
		},
		{
			name: "multiple arrays picks first valid",
			input: `[1, 2, 3]
			[{"start": 0.0, "end": 2.0, "text": "Actual transcript"}]`,
			wantCount: 1,
		},
		{
			name: "nested wrapper object",
			input: `{
				"response": {
					"segments": [{"start": 0.0, "end": 1.0, "text": "Nested"}]
				}
			}`,
			wantCount: 1,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   `This is just plain text with no JSON content.`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `[{"start": 0.0, "end": 2.0, "text": "incomplete"`,
			wantErr: true,
		},
		{
			name:    "array with empty segments",
			input:   `[{"start": 0, "end": 0, "text": ""}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := extractTranscriptSegments(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(segments) != tt.wantCount {
				t.Errorf("got %d segments, want %d", len(segments), tt.wantCount)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON",
			input: `[{"start": 0, "end": 1, "text": "hello"}]`,
			want:  `[{"start": 0, "end": 1, "text": "hello"}]`,
		},
		{
			name:  "json code fence",
			input: "```json\n[{\"start\": 0, \"end\": 1, \"text\": \"hello\"}]\n```",
			want:  `[{"start": 0, "end": 1, "text": "hello"}]`,
		},
		{
			name:  "with leading/trailing whitespace",
			input: "  \n\n```json\n[{\"start\": 0}]\n```\n\n  ",
			want:  `[{"start": 0}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToSegmentsDropsEmptyText(t *testing.T) {
	got := toSegments([]transcriptSegment{
		{Start: 1, End: 2, Text: ""},
		{Start: 2, End: 3, Text: " spoken "},
	})
	if len(got) != 1 || got[0].Text != "spoken" || got[0].Start != 2 {
		t.Errorf("unexpected segments %+v", got)
	}
}
