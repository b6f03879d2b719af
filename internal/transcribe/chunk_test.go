package transcribe

import (
	"errors"
	"testing"

	"github.com/mgpai22/subalign/internal/domain"
)

func TestPlanChunks(t *testing.T) {
	tests := []struct {
		name      string
		duration  float64
		maxChunk  float64
		wantCount int
		wantLast  Chunk
	}{
		{"exact multiple", 90, 30, 3, Chunk{Index: 2, Start: 60, End: 90}},
		{"shorter last chunk", 100, 30, 4, Chunk{Index: 3, Start: 90, End: 100}},
		{"single chunk", 12.5, 300, 1, Chunk{Index: 0, Start: 0, End: 12.5}},
		{"equal to max", 300, 300, 1, Chunk{Index: 0, Start: 0, End: 300}},
		{"sub-millisecond tail dropped", 60.0004, 30, 2, Chunk{Index: 1, Start: 30, End: 60}},
		{"fractional max", 1, 0.3, 4, Chunk{Index: 3, Start: 0.9, End: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := PlanChunks(tt.duration, tt.maxChunk)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(chunks) != tt.wantCount {
				t.Fatalf("got %d chunks, want %d", len(chunks), tt.wantCount)
			}
			if last := chunks[len(chunks)-1]; last != tt.wantLast {
				t.Errorf("last chunk = %+v, want %+v", last, tt.wantLast)
			}
			for i := 1; i < len(chunks); i++ {
				if chunks[i].Start != chunks[i-1].End {
					t.Errorf("chunk %d starts at %v, previous ends at %v", i, chunks[i].Start, chunks[i-1].End)
				}
				if chunks[i-1].Duration() > tt.maxChunk+0.0005 {
					t.Errorf("chunk %d longer than max: %v", i-1, chunks[i-1].Duration())
				}
			}
		})
	}
}

func TestPlanChunksValidation(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		maxChunk float64
	}{
		{"zero max", 10, 0},
		{"negative max", 10, -5},
		{"zero duration", 0, 30},
		{"negative duration", -1, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PlanChunks(tt.duration, tt.maxChunk); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
