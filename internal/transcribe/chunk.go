package transcribe

import (
	"fmt"
	"math"

	"github.com/mgpai22/subalign/internal/domain"
	"github.com/mgpai22/subalign/internal/subtitle"
)

// window of media submitted to a provider in one call
type Chunk struct {
	Index int
	Start float64
	End   float64
}

func (c Chunk) Duration() float64 {
	return c.End - c.Start
}

// PlanChunks splits duration into sequential, non-overlapping chunks of at
// most maxChunk seconds. Only the last chunk may be shorter.
func PlanChunks(duration, maxChunk float64) ([]Chunk, error) {
	if math.IsNaN(maxChunk) || maxChunk <= 0 {
		return nil, domain.NewValidationError("max chunk seconds", "must be greater than zero")
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return nil, domain.NewValidationError("duration", fmt.Sprintf("media duration %v is not positive", duration))
	}

	duration = subtitle.RoundMillis(duration)
	count := int(math.Ceil(duration / maxChunk))
	// float noise can add a sub-millisecond tail chunk
	if count > 1 && duration-float64(count-1)*maxChunk < 0.001 {
		count--
	}

	chunks := make([]Chunk, count)
	for i := range chunks {
		start := subtitle.RoundMillis(float64(i) * maxChunk)
		end := subtitle.RoundMillis(math.Min(float64(i+1)*maxChunk, duration))
		if i == count-1 {
			end = duration
		}
		chunks[i] = Chunk{Index: i, Start: start, End: end}
	}
	return chunks, nil
}
