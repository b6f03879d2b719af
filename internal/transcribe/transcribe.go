package transcribe

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/mgpai22/subalign/internal/domain"
	"github.com/mgpai22/subalign/internal/provider"
	"github.com/mgpai22/subalign/internal/subtitle"
)

// what a run produces: timed cues or one block of text
type Task string

const (
	TaskTimestamped Task = "timestamped"
	TaskWholeText   Task = "whole-text"
)

func ParseTask(s string) (Task, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "timestamped", "timestamps":
		return TaskTimestamped, nil
	case "whole-text", "wholetext", "text":
		return TaskWholeText, nil
	default:
		return "", domain.NewValidationError("task", fmt.Sprintf("unknown task %q", s))
	}
}

// MediaSource supplies the duration of the media and provider-ready audio
// for any window of it.
type MediaSource interface {
	Duration() float64
	Extract(ctx context.Context, start, end float64) (provider.Audio, error)
}

// DefaultMaxChunkSeconds keeps requests under provider upload limits.
const DefaultMaxChunkSeconds = 300

// transcription request for one run
type Request struct {
	Model           string
	RefineModel     string // model for the refinement stage, falls back to Model
	Language        string // BCP-47 code or "auto"
	Task            Task
	MaxChunkSeconds float64
	Prompt          string
	Temperature     float64
	Refine          bool
}

func (r Request) validate() error {
	if r.Task != TaskTimestamped && r.Task != TaskWholeText {
		return domain.NewValidationError("task", fmt.Sprintf("unknown task %q", r.Task))
	}
	if math.IsNaN(r.MaxChunkSeconds) || r.MaxChunkSeconds <= 0 {
		return domain.NewValidationError("max chunk seconds", "must be greater than zero")
	}
	if math.IsNaN(r.Temperature) || r.Temperature < 0 {
		return domain.NewValidationError("temperature", "must not be negative")
	}
	if r.Refine && r.Task == TaskWholeText {
		return domain.NewValidationError("refine", "refinement needs timestamped output")
	}
	return nil
}

func (r Request) options() provider.TranscribeOptions {
	return provider.TranscribeOptions{
		Model:       r.Model,
		Language:    r.Language,
		Prompt:      r.Prompt,
		Temperature: r.Temperature,
	}
}

func (r Request) refineOptions() provider.TranscribeOptions {
	opts := r.options()
	if r.RefineModel != "" {
		opts.Model = r.RefineModel
	}
	return opts
}

// counters for the refinement stage
type RefineStats struct {
	Completed int
	Refined   int
	Failed    int
}

// transcription result. Entries is set for timestamped runs, FullText for
// whole-text runs.
type Result struct {
	Entries    []subtitle.Entry
	FullText   string
	Refinement RefineStats
	Duration   float64
	Chunks     int
}
