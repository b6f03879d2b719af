package transcribe

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mgpai22/subalign/internal/domain"
	"github.com/mgpai22/subalign/internal/provider"
	"github.com/mgpai22/subalign/internal/subtitle"
	"go.uber.org/zap"
)

// windows shorter than this are not worth a provider call
const minRefineWindow = 0.05

// Orchestrator turns media into timed text with a single adapter. Chunks and
// refinement segments are processed one at a time so progress stays
// monotonic and merged timestamps stay ordered.
type Orchestrator struct {
	adapter provider.Adapter
	logger  *zap.SugaredLogger
}

func NewOrchestrator(adapter provider.Adapter, logger *zap.SugaredLogger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Orchestrator{
		adapter: adapter,
		logger:  logger,
	}
}

// run-scoped state; owned by one Run call
type run struct {
	*Orchestrator
	onProgress ProgressFunc
	refining   bool
	last       Progress
}

func (r *run) report(p Progress) {
	p.Overall = math.Max(r.last.Overall, overall(p.Stage, p.Percentage, r.refining))
	r.last = p
	if r.onProgress != nil {
		r.onProgress(p)
	}
}

// moves the run to the error stage and returns err
func (r *run) fail(err error) error {
	p := r.last
	p.Stage = StageError
	p.Message = err.Error()
	r.report(p)
	r.logger.Errorw("transcription run failed", "error", err)
	return err
}

// Run executes idle -> chunking -> transcribing -> [refining] -> complete.
// A chunk failure aborts the run with a nil result; a segment refinement
// failure is counted and the segment keeps its text.
func (o *Orchestrator) Run(
	ctx context.Context,
	media MediaSource,
	req Request,
	onProgress ProgressFunc,
) (*Result, error) {
	if o.adapter == nil {
		return nil, domain.NewValidationError("provider", "no provider adapter configured")
	}
	if media == nil {
		return nil, domain.NewValidationError("media", "no media source")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	duration := media.Duration()
	if math.IsNaN(duration) || duration <= 0 {
		return nil, domain.NewValidationError("duration", fmt.Sprintf("media duration %v is not positive", duration))
	}

	r := &run{
		Orchestrator: o,
		onProgress:   onProgress,
		refining:     req.Refine && req.Task != TaskWholeText,
	}

	r.report(Progress{Stage: StageChunking, Message: "Planning audio chunks"})
	chunks, err := PlanChunks(duration, req.MaxChunkSeconds)
	if err != nil {
		return nil, r.fail(err)
	}
	o.logger.Infow("transcription started",
		"provider", o.adapter.Name(),
		"task", req.Task,
		"duration", duration,
		"chunks", len(chunks),
	)

	result := &Result{Duration: duration, Chunks: len(chunks)}
	switch req.Task {
	case TaskWholeText:
		text, err := r.transcribeWholeText(ctx, media, chunks, req)
		if err != nil {
			return nil, err
		}
		result.FullText = text
	default:
		entries, err := r.transcribeTimestamped(ctx, media, chunks, req)
		if err != nil {
			return nil, err
		}
		if req.Refine && len(entries) > 0 {
			entries, result.Refinement, err = r.refine(ctx, media, entries, req)
			if err != nil {
				return nil, err
			}
		}
		result.Entries = entries
	}

	r.report(Progress{
		Stage:       StageComplete,
		Percentage:  100,
		TotalChunks: len(chunks),
		Message:     "Transcription complete",
	})
	o.logger.Infow("transcription finished",
		"entries", len(result.Entries),
		"refined", result.Refinement.Refined,
		"refine_failed", result.Refinement.Failed,
	)
	return result, nil
}

// calls fn for each chunk in order with that chunk's audio
func (r *run) eachChunk(
	ctx context.Context,
	media MediaSource,
	chunks []Chunk,
	fn func(Chunk, provider.Audio) error,
) error {
	total := len(chunks)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return r.fail(err)
		}
		r.report(Progress{
			Stage:        StageTranscribing,
			Percentage:   percent(i, total),
			CurrentChunk: i + 1,
			TotalChunks:  total,
			Message:      fmt.Sprintf("Transcribing chunk %d of %d", i+1, total),
		})

		audio, err := media.Extract(ctx, chunk.Start, chunk.End)
		if err != nil {
			return r.fail(fmt.Errorf("chunk %d: failed to extract audio: %w", i+1, err))
		}
		if err := fn(chunk, audio); err != nil {
			return r.fail(fmt.Errorf("chunk %d failed: %w", i+1, err))
		}

		r.report(Progress{
			Stage:        StageTranscribing,
			Percentage:   percent(i+1, total),
			CurrentChunk: i + 1,
			TotalChunks:  total,
			Message:      fmt.Sprintf("Transcribed chunk %d of %d", i+1, total),
		})
	}
	return nil
}

func (r *run) transcribeTimestamped(
	ctx context.Context,
	media MediaSource,
	chunks []Chunk,
	req Request,
) ([]subtitle.Entry, error) {
	opts := req.options()
	var entries []subtitle.Entry

	err := r.eachChunk(ctx, media, chunks, func(chunk Chunk, audio provider.Audio) error {
		segments, err := r.adapter.TranscribeTimestamped(ctx, audio, opts)
		if err != nil {
			return err
		}
		if len(segments) == 0 {
			r.logger.Warnw("chunk produced no segments",
				"chunk", chunk.Index+1,
				"start", chunk.Start,
				"error", domain.ErrEmptyResult,
			)
			return nil
		}
		entries = append(entries, placeSegments(segments, chunk)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *run) transcribeWholeText(
	ctx context.Context,
	media MediaSource,
	chunks []Chunk,
	req Request,
) (string, error) {
	opts := req.options()
	var parts []string

	err := r.eachChunk(ctx, media, chunks, func(chunk Chunk, audio provider.Audio) error {
		text, err := r.adapter.TranscribeWholeText(ctx, audio, opts)
		if err != nil {
			return err
		}
		if text = strings.TrimSpace(text); text == "" {
			r.logger.Warnw("chunk produced no text",
				"chunk", chunk.Index+1,
				"start", chunk.Start,
				"error", domain.ErrEmptyResult,
			)
			return nil
		}
		parts = append(parts, text)
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.Join(parts, " "), nil
}

// offsets chunk-local segments into media time. Times are clamped to the
// chunk window so chunks never overlap; a segment without timing spans the
// whole chunk.
func placeSegments(segments []subtitle.Segment, chunk Chunk) []subtitle.Entry {
	length := chunk.Duration()
	sorted := make([]subtitle.Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	entries := make([]subtitle.Entry, 0, len(sorted))
	for _, seg := range sorted {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		start := clamp(seg.Start, 0, length)
		end := clamp(seg.End, start, length)
		if seg.Start == 0 && seg.End == 0 {
			end = length
		}
		entries = append(entries, subtitle.Entry{
			ID:        uuid.NewString(),
			StartTime: subtitle.RoundMillis(chunk.Start + start),
			EndTime:   subtitle.RoundMillis(chunk.Start + end),
			Text:      text,
		})
	}
	return entries
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// re-transcribes every entry's window and swaps in the new text. Entries are
// tracked by id so a failed segment can never shift another's text.
func (r *run) refine(
	ctx context.Context,
	media MediaSource,
	entries []subtitle.Entry,
	req Request,
) ([]subtitle.Entry, RefineStats, error) {
	var stats RefineStats

	track, err := subtitle.NewTrack("", subtitle.FormatSRT, entries)
	if err != nil {
		return nil, stats, r.fail(err)
	}

	opts := req.refineOptions()
	snapshot := track.Entries()
	total := len(snapshot)

	for j, entry := range snapshot {
		if err := ctx.Err(); err != nil {
			return nil, stats, r.fail(err)
		}
		r.report(Progress{
			Stage:          StageRefining,
			Percentage:     percent(j, total),
			CurrentSegment: j + 1,
			TotalSegments:  total,
			Message:        fmt.Sprintf("Refining segment %d of %d", j+1, total),
		})

		if err := r.refineEntry(ctx, media, track, entry, opts); err != nil {
			stats.Failed++
			r.logger.Warnw("segment refinement failed, keeping original text",
				"segment", j+1,
				"start", entry.StartTime,
				"end", entry.EndTime,
				"error", err,
			)
		} else {
			stats.Refined++
		}
		stats.Completed++

		r.report(Progress{
			Stage:          StageRefining,
			Percentage:     percent(j+1, total),
			CurrentSegment: j + 1,
			TotalSegments:  total,
			Message:        fmt.Sprintf("Refined segment %d of %d", j+1, total),
		})
	}
	return track.Entries(), stats, nil
}

func (r *run) refineEntry(
	ctx context.Context,
	media MediaSource,
	track *subtitle.Track,
	entry subtitle.Entry,
	opts provider.TranscribeOptions,
) error {
	if entry.EndTime-entry.StartTime < minRefineWindow {
		return fmt.Errorf("window of %.3fs is too short", entry.EndTime-entry.StartTime)
	}

	audio, err := media.Extract(ctx, entry.StartTime, entry.EndTime)
	if err != nil {
		return fmt.Errorf("failed to extract audio: %w", err)
	}
	text, err := r.adapter.TranscribeWholeText(ctx, audio, opts)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyResult
	}
	return track.SetText(entry.ID, text)
}
