package transcribe

type Stage string

const (
	StageIdle         Stage = "idle"
	StageChunking     Stage = "chunking"
	StageTranscribing Stage = "transcribing"
	StageRefining     Stage = "refining"
	StageComplete     Stage = "complete"
	StageError        Stage = "error"
)

// Progress is a snapshot of a run. Percentage is relative to the current
// stage: it never decreases within a stage and starts again at 0 when
// refining begins. Overall covers the whole run and never decreases; with
// refinement, transcribing fills the first half and refining the second.
type Progress struct {
	Stage          Stage
	Percentage     float64
	Overall        float64
	CurrentChunk   int
	TotalChunks    int
	CurrentSegment int
	TotalSegments  int
	Message        string
}

// called synchronously on the goroutine running the orchestrator
type ProgressFunc func(Progress)

func percent(done, total int) float64 {
	if total <= 0 {
		return 100
	}
	return float64(done) / float64(total) * 100
}

// maps a stage-local percentage onto the whole run
func overall(stage Stage, pct float64, refining bool) float64 {
	switch stage {
	case StageTranscribing:
		if refining {
			return pct / 2
		}
		return pct
	case StageRefining:
		return 50 + pct/2
	case StageComplete:
		return 100
	default:
		return 0
	}
}
