package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/mgpai22/subalign/internal/logging"
	"github.com/mgpai22/subalign/internal/transcribe"
)

// progressReporter draws a bar on terminals and logs otherwise.
type progressReporter struct {
	out    io.Writer
	logger *logging.Logger
	bar    *progressbar.ProgressBar
	stage  string
	decile int
}

func newProgressReporter(out io.Writer, logger *logging.Logger) *progressReporter {
	return newProgressReporterMode(out, logger, isTerminal(out))
}

func newProgressReporterMode(out io.Writer, logger *logging.Logger, interactive bool) *progressReporter {
	r := &progressReporter{out: out, logger: logger}
	if interactive {
		r.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	return r
}

func (r *progressReporter) step(stage string, pct float64, message string, fields ...interface{}) {
	if stage != r.stage {
		r.stage = stage
		if r.bar != nil {
			r.bar.Describe(stage)
		}
	}

	if r.bar != nil {
		_ = r.bar.Set(int(pct))
		return
	}
	args := append([]interface{}{"stage", stage, "percent", fmt.Sprintf("%.0f", pct)}, fields...)
	r.logger.Infow(message, args...)
}

// transcription progress callback
func (r *progressReporter) transcription(p transcribe.Progress) {
	switch p.Stage {
	case transcribe.StageRefining:
		r.step(string(p.Stage), p.Overall, p.Message,
			"segment", p.CurrentSegment,
			"segments", p.TotalSegments,
		)
	case transcribe.StageError:
		if r.bar != nil {
			_ = r.bar.Clear()
		}
		r.logger.Warnw(p.Message, "chunk", p.CurrentChunk, "chunks", p.TotalChunks)
	default:
		r.step(string(p.Stage), p.Overall, p.Message,
			"chunk", p.CurrentChunk,
			"chunks", p.TotalChunks,
		)
	}
}

// translation progress callback
func (r *progressReporter) translation(done, total int) {
	pct := 100.0
	if total > 0 {
		pct = float64(done) / float64(total) * 100
	}
	// log lines every 10%; the bar redraws on every entry
	if r.bar == nil && done < total && int(pct)/10 == r.decile {
		return
	}
	r.decile = int(pct) / 10
	r.step("translating", pct, "Translating entries", "entry", done, "entries", total)
}

func (r *progressReporter) finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
