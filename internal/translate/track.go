package translate

import (
	"context"
	"strings"

	"github.com/mgpai22/subalign/internal/domain"
	"github.com/mgpai22/subalign/internal/subtitle"
)

// counters for a whole-track pass
type Stats struct {
	Total      int
	Translated int
	Skipped    int
	Fallback   int
}

// called after each entry with the number of entries processed
type ProgressFunc func(done, total int)

// TranslateTrack translates every entry in order, writing results back by
// entry id. Provider failures never stop the pass; only an empty target
// language or a cancelled context return an error.
func (p *Pass) TranslateTrack(
	ctx context.Context,
	track *subtitle.Track,
	targetLanguage string,
	onProgress ProgressFunc,
) (Stats, error) {
	var stats Stats
	if strings.TrimSpace(targetLanguage) == "" {
		return stats, domain.NewValidationError("target language", "target language is required")
	}
	if track == nil {
		return stats, domain.NewValidationError("track", "no subtitle track")
	}

	entries := track.Entries()
	stats.Total = len(entries)

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		text, outcome := p.translate(ctx, entry.Text, targetLanguage)
		switch outcome {
		case OutcomeTranslated:
			if err := track.SetText(entry.ID, text); err != nil {
				return stats, err
			}
			stats.Translated++
		case OutcomeSkipped:
			stats.Skipped++
		case OutcomeFallback:
			stats.Fallback++
		}

		if onProgress != nil {
			onProgress(i+1, stats.Total)
		}
	}

	p.logger.Infow("translation pass finished",
		"target", targetLanguage,
		"translated", stats.Translated,
		"skipped", stats.Skipped,
		"fallback", stats.Fallback,
	)
	return stats, nil
}
