package translate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mgpai22/subalign/internal/domain"
	"github.com/mgpai22/subalign/internal/subtitle"
	"go.uber.org/zap"
)

// low temperature keeps translations literal
const DefaultTemperature = 0.1

// values that are never sent for translation, compared case-insensitively
var placeholders = []string{"...", "…", "null", subtitle.DefaultEntryText}

// TextGenerator is the slice of a provider adapter the pass needs.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float64) (string, error)
}

type Options struct {
	SourceLanguage string
	Temperature    *float64 // nil means DefaultTemperature; zero is honoured
	Prompt         string  // extra instructions appended to every request
}

// outcome of translating one text
type Outcome int

const (
	OutcomeTranslated Outcome = iota
	OutcomeSkipped
	OutcomeFallback
)

// Pass translates texts one at a time. It is best-effort: any failure
// returns the original text, so an entry is never lost or blanked.
type Pass struct {
	generator   TextGenerator
	options     Options
	temperature float64
	logger      *zap.SugaredLogger
}

func NewPass(generator TextGenerator, opts Options, logger *zap.SugaredLogger) *Pass {
	temperature := DefaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Pass{
		generator:   generator,
		options:     opts,
		temperature: temperature,
		logger:      logger,
	}
}

// ShouldSkip reports whether text is too short or a placeholder.
func ShouldSkip(text string) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < 2 {
		return true
	}
	for _, p := range placeholders {
		if strings.EqualFold(trimmed, p) {
			return true
		}
	}
	return false
}

// Translate returns text in targetLanguage, or text unchanged when it is
// skipped or the provider fails.
func (p *Pass) Translate(ctx context.Context, text, targetLanguage string) string {
	translated, _ := p.translate(ctx, text, targetLanguage)
	return translated
}

func (p *Pass) translate(ctx context.Context, text, targetLanguage string) (string, Outcome) {
	if ShouldSkip(text) || strings.TrimSpace(targetLanguage) == "" || p.generator == nil {
		return text, OutcomeSkipped
	}

	prompt := BuildPrompt(text, p.options.SourceLanguage, targetLanguage, p.options.Prompt)
	result, err := p.generator.GenerateText(ctx, prompt, p.temperature)
	if err != nil {
		p.logger.Warnw("translation failed, keeping original text",
			"target", targetLanguage,
			"error", err,
		)
		return text, OutcomeFallback
	}

	result = cleanTranslation(result)
	if result == "" {
		p.logger.Warnw("translation came back empty, keeping original text",
			"target", targetLanguage,
			"error", domain.ErrEmptyResult,
		)
		return text, OutcomeFallback
	}
	return result, OutcomeTranslated
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(text, sourceLanguage, targetLanguage, extra string) string {
	var sb strings.Builder

	if sourceLanguage != "" && !strings.EqualFold(sourceLanguage, "auto") {
		sb.WriteString(fmt.Sprintf(
			"Translate the following %s subtitle text to %s.\n\n",
			sourceLanguage,
			targetLanguage,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Translate the following subtitle text to %s.\n\n",
			targetLanguage,
		))
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Translate directly, preserving the meaning. Do not paraphrase or summarize.\n")
	sb.WriteString("2. Keep line breaks in the same positions.\n")
	sb.WriteString("3. Return ONLY the translated text, with no quotes, notes or explanation.\n\n")

	if extra != "" {
		sb.WriteString(fmt.Sprintf("Additional instructions: %s\n\n", extra))
	}

	sb.WriteString("Text:\n")
	sb.WriteString(text)

	return sb.String()
}

var fenceRegex = regexp.MustCompile("^```[a-zA-Z]*\\s*|\\s*```$")

// strips code fences and wrapping quotes models sometimes add
func cleanTranslation(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(fenceRegex.ReplaceAllString(s, ""))
	for _, pair := range [][2]string{{`"`, `"`}, {"“", "”"}, {"«", "»"}} {
		if len(s) > len(pair[0])+len(pair[1]) &&
			strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) &&
			!strings.Contains(s[len(pair[0]):len(s)-len(pair[1])], pair[0]) {
			s = strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
			break
		}
	}
	return s
}
