package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/subalign/internal/domain"
	"github.com/mgpai22/subalign/internal/subtitle"
)

// transcription/generation service provider
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderGroq      Provider = "groq" // OpenAI-compatible endpoint
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

// Providers lists every supported provider in display order.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderGroq, ProviderGemini, ProviderAnthropic}
}

func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers() {
		if p == known {
			return p, nil
		}
	}
	return "", domain.NewValidationError("provider", fmt.Sprintf("unknown provider %q", s))
}

// capability names used in CapabilityUnsupportedError
const (
	CapabilityTimestamped = "timestamped transcription"
	CapabilityWholeText   = "whole-text transcription"
	CapabilityGenerate    = "text generation"
)

// Audio is a provider-compatible payload for one slice of media.
type Audio struct {
	Data     []byte
	MIMEType string
}

type TranscribeOptions struct {
	Model       string
	Language    string // BCP-47 code, "" or "auto" to let the provider detect
	Prompt      string
	Temperature float64
}

// Config carries credentials and endpoint settings for a single request.
// Model is the text generation model; transcription models come from
// TranscribeOptions.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Adapter is the uniform contract every provider implements. Capabilities a
// provider lacks fail with a CapabilityUnsupportedError.
type Adapter interface {
	Name() Provider
	TranscribeTimestamped(ctx context.Context, audio Audio, opts TranscribeOptions) ([]subtitle.Segment, error)
	TranscribeWholeText(ctx context.Context, audio Audio, opts TranscribeOptions) (string, error)
	GenerateText(ctx context.Context, prompt string, temperature float64) (string, error)
}

// creates the adapter for a provider
func New(ctx context.Context, name Provider, cfg Config) (Adapter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.NewValidationError("api key", fmt.Sprintf("%s API key is required", name))
	}

	switch name {
	case ProviderOpenAI, ProviderGroq:
		return NewOpenAIAdapter(name, cfg)
	case ProviderGemini:
		return NewGeminiAdapter(ctx, cfg)
	case ProviderAnthropic:
		return NewAnthropicAdapter(cfg)
	default:
		return nil, domain.NewValidationError("provider", fmt.Sprintf("unsupported provider %q", name))
	}
}

func validateAudio(audio Audio) error {
	if len(audio.Data) == 0 {
		return domain.NewValidationError("audio", "no audio data")
	}
	return nil
}

func validatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return domain.NewValidationError("prompt", "prompt is empty")
	}
	return nil
}

func mimeType(audio Audio) string {
	if audio.MIMEType == "" {
		return "audio/mpeg"
	}
	return audio.MIMEType
}

// multipart file name the transcription endpoints use to sniff the codec
func audioFileName(mime string) string {
	switch mime {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "audio.wav"
	case "audio/flac":
		return "audio.flac"
	case "audio/ogg":
		return "audio.ogg"
	case "audio/webm":
		return "audio.webm"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return "audio.m4a"
	default:
		return "audio.mp3"
	}
}

// true when the language should be left to provider auto-detection
func isAutoLanguage(lang string) bool {
	lang = strings.TrimSpace(lang)
	return lang == "" || strings.EqualFold(lang, "auto")
}

// trims text, drops empty segments and repairs inverted or negative times
func normalizeSegments(segments []subtitle.Segment) []subtitle.Segment {
	out := make([]subtitle.Segment, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		start := max(seg.Start, 0)
		end := max(seg.End, start)
		out = append(out, subtitle.Segment{Start: start, End: end, Text: text})
	}
	return out
}

func unsupported(name Provider, capability string) error {
	return &domain.CapabilityUnsupportedError{Provider: string(name), Capability: capability}
}

func providerError(name Provider, op string, err error) error {
	return &domain.ProviderError{Provider: string(name), Op: op, Err: err}
}
