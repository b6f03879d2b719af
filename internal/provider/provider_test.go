package provider

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/mgpai22/subalign/internal/domain"
	"github.com/mgpai22/subalign/internal/subtitle"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input   string
		want    Provider
		wantErr bool
	}{
		{"openai", ProviderOpenAI, false},
		{" Groq ", ProviderGroq, false},
		{"GEMINI", ProviderGemini, false},
		{"anthropic", ProviderAnthropic, false},
		{"whisper", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseProvider(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestNewReturnsAdapter(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		provider Provider
		check    func(Adapter) bool
	}{
		{ProviderOpenAI, func(a Adapter) bool { _, ok := a.(*OpenAIAdapter); return ok }},
		{ProviderGroq, func(a Adapter) bool { _, ok := a.(*OpenAIAdapter); return ok }},
		{ProviderGemini, func(a Adapter) bool { _, ok := a.(*GeminiAdapter); return ok }},
		{ProviderAnthropic, func(a Adapter) bool { _, ok := a.(*AnthropicAdapter); return ok }},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			adapter, err := New(ctx, tt.provider, Config{APIKey: "fake-key"})
			if err != nil {
				t.Fatalf("New(%s) returned error: %v", tt.provider, err)
			}
			if !tt.check(adapter) {
				t.Errorf("unexpected adapter type %T", adapter)
			}
			if adapter.Name() != tt.provider {
				t.Errorf("expected name %q, got %q", tt.provider, adapter.Name())
			}
		})
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), ProviderOpenAI, Config{APIKey: "  "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Provider("whisper"), Config{APIKey: "fake-key"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGroqDefaults(t *testing.T) {
	adapter, err := NewOpenAIAdapter(ProviderGroq, Config{APIKey: "fake-key"})
	if err != nil {
		t.Fatalf("NewOpenAIAdapter error: %v", err)
	}
	if adapter.transcribeModel != defaultGroqTranscribeModel {
		t.Errorf("expected %q, got %q", defaultGroqTranscribeModel, adapter.transcribeModel)
	}
	if adapter.generateModel != defaultGroqGenerateModel {
		t.Errorf("expected %q, got %q", defaultGroqGenerateModel, adapter.generateModel)
	}

	custom, _ := NewOpenAIAdapter(ProviderOpenAI, Config{APIKey: "fake-key", Model: "gpt-4o"})
	if custom.generateModel != "gpt-4o" {
		t.Errorf("expected model override, got %q", custom.generateModel)
	}
}

func TestOpenAIChatParamsTemperature(t *testing.T) {
	tests := []struct {
		provider Provider
		model    string
		wantTemp bool
	}{
		{ProviderOpenAI, "", false}, // default gpt-5-mini
		{ProviderOpenAI, "gpt-5", false},
		{ProviderOpenAI, "o4-mini", false},
		{ProviderOpenAI, "gpt-4.1-mini", true},
		{ProviderOpenAI, "gpt-4o", true},
		{ProviderGroq, "", true},
		{ProviderGroq, "openai/gpt-oss-20b", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider)+"/"+tt.model, func(t *testing.T) {
			adapter, err := NewOpenAIAdapter(tt.provider, Config{APIKey: "fake-key", Model: tt.model})
			if err != nil {
				t.Fatalf("NewOpenAIAdapter error: %v", err)
			}
			params := adapter.chatParams("Translate this", 0.3)
			if params.Model != adapter.generateModel {
				t.Errorf("expected model %q, got %q", adapter.generateModel, params.Model)
			}
			if got := params.Temperature.Valid(); got != tt.wantTemp {
				t.Fatalf("temperature set = %v, want %v", got, tt.wantTemp)
			}
			if tt.wantTemp && params.Temperature.Value != 0.3 {
				t.Errorf("expected temperature 0.3, got %v", params.Temperature.Value)
			}
		})
	}
}

func TestAnthropicTranscriptionUnsupported(t *testing.T) {
	adapter, err := NewAnthropicAdapter(Config{APIKey: "fake-key"})
	if err != nil {
		t.Fatalf("NewAnthropicAdapter error: %v", err)
	}
	ctx := context.Background()
	audio := Audio{Data: []byte{1, 2, 3}, MIMEType: "audio/mpeg"}

	if _, err := adapter.TranscribeTimestamped(ctx, audio, TranscribeOptions{}); !errors.Is(err, domain.ErrCapabilityUnsupported) {
		t.Errorf("expected capability unsupported, got %v", err)
	}
	_, err = adapter.TranscribeWholeText(ctx, audio, TranscribeOptions{})
	var capErr *domain.CapabilityUnsupportedError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *CapabilityUnsupportedError, got %v", err)
	}
	if capErr.Provider != "anthropic" || capErr.Capability != CapabilityWholeText {
		t.Errorf("unexpected error fields: %+v", capErr)
	}
}

func TestValidationBeforeNetwork(t *testing.T) {
	ctx := context.Background()
	for _, p := range []Provider{ProviderOpenAI, ProviderGroq, ProviderGemini} {
		t.Run(string(p), func(t *testing.T) {
			adapter, err := New(ctx, p, Config{APIKey: "fake-key"})
			if err != nil {
				t.Fatalf("New error: %v", err)
			}
			if _, err := adapter.TranscribeTimestamped(ctx, Audio{}, TranscribeOptions{}); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("timestamped: expected validation error, got %v", err)
			}
			if _, err := adapter.TranscribeWholeText(ctx, Audio{}, TranscribeOptions{}); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("whole text: expected validation error, got %v", err)
			}
			if _, err := adapter.GenerateText(ctx, "   ", 0.1); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("generate: expected validation error, got %v", err)
			}
		})
	}

	anthropicAdapter, _ := New(ctx, ProviderAnthropic, Config{APIKey: "fake-key"})
	if _, err := anthropicAdapter.GenerateText(ctx, "", 0.1); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("anthropic generate: expected validation error, got %v", err)
	}
}

func TestIsAutoLanguage(t *testing.T) {
	tests := map[string]bool{
		"":      true,
		"auto":  true,
		" AUTO": true,
		"en":    false,
		"pt-BR": false,
	}
	for input, want := range tests {
		if got := isAutoLanguage(input); got != want {
			t.Errorf("isAutoLanguage(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNormalizeSegments(t *testing.T) {
	in := []subtitle.Segment{
		{Start: 0, End: 1, Text: "  hello  "},
		{Start: 1, End: 2, Text: "   "},
		{Start: -0.5, End: 3, Text: "negative start"},
		{Start: 5, End: 4, Text: "inverted"},
	}
	got := normalizeSegments(in)
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}
	if got[0].Text != "hello" {
		t.Errorf("expected trimmed text, got %q", got[0].Text)
	}
	if got[1].Start != 0 {
		t.Errorf("expected start clamped to 0, got %v", got[1].Start)
	}
	if got[2].End != 5 {
		t.Errorf("expected end raised to start, got %v", got[2].End)
	}
}

func TestAudioFileName(t *testing.T) {
	tests := map[string]string{
		"audio/mpeg": "audio.mp3",
		"audio/wav":  "audio.wav",
		"audio/flac": "audio.flac",
		"":           "audio.mp3",
	}
	for mime, want := range tests {
		if got := audioFileName(mime); got != want {
			t.Errorf("audioFileName(%q) = %q, want %q", mime, got, want)
		}
	}
}

func TestGeminiPrompts(t *testing.T) {
	auto := buildTimestampedPrompt(TranscribeOptions{Language: "auto"})
	if strings.Contains(auto, "The audio is in") {
		t.Error("auto language should not be named in the prompt")
	}

	withLang := buildTimestampedPrompt(TranscribeOptions{Language: "ja", Prompt: "Speaker names: Aki."})
	if !strings.Contains(withLang, "The audio is in ja.") || !strings.Contains(withLang, "Speaker names: Aki.") {
		t.Errorf("prompt missing language or extra instructions: %s", withLang)
	}

	whole := buildWholeTextPrompt(TranscribeOptions{})
	if strings.Contains(whole, "JSON") {
		t.Errorf("whole-text prompt should not ask for JSON: %s", whole)
	}
}

// Integration test: only runs if OPENAI_API_KEY is set
func TestOpenAIGenerateIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set; skipping integration test")
	}

	adapter, err := New(context.Background(), ProviderOpenAI, Config{APIKey: apiKey})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	text, err := adapter.GenerateText(context.Background(), "Reply with the single word: pong", 0)
	if err != nil {
		t.Fatalf("GenerateText error: %v", err)
	}
	if text == "" {
		t.Error("expected non-empty reply")
	}
}
