package config

import (
	"github.com/mgpai22/subalign/internal/provider"
	"github.com/mgpai22/subalign/internal/subtitle"
	"github.com/mgpai22/subalign/internal/transcribe"
	"github.com/mgpai22/subalign/internal/translate"
)

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		Transcription: Transcription{
			Provider:     string(provider.ProviderOpenAI),
			Language:     "auto",
			Task:         string(transcribe.TaskTimestamped),
			ChunkSeconds: transcribe.DefaultMaxChunkSeconds,
		},
		Translation: Translation{
			Provider:    string(provider.ProviderGemini),
			Temperature: translate.DefaultTemperature,
		},
		Output: Output{
			Format: string(subtitle.FormatSRT),
		},
		Providers: Providers{
			Groq: Credentials{BaseURL: provider.DefaultGroqBaseURL},
		},
	}
}
