package config

import (
	"fmt"
	"strconv"
	"strings"
)

type lookupFunc func(key string) (string, bool)

// applyEnv overlays environment variables. Provider keys use the names the
// vendors document; everything else is prefixed with SUBALIGN_.
func (c *Config) applyEnv(lookup lookupFunc) error {
	strs := []struct {
		key    string
		target *string
	}{
		{"OPENAI_API_KEY", &c.Providers.OpenAI.APIKey},
		{"OPENAI_BASE_URL", &c.Providers.OpenAI.BaseURL},
		{"GROQ_API_KEY", &c.Providers.Groq.APIKey},
		{"GROQ_BASE_URL", &c.Providers.Groq.BaseURL},
		{"GOOGLE_API_KEY", &c.Providers.Gemini.APIKey},
		{"GEMINI_API_KEY", &c.Providers.Gemini.APIKey},
		{"ANTHROPIC_API_KEY", &c.Providers.Anthropic.APIKey},
		{"SUBALIGN_PROVIDER", &c.Transcription.Provider},
		{"SUBALIGN_MODEL", &c.Transcription.Model},
		{"SUBALIGN_REFINE_MODEL", &c.Transcription.RefineModel},
		{"SUBALIGN_LANGUAGE", &c.Transcription.Language},
		{"SUBALIGN_TASK", &c.Transcription.Task},
		{"SUBALIGN_TRANSLATE_PROVIDER", &c.Translation.Provider},
		{"SUBALIGN_SOURCE_LANGUAGE", &c.Translation.SourceLanguage},
		{"SUBALIGN_FORMAT", &c.Output.Format},
		{"SUBALIGN_FFMPEG_PATH", &c.FFmpeg.FFmpegPath},
		{"SUBALIGN_FFPROBE_PATH", &c.FFmpeg.FFprobePath},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && strings.TrimSpace(v) != "" {
			*s.target = strings.TrimSpace(v)
		}
	}

	floats := []struct {
		key    string
		target *float64
	}{
		{"SUBALIGN_CHUNK_SECONDS", &c.Transcription.ChunkSeconds},
		{"SUBALIGN_TEMPERATURE", &c.Transcription.Temperature},
		{"SUBALIGN_TRANSLATE_TEMPERATURE", &c.Translation.Temperature},
	}
	for _, f := range floats {
		v, ok := lookup(f.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: invalid number %q", f.key, v)
		}
		*f.target = n
	}
	return nil
}
