package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/mgpai22/subalign/internal/provider"
	"github.com/mgpai22/subalign/internal/subtitle"
	"github.com/mgpai22/subalign/internal/transcribe"
)

func (c *Config) normalize() {
	c.Transcription.Provider = strings.ToLower(strings.TrimSpace(c.Transcription.Provider))
	c.Translation.Provider = strings.ToLower(strings.TrimSpace(c.Translation.Provider))
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))

	if strings.TrimSpace(c.Transcription.Language) == "" {
		c.Transcription.Language = "auto"
	}
	if c.Transcription.Task == "" {
		c.Transcription.Task = string(transcribe.TaskTimestamped)
	}
	if c.Transcription.ChunkSeconds == 0 {
		c.Transcription.ChunkSeconds = transcribe.DefaultMaxChunkSeconds
	}
	if c.Output.Format == "" {
		c.Output.Format = string(subtitle.FormatSRT)
	}
	if c.Providers.Groq.BaseURL == "" {
		c.Providers.Groq.BaseURL = provider.DefaultGroqBaseURL
	}
}

// Validate ensures the configuration is usable. API keys are checked by the
// commands that need them, so a config without keys is still valid.
func (c *Config) Validate() error {
	if _, err := provider.ParseProvider(c.Transcription.Provider); err != nil {
		return fmt.Errorf("transcription.provider: %w", err)
	}
	if _, err := provider.ParseProvider(c.Translation.Provider); err != nil {
		return fmt.Errorf("translation.provider: %w", err)
	}
	if _, err := transcribe.ParseTask(c.Transcription.Task); err != nil {
		return fmt.Errorf("transcription.task: %w", err)
	}
	if _, err := subtitle.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if math.IsNaN(c.Transcription.ChunkSeconds) || c.Transcription.ChunkSeconds <= 0 {
		return fmt.Errorf("transcription.chunk_seconds must be positive")
	}
	if err := validateTemperature("transcription.temperature", c.Transcription.Temperature); err != nil {
		return err
	}
	return validateTemperature("translation.temperature", c.Translation.Temperature)
}

func validateTemperature(field string, t float64) error {
	if math.IsNaN(t) || t < 0 || t > 2 {
		return fmt.Errorf("%s must be between 0 and 2", field)
	}
	return nil
}
