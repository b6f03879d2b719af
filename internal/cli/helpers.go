package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/subalign/internal/provider"
	"github.com/mgpai22/subalign/internal/subtitle"
)

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// environment variable that holds the API key for a provider
func apiKeyEnv(p provider.Provider) string {
	switch p {
	case provider.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case provider.ProviderGroq:
		return "GROQ_API_KEY"
	case provider.ProviderGemini:
		return "GEMINI_API_KEY"
	case provider.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "API_KEY"
	}
}

// credentials for a provider with command line overrides applied
func (a *app) credentials(p provider.Provider, apiKey, model string) (provider.Config, error) {
	creds := a.cfg.Credentials(p)
	if apiKey != "" {
		creds.APIKey = apiKey
	}
	if model != "" {
		creds.Model = model
	}
	if creds.APIKey == "" {
		return creds, fmt.Errorf(
			"%s API key is required: use --api-key flag or set %s environment variable",
			p,
			apiKeyEnv(p),
		)
	}
	return creds, nil
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", path)
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// input path with its extension replaced by suffix
func withSuffix(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func formatSpan(start, end float64) string {
	return subtitle.FormatTimecode(start, subtitle.FormatSRT) + " - " +
		subtitle.FormatTimecode(end, subtitle.FormatSRT)
}

// keeps the last four characters of a secret
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
