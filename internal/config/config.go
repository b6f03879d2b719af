package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mgpai22/subalign/internal/provider"
)

// Credentials holds connection settings for one provider.
type Credentials struct {
	APIKey  string `toml:"api_key" yaml:"api_key"`
	BaseURL string `toml:"base_url" yaml:"base_url"`
	Model   string `toml:"model" yaml:"model"` // text generation model
}

type Providers struct {
	OpenAI    Credentials `toml:"openai" yaml:"openai"`
	Groq      Credentials `toml:"groq" yaml:"groq"`
	Gemini    Credentials `toml:"gemini" yaml:"gemini"`
	Anthropic Credentials `toml:"anthropic" yaml:"anthropic"`
}

// Transcription holds defaults for the generate command.
type Transcription struct {
	Provider     string  `toml:"provider" yaml:"provider"`
	Model        string  `toml:"model" yaml:"model"`
	RefineModel  string  `toml:"refine_model" yaml:"refine_model"`
	Language     string  `toml:"language" yaml:"language"`
	Task         string  `toml:"task" yaml:"task"`
	ChunkSeconds float64 `toml:"chunk_seconds" yaml:"chunk_seconds"`
	Temperature  float64 `toml:"temperature" yaml:"temperature"`
}

// Translation holds defaults for the translate command.
type Translation struct {
	Provider       string  `toml:"provider" yaml:"provider"`
	SourceLanguage string  `toml:"source_language" yaml:"source_language"`
	Temperature    float64 `toml:"temperature" yaml:"temperature"`
}

type Output struct {
	Format string `toml:"format" yaml:"format"`
}

type FFmpeg struct {
	FFmpegPath  string `toml:"ffmpeg_path" yaml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path" yaml:"ffprobe_path"`
}

// Config encapsulates all configuration values for subalign.
//
// Precedence, lowest first: defaults, config file, .env, environment. CLI
// flags are applied on top by the commands.
type Config struct {
	Transcription Transcription `toml:"transcription" yaml:"transcription"`
	Translation   Translation   `toml:"translation" yaml:"translation"`
	Output        Output        `toml:"output" yaml:"output"`
	Providers     Providers     `toml:"providers" yaml:"providers"`
	FFmpeg        FFmpeg        `toml:"ffmpeg" yaml:"ffmpeg"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/subalign/config.toml")
}

// Load reads the config file at path (or the default location when path is
// empty), then .env and the environment. A missing file is not an error.
// It returns the resolved path and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		if err := decode(resolvedPath, data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, "", false, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, "", false, err
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(cfg)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// loads KEY=value pairs without overriding variables already set
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	candidates := []string{
		defaultPath,
		strings.TrimSuffix(defaultPath, ".toml") + ".yaml",
	}
	if projectPath, err := filepath.Abs("subalign.toml"); err == nil {
		candidates = append(candidates, projectPath)
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

// Credentials returns the adapter settings for a provider.
func (c *Config) Credentials(p provider.Provider) provider.Config {
	var creds Credentials
	switch p {
	case provider.ProviderOpenAI:
		creds = c.Providers.OpenAI
	case provider.ProviderGroq:
		creds = c.Providers.Groq
	case provider.ProviderGemini:
		creds = c.Providers.Gemini
	case provider.ProviderAnthropic:
		creds = c.Providers.Anthropic
	}
	return provider.Config{
		APIKey:  creds.APIKey,
		BaseURL: creds.BaseURL,
		Model:   creds.Model,
	}
}

// Save writes the config to path, as YAML for .yaml/.yml and TOML otherwise.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = toml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// may hold API keys
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
