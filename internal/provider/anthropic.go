package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/mgpai22/subalign/internal/subtitle"
)

const anthropicMaxTokens = 4096

// implements Adapter using Anthropic Claude. Claude has no audio input, so
// both transcription capabilities are unsupported.
type AnthropicAdapter struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicAdapter(cfg Config) (*AnthropicAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := anthropic.Model(cfg.Model)
	if cfg.Model == "" {
		model = anthropic.ModelClaudeHaiku4_5
	}

	return &AnthropicAdapter{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

func (a *AnthropicAdapter) Name() Provider {
	return ProviderAnthropic
}

func (a *AnthropicAdapter) TranscribeTimestamped(
	ctx context.Context,
	audio Audio,
	opts TranscribeOptions,
) ([]subtitle.Segment, error) {
	return nil, unsupported(ProviderAnthropic, CapabilityTimestamped)
}

func (a *AnthropicAdapter) TranscribeWholeText(
	ctx context.Context,
	audio Audio,
	opts TranscribeOptions,
) (string, error) {
	return "", unsupported(ProviderAnthropic, CapabilityWholeText)
}

func (a *AnthropicAdapter) GenerateText(
	ctx context.Context,
	prompt string,
	temperature float64,
) (string, error) {
	if err := validatePrompt(prompt); err != nil {
		return "", err
	}

	message, err := a.client.Messages.New(
		ctx,
		anthropic.MessageNewParams{
			Model:       a.model,
			MaxTokens:   anthropicMaxTokens,
			Temperature: anthropic.Float(temperature),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewTextBlock(prompt),
				),
			},
		},
	)
	if err != nil {
		return "", providerError(ProviderAnthropic, "generation", err)
	}
	if message == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
