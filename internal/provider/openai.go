package provider

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/subalign/internal/subtitle"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

	defaultOpenAITranscribeModel = "whisper-1"
	defaultOpenAIGenerateModel   = "gpt-5-mini"
	defaultGroqTranscribeModel   = "whisper-large-v3"
	defaultGroqGenerateModel     = "llama-3.3-70b-versatile"
)

// implements Adapter using the OpenAI audio and chat APIs. Also serves any
// OpenAI-compatible endpoint (groq) through a base URL override.
type OpenAIAdapter struct {
	name            Provider
	client          openai.Client
	transcribeModel string
	generateModel   string
}

func NewOpenAIAdapter(name Provider, cfg Config) (*OpenAIAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	transcribeModel := defaultOpenAITranscribeModel
	generateModel := defaultOpenAIGenerateModel
	baseURL := cfg.BaseURL
	if name == ProviderGroq {
		transcribeModel = defaultGroqTranscribeModel
		generateModel = defaultGroqGenerateModel
		if baseURL == "" {
			baseURL = DefaultGroqBaseURL
		}
	}
	if cfg.Model != "" {
		generateModel = cfg.Model
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIAdapter{
		name:            name,
		client:          openai.NewClient(opts...),
		transcribeModel: transcribeModel,
		generateModel:   generateModel,
	}, nil
}

func (a *OpenAIAdapter) Name() Provider {
	return a.name
}

func (a *OpenAIAdapter) transcriptionParams(
	audio Audio,
	opts TranscribeOptions,
	format openai.AudioResponseFormat,
) openai.AudioTranscriptionNewParams {
	model := opts.Model
	if model == "" {
		model = a.transcribeModel
	}

	mime := mimeType(audio)
	params := openai.AudioTranscriptionNewParams{
		File:           openai.File(bytes.NewReader(audio.Data), audioFileName(mime), mime),
		Model:          openai.AudioModel(model),
		ResponseFormat: format,
	}
	if !isAutoLanguage(opts.Language) {
		params.Language = openai.String(strings.TrimSpace(opts.Language))
	}
	if opts.Prompt != "" {
		params.Prompt = openai.String(opts.Prompt)
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	return params
}

func (a *OpenAIAdapter) TranscribeTimestamped(
	ctx context.Context,
	audio Audio,
	opts TranscribeOptions,
) ([]subtitle.Segment, error) {
	if err := validateAudio(audio); err != nil {
		return nil, err
	}

	params := a.transcriptionParams(audio, opts, openai.AudioResponseFormatVerboseJSON)
	params.TimestampGranularities = []string{"segment"}

	resp, err := a.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, providerError(a.name, "transcription", err)
	}

	segments, err := parseVerboseJSON(resp.RawJSON())
	if err != nil {
		// untimed text is still usable; the caller stretches it over the chunk
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return nil, providerError(a.name, "transcription", err)
		}
		return []subtitle.Segment{{Text: text}}, nil
	}
	return segments, nil
}

func (a *OpenAIAdapter) TranscribeWholeText(
	ctx context.Context,
	audio Audio,
	opts TranscribeOptions,
) (string, error) {
	if err := validateAudio(audio); err != nil {
		return "", err
	}

	params := a.transcriptionParams(audio, opts, openai.AudioResponseFormatJSON)
	resp, err := a.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", providerError(a.name, "transcription", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (a *OpenAIAdapter) GenerateText(
	ctx context.Context,
	prompt string,
	temperature float64,
) (string, error) {
	if err := validatePrompt(prompt); err != nil {
		return "", err
	}

	completion, err := a.client.Chat.Completions.New(ctx, a.chatParams(prompt, temperature))
	if err != nil {
		return "", providerError(a.name, "generation", err)
	}
	if completion == nil || len(completion.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (a *OpenAIAdapter) chatParams(prompt string, temperature float64) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: a.generateModel,
	}
	if acceptsTemperature(a.generateModel) {
		params.Temperature = openai.Float(temperature)
	}
	return params
}

// gpt-5 and o-series reasoning models reject any temperature but the default
func acceptsTemperature(model string) bool {
	m := strings.ToLower(model)
	if i := strings.LastIndex(m, "/"); i >= 0 {
		m = m[i+1:]
	}
	if strings.HasPrefix(m, "gpt-5") {
		return false
	}
	if len(m) > 1 && m[0] == 'o' && m[1] >= '0' && m[1] <= '9' {
		return false
	}
	return true
}
