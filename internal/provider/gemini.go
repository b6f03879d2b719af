package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/subalign/internal/subtitle"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// implements Adapter using Google Gemini with inline audio parts
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

func NewGeminiAdapter(ctx context.Context, cfg Config) (*GeminiAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiAdapter{
		client: client,
		model:  model,
	}, nil
}

func (a *GeminiAdapter) Name() Provider {
	return ProviderGemini
}

func (a *GeminiAdapter) TranscribeTimestamped(
	ctx context.Context,
	audio Audio,
	opts TranscribeOptions,
) ([]subtitle.Segment, error) {
	if err := validateAudio(audio); err != nil {
		return nil, err
	}

	config := generationConfig(opts.Temperature)
	config.ResponseMIMEType = "application/json"

	text, err := a.generateFromAudio(ctx, audio, opts, buildTimestampedPrompt(opts), config)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	cleaned := cleanJSONResponse(text)
	segments, err := extractTranscriptSegments(cleaned)
	if err != nil {
		return nil, providerError(
			ProviderGemini,
			"transcription",
			fmt.Errorf("%w (response: %s)", err, truncateString(cleaned, 200)),
		)
	}
	return toSegments(segments), nil
}

func (a *GeminiAdapter) TranscribeWholeText(
	ctx context.Context,
	audio Audio,
	opts TranscribeOptions,
) (string, error) {
	if err := validateAudio(audio); err != nil {
		return "", err
	}
	return a.generateFromAudio(
		ctx,
		audio,
		opts,
		buildWholeTextPrompt(opts),
		generationConfig(opts.Temperature),
	)
}

func (a *GeminiAdapter) GenerateText(
	ctx context.Context,
	prompt string,
	temperature float64,
) (string, error) {
	if err := validatePrompt(prompt); err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	result, err := a.client.Models.GenerateContent(ctx, a.model, contents, generationConfig(temperature))
	if err != nil {
		return "", providerError(ProviderGemini, "generation", err)
	}
	return responseText(result), nil
}

func (a *GeminiAdapter) generateFromAudio(
	ctx context.Context,
	audio Audio,
	opts TranscribeOptions,
	prompt string,
	config *genai.GenerateContentConfig,
) (string, error) {
	model := opts.Model
	if model == "" {
		model = a.model
	}

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(audio.Data, mimeType(audio)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := a.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", providerError(ProviderGemini, "transcription", err)
	}
	return responseText(result), nil
}

func generationConfig(temperature float64) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
}

// concatenated text parts of the first candidate that has any
func responseText(result *genai.GenerateContentResponse) string {
	if result == nil {
		return ""
	}
	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(sb.String())
}

// creates the prompt for timestamped transcription
func buildTimestampedPrompt(opts TranscribeOptions) string {
	var sb strings.Builder

	sb.WriteString("Generate a detailed transcript of this audio. ")
	sb.WriteString("For each sentence or phrase, provide the start timestamp, end timestamp, and the exact text spoken. ")
	sb.WriteString("Format your response as a JSON array with objects containing 'start', 'end', and 'text' fields, ")
	sb.WriteString("where 'start' and 'end' are timestamps in seconds (as numbers) from the beginning of this audio. ")

	if !isAutoLanguage(opts.Language) {
		sb.WriteString(fmt.Sprintf("The audio is in %s. ", strings.TrimSpace(opts.Language)))
	}
	if opts.Prompt != "" {
		sb.WriteString(opts.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")
	return sb.String()
}

func buildWholeTextPrompt(opts TranscribeOptions) string {
	var sb strings.Builder

	sb.WriteString("Transcribe this audio exactly as spoken. ")
	if !isAutoLanguage(opts.Language) {
		sb.WriteString(fmt.Sprintf("The audio is in %s. ", strings.TrimSpace(opts.Language)))
	}
	if opts.Prompt != "" {
		sb.WriteString(opts.Prompt)
		sb.WriteString(" ")
	}
	sb.WriteString("Return only the transcript text without timestamps, labels or commentary.")
	return sb.String()
}
