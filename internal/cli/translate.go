package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subalign/internal/provider"
	"github.com/mgpai22/subalign/internal/subtitle"
	"github.com/mgpai22/subalign/internal/translate"
)

type translateOptions struct {
	targetLanguage string
	provider       string
	model          string
	apiKey         string
	prompt         string
	format         string
	temperature    float64
	overlay        bool
}

func newTranslateCmd(a *app) *cobra.Command {
	opts := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate [subtitle_file]",
		Short: "Translate subtitles to another language using AI",
		Long: `Translate an existing SRT or WebVTT file to another language using AI.

Entries are translated one at a time. Placeholders and very short entries are
left alone, and any entry the provider fails on keeps its original text, so
the output always has the same cues and timings as the input.

The --overlay flag creates bilingual subtitles with the translated text
first, followed by the original text on the next line.

Examples:
  subalign translate video.srt --target-language japanese
  subalign translate video.vtt -t es --overlay --provider anthropic
  subalign translate video.srt -l english -t german -o translated.vtt --format vtt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTranslate(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.targetLanguage, "target-language", "t", "", "Target language for translation (required)")
	flags.BoolVar(&opts.overlay, "overlay", false, "Overlay translated text with original (bilingual subtitles)")
	flags.StringVarP(&opts.provider, "provider", "p", "", "Translation provider (openai, groq, gemini, anthropic)")
	flags.StringVarP(&opts.apiKey, "api-key", "k", "", "Provider API key (overrides config and environment)")
	flags.StringVar(&opts.model, "model", "", "Model to use for translation (provider default when empty)")
	flags.StringVar(&opts.prompt, "prompt", "", "Extra instructions appended to every translation request")
	flags.StringVarP(&opts.format, "format", "f", "", "Output format (defaults to the input format)")
	flags.Float64Var(&opts.temperature, "temperature", 0, "Sampling temperature")

	_ = cmd.MarkFlagRequired("target-language")
	return cmd
}

func (a *app) runTranslate(cmd *cobra.Command, subtitlePath string, opts *translateOptions) error {
	ctx := cmd.Context()

	if err := requireFile(subtitlePath); err != nil {
		return err
	}

	targetLang := strings.TrimSpace(opts.targetLanguage)
	if targetLang == "" {
		return fmt.Errorf("target language is required")
	}
	inputLang, _ := cmd.Flags().GetString("language")
	inputLang = firstNonEmpty(inputLang, a.cfg.Translation.SourceLanguage)
	if inputLang != "" && strings.EqualFold(inputLang, targetLang) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	providerName, err := provider.ParseProvider(firstNonEmpty(opts.provider, a.cfg.Translation.Provider))
	if err != nil {
		return err
	}
	creds, err := a.credentials(providerName, opts.apiKey, opts.model)
	if err != nil {
		return err
	}

	a.logger.Infow("Parsing subtitle file")
	track, skipped, err := subtitle.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if track.Len() == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}
	a.logger.Infow("Parsed subtitle file",
		"entries", track.Len(),
		"skipped_blocks", skipped,
		"format", track.Format,
	)

	format := track.Format
	if opts.format != "" {
		if format, err = subtitle.ParseFormat(opts.format); err != nil {
			return err
		}
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = translatedPath(subtitlePath, targetLang, format, opts.overlay)
	}

	temperature := a.cfg.Translation.Temperature
	if cmd.Flags().Changed("temperature") {
		temperature = opts.temperature
	}

	a.logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", outputPath,
		"provider", providerName,
		"target_language", targetLang,
		"input_language", inputLang,
		"overlay", opts.overlay,
	)

	adapter, err := provider.New(ctx, providerName, creds)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	pass := translate.NewPass(adapter, translate.Options{
		SourceLanguage: inputLang,
		Temperature:    &temperature,
		Prompt:         opts.prompt,
	}, a.logger.Sugared())

	originals := track.Entries()

	progress := newProgressReporter(cmd.ErrOrStderr(), a.logger)
	stats, err := pass.TranslateTrack(ctx, track, targetLang, progress.translation)
	progress.finish()
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	a.logger.Infow("Translation complete",
		"translated", stats.Translated,
		"skipped", stats.Skipped,
		"fallback", stats.Fallback,
	)

	if opts.overlay {
		if err := applyOverlay(track, originals); err != nil {
			return err
		}
	}

	a.logger.Infow("Writing output file")
	if err := subtitle.WriteFile(outputPath, track.Entries(), format); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	rows := [][]string{
		{"Output", absPath(outputPath)},
		{"Target language", targetLang},
		{"Entries", strconv.Itoa(stats.Total)},
		{"Translated", strconv.Itoa(stats.Translated)},
		{"Skipped", strconv.Itoa(stats.Skipped)},
		{"Kept original", strconv.Itoa(stats.Fallback)},
	}
	if opts.overlay {
		rows = append(rows, []string{"Mode", "bilingual overlay"})
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Subtitles translated successfully")
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(rows))
	return nil
}

// applyOverlay appends the original text under each entry whose text changed.
func applyOverlay(track *subtitle.Track, originals []subtitle.Entry) error {
	for _, original := range originals {
		current, ok := track.Entry(original.ID)
		if !ok || current.Text == original.Text {
			continue
		}
		if err := track.SetText(original.ID, current.Text+"\n"+original.Text); err != nil {
			return fmt.Errorf("failed to set overlay text for entry %s: %w", original.ID, err)
		}
	}
	return nil
}

func translatedPath(input, targetLang string, format subtitle.Format, overlay bool) string {
	lang := strings.ReplaceAll(strings.ToLower(targetLang), " ", "-")
	suffix := "." + lang
	if overlay {
		suffix += ".overlay"
	}
	return withSuffix(input, suffix+subtitle.ExtensionForFormat(format))
}
