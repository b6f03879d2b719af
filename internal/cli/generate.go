package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subalign/internal/audio"
	"github.com/mgpai22/subalign/internal/ffmpeg"
	"github.com/mgpai22/subalign/internal/provider"
	"github.com/mgpai22/subalign/internal/subtitle"
	"github.com/mgpai22/subalign/internal/transcribe"
)

type generateOptions struct {
	provider     string
	model        string
	refineModel  string
	task         string
	format       string
	prompt       string
	apiKey       string
	chunkSeconds float64
	temperature  float64
	refine       bool
	split        bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [media_file]",
		Short: "Generate subtitles for an audio or video file",
		Long: `Generate subtitles for the specified audio or video file using AI transcription.

The command accepts both audio files (mp3, wav, aac, etc.) and video files (mp4, mkv, etc.).
Audio is sliced into chunks (default 5 minutes) with ffmpeg and each chunk is
transcribed in order. With --refine every cue is re-transcribed on its own
window to tighten the text.

Examples:
  subalign generate video.mp4
  subalign generate audio.mp3 --format vtt --provider groq
  subalign generate lecture.mkv --provider gemini --refine --chunk-seconds 120
  subalign generate podcast.mp3 --task whole-text -l en`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.provider, "provider", "p", "", "Transcription provider (openai, groq, gemini)")
	flags.StringVarP(&opts.apiKey, "api-key", "k", "", "Provider API key (overrides config and environment)")
	flags.StringVarP(&opts.format, "format", "f", "", "Output subtitle format (srt, vtt)")
	flags.StringVar(&opts.model, "model", "", "Transcription model (provider default when empty)")
	flags.StringVar(&opts.refineModel, "refine-model", "", "Model for the refinement pass (defaults to --model)")
	flags.StringVar(&opts.task, "task", "", "Transcription task (timestamped, whole-text)")
	flags.StringVar(&opts.prompt, "prompt", "", "Extra context passed to the transcription model")
	flags.Float64VarP(&opts.chunkSeconds, "chunk-seconds", "d", 0, "Maximum chunk length in seconds")
	flags.Float64Var(&opts.temperature, "temperature", 0, "Sampling temperature")
	flags.BoolVar(&opts.refine, "refine", false, "Re-transcribe each cue on its own window")
	flags.BoolVar(&opts.split, "split", false, "Split long cues into readable two-line subtitles")

	return cmd
}

// merges flags over the loaded configuration
func (a *app) transcriptionRequest(cmd *cobra.Command, opts *generateOptions) (transcribe.Request, error) {
	language, _ := cmd.Flags().GetString("language")

	task, err := transcribe.ParseTask(firstNonEmpty(opts.task, a.cfg.Transcription.Task))
	if err != nil {
		return transcribe.Request{}, err
	}

	req := transcribe.Request{
		Model:           firstNonEmpty(opts.model, a.cfg.Transcription.Model),
		RefineModel:     firstNonEmpty(opts.refineModel, a.cfg.Transcription.RefineModel),
		Language:        firstNonEmpty(language, a.cfg.Transcription.Language),
		Task:            task,
		MaxChunkSeconds: a.cfg.Transcription.ChunkSeconds,
		Prompt:          opts.prompt,
		Temperature:     a.cfg.Transcription.Temperature,
		Refine:          opts.refine,
	}
	if cmd.Flags().Changed("chunk-seconds") {
		req.MaxChunkSeconds = opts.chunkSeconds
	}
	if cmd.Flags().Changed("temperature") {
		req.Temperature = opts.temperature
	}
	return req, nil
}

func (a *app) runGenerate(cmd *cobra.Command, mediaPath string, opts *generateOptions) error {
	ctx := cmd.Context()

	if err := requireFile(mediaPath); err != nil {
		return err
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	providerName, err := provider.ParseProvider(firstNonEmpty(opts.provider, a.cfg.Transcription.Provider))
	if err != nil {
		return err
	}
	format, err := subtitle.ParseFormat(firstNonEmpty(opts.format, a.cfg.Output.Format))
	if err != nil {
		return err
	}
	req, err := a.transcriptionRequest(cmd, opts)
	if err != nil {
		return err
	}
	creds, err := a.credentials(providerName, opts.apiKey, "")
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = withSuffix(mediaPath, subtitle.ExtensionForFormat(format))
	}

	a.logger.Infow("Starting subtitle generation",
		"input", mediaPath,
		"output", outputPath,
		"provider", providerName,
		"task", req.Task,
		"format", format,
		"chunk_seconds", req.MaxChunkSeconds,
		"refine", req.Refine,
	)

	bins, err := ffmpeg.Resolve(a.cfg.FFmpeg.FFmpegPath, a.cfg.FFmpeg.FFprobePath)
	if err != nil {
		return err
	}
	media, err := audio.Open(ctx, mediaPath, bins, audio.DefaultEncodeOptions())
	if err != nil {
		return fmt.Errorf("failed to open media: %w", err)
	}
	a.logger.Infow("Media probed", "duration", media.Duration())

	adapter, err := provider.New(ctx, providerName, creds)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	progress := newProgressReporter(cmd.ErrOrStderr(), a.logger)
	result, err := transcribe.NewOrchestrator(adapter, a.logger.Sugared()).
		Run(ctx, media, req, progress.transcription)
	progress.finish()
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	entries := cuesFromResult(result, req.Task, opts.split)
	if len(entries) == 0 {
		return fmt.Errorf("transcription produced no subtitles")
	}

	if err := subtitle.WriteFile(outputPath, entries, format); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	rows := [][]string{
		{"Output", absPath(outputPath)},
		{"Provider", string(providerName)},
		{"Entries", strconv.Itoa(len(entries))},
		{"Duration", subtitle.FormatTimecode(result.Duration, subtitle.FormatSRT)},
		{"Chunks", strconv.Itoa(result.Chunks)},
	}
	if req.Refine {
		rows = append(rows,
			[]string{"Refined", fmt.Sprintf("%d/%d", result.Refinement.Refined, result.Refinement.Completed)},
			[]string{"Refine failures", strconv.Itoa(result.Refinement.Failed)},
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Subtitles generated successfully")
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(rows))
	return nil
}

// cuesFromResult turns an orchestrator result into subtitle entries. A
// whole-text result becomes one segment spanning the media which the
// generator splits into readable cues.
func cuesFromResult(result *transcribe.Result, task transcribe.Task, split bool) []subtitle.Entry {
	gen := subtitle.NewGenerator()

	if task == transcribe.TaskWholeText {
		return gen.Generate([]subtitle.Segment{{
			Start: 0,
			End:   result.Duration,
			Text:  result.FullText,
		}})
	}
	if !split {
		return result.Entries
	}

	segments := make([]subtitle.Segment, len(result.Entries))
	for i, e := range result.Entries {
		segments[i] = subtitle.Segment{Start: e.StartTime, End: e.EndTime, Text: e.Text}
	}
	return gen.Generate(segments)
}
