package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subalign/internal/audio"
	"github.com/mgpai22/subalign/internal/ffmpeg"
)

type extractOptions struct {
	format     string
	sampleRate int
	channels   int
	bitrate    string
	start      float64
	end        float64
}

func newExtractCmd(a *app) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [media_file]",
		Short: "Extract the audio that would be sent for transcription",
		Long: `Extract audio from a media file using the same encoding the transcription
pipeline sends to providers, optionally limited to a time window.

Supports output formats: mp3, wav, aac, flac.

Examples:
  subalign extract video.mp4
  subalign extract video.mp4 -o audio.wav -f wav
  subalign extract video.mp4 --start 60 --end 90 --sample-rate 44100 --channels 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args[0], opts)
		},
	}

	defaults := audio.DefaultEncodeOptions()
	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", defaults.Format, "Output audio format (mp3, wav, aac, flac)")
	flags.IntVarP(&opts.sampleRate, "sample-rate", "r", defaults.SampleRate, "Sample rate in Hz (e.g., 16000, 44100, 48000)")
	flags.IntVarP(&opts.channels, "channels", "c", defaults.Channels, "Number of audio channels (1=mono, 2=stereo)")
	flags.StringVarP(&opts.bitrate, "bitrate", "b", defaults.Bitrate, "Bitrate for lossy formats (e.g., 64k, 128k)")
	flags.Float64Var(&opts.start, "start", 0, "Window start in seconds")
	flags.Float64Var(&opts.end, "end", 0, "Window end in seconds (defaults to the end of the media)")
	return cmd
}

var validAudioFormats = map[string]bool{
	"mp3":  true,
	"wav":  true,
	"aac":  true,
	"flac": true,
}

func (a *app) runExtract(cmd *cobra.Command, mediaPath string, opts *extractOptions) error {
	ctx := cmd.Context()

	if err := requireFile(mediaPath); err != nil {
		return err
	}
	if !validAudioFormats[opts.format] {
		return fmt.Errorf(
			"invalid format %q: supported formats are mp3, wav, aac, flac",
			opts.format,
		)
	}
	if opts.sampleRate <= 0 || opts.channels <= 0 {
		return fmt.Errorf("sample rate and channels must be positive")
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = withSuffix(mediaPath, "."+opts.format)
	}
	if absPath(outputPath) == absPath(mediaPath) {
		return fmt.Errorf("output path must differ from the input file")
	}

	bins, err := ffmpeg.Resolve(a.cfg.FFmpeg.FFmpegPath, a.cfg.FFmpeg.FFprobePath)
	if err != nil {
		return err
	}
	source, err := audio.Open(ctx, mediaPath, bins, audio.EncodeOptions{
		Format:     opts.format,
		SampleRate: opts.sampleRate,
		Channels:   opts.channels,
		Bitrate:    opts.bitrate,
	})
	if err != nil {
		return fmt.Errorf("failed to open media: %w", err)
	}

	end := opts.end
	if end <= 0 || end > source.Duration() {
		end = source.Duration()
	}

	a.logger.Infow("Extracting audio",
		"input", mediaPath,
		"output", outputPath,
		"format", opts.format,
		"sample_rate", opts.sampleRate,
		"channels", opts.channels,
		"start", opts.start,
		"end", end,
	)

	payload, err := source.Extract(ctx, opts.start, end)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if err := os.WriteFile(outputPath, payload.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Audio extracted successfully: %s (%s, %d bytes)\n",
		absPath(outputPath), payload.MIMEType, len(payload.Data))
	return nil
}
