package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subalign/internal/subtitle"
)

func newConvertCmd(a *app) *cobra.Command {
	var formatStr string

	cmd := &cobra.Command{
		Use:   "convert [subtitle_file]",
		Short: "Convert subtitles between SRT and WebVTT",
		Long: `Convert a subtitle file between SRT and WebVTT.

Cues are renumbered and timecodes rewritten with the target format's
separator. Blocks that cannot be parsed are dropped and reported.

Examples:
  subalign convert movie.srt
  subalign convert movie.vtt --format srt -o movie.en.srt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, args[0], formatStr)
		},
	}
	cmd.Flags().StringVarP(&formatStr, "format", "f", "", "Target format (defaults to the other format)")
	return cmd
}

func (a *app) runConvert(cmd *cobra.Command, path, formatStr string) error {
	if err := requireFile(path); err != nil {
		return err
	}

	track, skipped, err := subtitle.Open(path)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	target := oppositeFormat(track.Format)
	if formatStr != "" {
		if target, err = subtitle.ParseFormat(formatStr); err != nil {
			return err
		}
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = withSuffix(path, subtitle.ExtensionForFormat(target))
	}
	a.logger.Infow("Converting subtitles",
		"input", path,
		"from", track.Format,
		"to", target,
		"entries", track.Len(),
		"skipped_blocks", skipped,
	)

	if err := subtitle.WriteFile(outputPath, track.Entries(), target); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary([][]string{
		{"Output", absPath(outputPath)},
		{"Format", string(track.Format) + " -> " + string(target)},
		{"Entries", strconv.Itoa(track.Len())},
		{"Dropped blocks", strconv.Itoa(skipped)},
	}))
	return nil
}

func oppositeFormat(f subtitle.Format) subtitle.Format {
	if f == subtitle.FormatVTT {
		return subtitle.FormatSRT
	}
	return subtitle.FormatVTT
}
