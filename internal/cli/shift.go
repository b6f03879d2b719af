package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subalign/internal/subtitle"
)

func newShiftCmd(a *app) *cobra.Command {
	var (
		offsetStr string
		sortCues  bool
	)

	cmd := &cobra.Command{
		Use:   "shift [subtitle_file]",
		Short: "Shift every cue by a fixed offset",
		Long: `Shift every cue in a subtitle file by a fixed offset to fix audio sync.

The offset is seconds (e.g. 1.5, -0.25) or a timecode with an optional sign
(e.g. -00:00:02,500). Cues pushed before zero are clamped at zero.

Examples:
  subalign shift movie.srt --offset 2.5
  subalign shift movie.vtt --offset -00:00:01.200 -o fixed.vtt
  subalign shift movie.srt --offset 0 --sort`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, err := parseOffset(offsetStr)
			if err != nil {
				return err
			}
			return a.runShift(cmd, args[0], offset, sortCues)
		},
	}
	cmd.Flags().StringVar(&offsetStr, "offset", "", "Offset in seconds or as a signed timecode (required)")
	cmd.Flags().BoolVar(&sortCues, "sort", false, "Sort cues by start time before writing")
	_ = cmd.MarkFlagRequired("offset")
	return cmd
}

// parseOffset accepts plain seconds or a signed SRT/VTT timecode.
func parseOffset(s string) (float64, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return 0, fmt.Errorf("offset is required")
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) {
			return 0, fmt.Errorf("invalid offset %q: must be a finite number", s)
		}
		return subtitle.RoundMillis(secs), nil
	}

	sign := 1.0
	switch value[0] {
	case '-':
		sign, value = -1, value[1:]
	case '+':
		value = value[1:]
	}
	secs, err := subtitle.ParseTimecode(value, subtitle.FormatSRT)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", s, err)
	}
	return sign * secs, nil
}

func (a *app) runShift(cmd *cobra.Command, path string, offset float64, sortCues bool) error {
	if err := requireFile(path); err != nil {
		return err
	}

	track, skipped, err := subtitle.Open(path)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = withSuffix(path, ".shifted"+subtitle.ExtensionForFormat(track.Format))
	}

	a.logger.Infow("Shifting subtitles",
		"input", path,
		"offset", offset,
		"entries", track.Len(),
		"skipped_blocks", skipped,
	)

	track.Shift(offset)
	if sortCues {
		track.SortByTime()
	}

	if err := subtitle.WriteFile(outputPath, track.Entries(), track.Format); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	start, end := track.Bounds()
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary([][]string{
		{"Output", absPath(outputPath)},
		{"Offset", strconv.FormatFloat(offset, 'f', 3, 64) + "s"},
		{"Entries", strconv.Itoa(track.Len())},
		{"Span", formatSpan(start, end)},
	}))
	return nil
}
