package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subalign/internal/audio"
	"github.com/mgpai22/subalign/internal/ffmpeg"
	"github.com/mgpai22/subalign/internal/subtitle"
)

func newInfoCmd(a *app) *cobra.Command {
	var listCues bool

	cmd := &cobra.Command{
		Use:   "info [subtitle_file]",
		Short: "Show a summary of a subtitle or media file",
		Long: `Show the format, cue count, time span and dropped blocks of a subtitle file,
or the streams ffprobe reports for an audio or video file.

Examples:
  subalign info movie.srt
  subalign info movie.vtt --cues
  subalign info movie.mkv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInfo(cmd, args[0], listCues)
		},
	}
	cmd.Flags().BoolVar(&listCues, "cues", false, "List every cue")
	return cmd
}

func (a *app) runInfo(cmd *cobra.Command, path string, listCues bool) error {
	if err := requireFile(path); err != nil {
		return err
	}
	if audio.IsMediaFile(path) {
		return a.runMediaInfo(cmd, path)
	}

	track, skipped, err := subtitle.Open(path)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	a.logger.Debugw("Parsed subtitle file", "path", path, "entries", track.Len())

	entries := track.Entries()
	start, end := track.Bounds()

	var longest float64
	for _, e := range entries {
		if d := e.EndTime - e.StartTime; d > longest {
			longest = d
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSummary([][]string{
		{"File", absPath(path)},
		{"Format", string(track.Format)},
		{"Cues", strconv.Itoa(len(entries))},
		{"Dropped blocks", strconv.Itoa(skipped)},
		{"Span", formatSpan(start, end)},
		{"Longest cue", strconv.FormatFloat(longest, 'f', 3, 64) + "s"},
	}))

	if !listCues || len(entries) == 0 {
		return nil
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			subtitle.FormatTimecode(e.StartTime, track.Format),
			subtitle.FormatTimecode(e.EndTime, track.Format),
			strings.ReplaceAll(e.Text, "\n", " / "),
		}
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Start", "End", "Text"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))
	return nil
}

func (a *app) runMediaInfo(cmd *cobra.Command, path string) error {
	bins, err := ffmpeg.Resolve(a.cfg.FFmpeg.FFmpegPath, a.cfg.FFmpeg.FFprobePath)
	if err != nil {
		return err
	}
	info, err := audio.Probe(cmd.Context(), bins.FFprobe, path)
	if err != nil {
		return err
	}

	rows := [][]string{
		{"File", absPath(path)},
		{"Container", info.FormatName},
		{"Duration", subtitle.FormatTimecode(info.Duration, subtitle.FormatSRT)},
	}
	if info.HasAudio {
		rows = append(rows, []string{"Audio", fmt.Sprintf("%s, %d Hz, %d ch", info.AudioCodec, info.SampleRate, info.Channels)})
	} else {
		rows = append(rows, []string{"Audio", "none"})
	}
	if info.HasVideo {
		rows = append(rows, []string{"Video", fmt.Sprintf("%s, %dx%d, %.3f fps", info.VideoCodec, info.Width, info.Height, info.FrameRate)})
	}
	if !info.HasAudio {
		a.logger.Warnw("Media has no audio stream; generate will reject it", "path", path)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(rows))
	return nil
}
