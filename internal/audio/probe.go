package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// MediaInfo describes a media file as reported by ffprobe.
type MediaInfo struct {
	Duration   float64
	FormatName string
	HasAudio   bool
	HasVideo   bool
	AudioCodec string
	SampleRate int
	Channels   int
	VideoCodec string
	Width      int
	Height     int
	FrameRate  float64
}

type ffprobeOutput struct {
	Format struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		SampleRate   string `json:"sample_rate"`
		Channels     int    `json:"channels"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

// Probe runs ffprobe on a file. The first audio and video streams are
// reported.
func Probe(ctx context.Context, ffprobePath, filePath string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbe(out.Bytes())
}

func parseProbe(data []byte) (*MediaInfo, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duration %q: %w", probe.Format.Duration, err)
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("media has no duration")
	}

	info := &MediaInfo{
		Duration:   seconds,
		FormatName: probe.Format.FormatName,
	}
	for _, s := range probe.Streams {
		switch s.CodecType {
		case "audio":
			if info.HasAudio {
				continue
			}
			info.HasAudio = true
			info.AudioCodec = s.CodecName
			info.SampleRate, _ = strconv.Atoi(s.SampleRate)
			info.Channels = s.Channels
		case "video":
			// cover art shows up as a single-frame video stream with 0/0 rate
			if info.HasVideo || s.AvgFrameRate == "0/0" {
				continue
			}
			info.HasVideo = true
			info.VideoCodec = s.CodecName
			info.Width = s.Width
			info.Height = s.Height
			info.FrameRate = parseRate(s.AvgFrameRate)
		}
	}
	return info, nil
}

// "30000/1001" -> 29.97
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
