package audio

import (
	"context"
	"slices"
	"testing"

	ffmpegbin "github.com/mgpai22/subalign/internal/ffmpeg"
)

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"movie.mp4", true},
		{"MOVIE.MKV", true},
		{"talk.mp3", true},
		{"voice.opus", true},
		{"subs.srt", false},
		{"notes.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsMediaFile(tt.path); got != tt.want {
			t.Errorf("IsMediaFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseProbe(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"normal", `{"format": {"duration": "123.456000"}}`, 123.456, false},
		{"missing duration", `{"format": {}}`, 0, true},
		{"zero duration", `{"format": {"duration": "0.000"}}`, 0, true},
		{"not json", `ffprobe: error`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProbe([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Duration != tt.want {
				t.Errorf("got %v, want %v", got.Duration, tt.want)
			}
		})
	}
}

func TestParseProbeStreams(t *testing.T) {
	input := `{
		"format": {"duration": "61.5", "format_name": "mov,mp4,m4a,3gp,3g2,mj2"},
		"streams": [
			{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "avg_frame_rate": "30000/1001"},
			{"codec_type": "audio", "codec_name": "aac", "sample_rate": "48000", "channels": 2},
			{"codec_type": "audio", "codec_name": "ac3", "sample_rate": "44100", "channels": 6}
		]
	}`

	info, err := parseProbe([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.HasAudio || !info.HasVideo {
		t.Fatalf("expected audio and video, got %+v", info)
	}
	if info.AudioCodec != "aac" || info.SampleRate != 48000 || info.Channels != 2 {
		t.Errorf("expected first audio stream, got %+v", info)
	}
	if info.Width != 1920 || info.Height != 1080 || info.VideoCodec != "h264" {
		t.Errorf("unexpected video stream: %+v", info)
	}
	if info.FrameRate < 29.96 || info.FrameRate > 29.98 {
		t.Errorf("unexpected frame rate %v", info.FrameRate)
	}
}

func TestParseProbeIgnoresCoverArt(t *testing.T) {
	input := `{
		"format": {"duration": "200"},
		"streams": [
			{"codec_type": "audio", "codec_name": "mp3", "sample_rate": "44100", "channels": 2},
			{"codec_type": "video", "codec_name": "mjpeg", "width": 500, "height": 500, "avg_frame_rate": "0/0"}
		]
	}`

	info, err := parseProbe([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.HasVideo {
		t.Errorf("expected cover art to be ignored, got %+v", info)
	}
}

func TestExtractArgs(t *testing.T) {
	args := extractArgs("/media/in.mkv", 30, 42.5, DefaultEncodeOptions())

	for _, want := range []string{"-ss", "30.000", "-t", "12.500", "-i", "/media/in.mkv", "-vn", "libmp3lame", "16000", "64k", "pipe:"} {
		if !slices.Contains(args, want) {
			t.Errorf("args missing %q: %v", want, args)
		}
	}
	if args[len(args)-1] != "pipe:" {
		t.Errorf("expected output to be the pipe, got %v", args)
	}
	if slices.Index(args, "-ss") > slices.Index(args, "-i") {
		t.Errorf("seek should come before the input for fast seeking: %v", args)
	}
}

func TestEncodeOptionsMIMEType(t *testing.T) {
	tests := map[string]string{
		"mp3":  "audio/mpeg",
		"":     "audio/mpeg",
		"aac":  "audio/aac",
		"wav":  "audio/wav",
		"flac": "audio/flac",
	}
	for format, want := range tests {
		opts := EncodeOptions{Format: format}
		if got := opts.mimeType(); got != want {
			t.Errorf("mimeType(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestWavSkipsBitrate(t *testing.T) {
	opts := EncodeOptions{Format: "wav", SampleRate: 16000, Channels: 1, Bitrate: "64k"}
	kwargs := opts.outputArgs()
	if _, ok := kwargs["b:a"]; ok {
		t.Error("wav output should not set a bitrate")
	}
	if kwargs["acodec"] != "pcm_s16le" {
		t.Errorf("unexpected codec %v", kwargs["acodec"])
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(context.Background(), "/does/not/exist.mp4", ffmpegbin.BinaryPaths{}, DefaultEncodeOptions())
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtractRejectsEmptyWindow(t *testing.T) {
	src := &FileSource{path: "x.mp3", duration: 10, opts: DefaultEncodeOptions()}
	if _, err := src.Extract(context.Background(), 5, 5); err == nil {
		t.Error("expected error for empty window")
	}
}
