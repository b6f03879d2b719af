package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/subalign/internal/ffmpeg"
	"github.com/mgpai22/subalign/internal/provider"
)

// settings for the audio sent to providers
type EncodeOptions struct {
	Format     string // Output format (mp3, aac, etc.)
	SampleRate int    // Sample rate in Hz
	Channels   int    // Number of channels (1=mono, 2=stereo)
	Bitrate    string // Bitrate (e.g., "64k", "128k")
}

// defaults for transcription
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Format:     "mp3",
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

func (o EncodeOptions) mimeType() string {
	switch o.Format {
	case "aac":
		return "audio/aac"
	case "wav":
		return "audio/wav"
	case "flac":
		return "audio/flac"
	default:
		return "audio/mpeg"
	}
}

func (o EncodeOptions) outputArgs() ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"vn": "", // No video
		"ar": o.SampleRate,
		"ac": o.Channels,
		"f":  o.containerName(),
	}

	switch o.Format {
	case "aac":
		kwargs["acodec"] = "aac"
	case "wav":
		kwargs["acodec"] = "pcm_s16le"
	case "flac":
		kwargs["acodec"] = "flac"
	default:
		kwargs["acodec"] = "libmp3lame"
	}
	if o.Bitrate != "" && o.Format != "wav" && o.Format != "flac" {
		kwargs["b:a"] = o.Bitrate
	}
	return kwargs
}

func (o EncodeOptions) containerName() string {
	switch o.Format {
	case "aac":
		return "adts"
	case "wav", "flac":
		return o.Format
	default:
		return "mp3"
	}
}

// FileSource serves provider-ready audio windows from a media file on disk.
type FileSource struct {
	path     string
	duration float64
	bins     ffmpegbin.BinaryPaths
	opts     EncodeOptions
}

// Open probes the media and returns a source for it. Files without an
// audio stream are rejected before any provider call.
func Open(
	ctx context.Context,
	path string,
	bins ffmpegbin.BinaryPaths,
	opts EncodeOptions,
) (*FileSource, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("media file not found: %s", path)
	}

	info, err := Probe(ctx, bins.FFprobe, path)
	if err != nil {
		return nil, err
	}
	if !info.HasAudio {
		return nil, fmt.Errorf("%s has no audio stream", filepath.Base(path))
	}

	return &FileSource{
		path:     path,
		duration: info.Duration,
		bins:     bins,
		opts:     opts,
	}, nil
}

func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) Duration() float64 {
	return s.duration
}

// Extract encodes the [start, end] window and returns the bytes in memory.
func (s *FileSource) Extract(ctx context.Context, start, end float64) (provider.Audio, error) {
	if end <= start {
		return provider.Audio{}, fmt.Errorf("empty window %.3f-%.3f", start, end)
	}

	args := extractArgs(s.path, start, end, s.opts)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.bins.FFmpeg, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return provider.Audio{}, ctxErr
		}
		return provider.Audio{}, fmt.Errorf(
			"ffmpeg extract %.3f-%.3f failed: %w: %s",
			start,
			end,
			err,
			lastLine(stderr.String()),
		)
	}
	if stdout.Len() == 0 {
		return provider.Audio{}, fmt.Errorf("ffmpeg produced no audio for %.3f-%.3f", start, end)
	}

	return provider.Audio{
		Data:     stdout.Bytes(),
		MIMEType: s.opts.mimeType(),
	}, nil
}

// ffmpeg arguments that seek to start and write the encoded window to stdout
func extractArgs(path string, start, end float64, opts EncodeOptions) []string {
	return ffmpeg.Input(path, ffmpeg.KwArgs{
		"ss": formatSeconds(start),
		"t":  formatSeconds(end - start),
	}).
		Output("pipe:", opts.outputArgs()).
		GetArgs()
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".flv":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
		".3gp":  true,
	}
	return videoExts[ext]
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	audioExts := map[string]bool{
		".mp3":  true,
		".wav":  true,
		".aac":  true,
		".flac": true,
		".ogg":  true,
		".m4a":  true,
		".wma":  true,
		".aiff": true,
		".opus": true,
	}
	return audioExts[ext]
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
