package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

var ErrNotFound = errors.New("ffmpeg binaries not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

// Resolve locates ffmpeg and ffprobe. Explicit paths (from config or
// SUBALIGN_FFMPEG_PATH / SUBALIGN_FFPROBE_PATH) win over PATH lookup.
func Resolve(ffmpegPath, ffprobePath string) (BinaryPaths, error) {
	ffmpegBin, err := resolveOne("ffmpeg", ffmpegPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobeBin, err := resolveOne("ffprobe", ffprobePath)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegBin, FFprobe: ffprobeBin}, nil
}

func resolveOne(name, explicit string) (string, error) {
	if explicit != "" {
		if !fileExists(explicit) {
			return "", fmt.Errorf("%w: %s path %q does not exist", ErrNotFound, name, explicit)
		}
		return explicit, nil
	}
	found, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not on PATH; install it or set its path in the config", ErrNotFound, name)
	}
	return found, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
