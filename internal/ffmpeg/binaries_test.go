package ffmpeg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFakeBinary(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveExplicitPaths(t *testing.T) {
	dir := t.TempDir()
	ffmpegPath := writeFakeBinary(t, dir, "ffmpeg")
	ffprobePath := writeFakeBinary(t, dir, "ffprobe")

	paths, err := Resolve(ffmpegPath, ffprobePath)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if paths.FFmpeg != ffmpegPath || paths.FFprobe != ffprobePath {
		t.Errorf("unexpected paths %+v", paths)
	}
}

func TestResolveMissingExplicitPath(t *testing.T) {
	dir := t.TempDir()
	ffprobePath := writeFakeBinary(t, dir, "ffprobe")

	_, err := Resolve(filepath.Join(dir, "nope"), ffprobePath)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveFromPath(t *testing.T) {
	dir := t.TempDir()
	writeFakeBinary(t, dir, "ffmpeg")
	writeFakeBinary(t, dir, "ffprobe")
	t.Setenv("PATH", dir)

	paths, err := Resolve("", "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if filepath.Dir(paths.FFmpeg) != dir || filepath.Dir(paths.FFprobe) != dir {
		t.Errorf("expected binaries from %s, got %+v", dir, paths)
	}
}

func TestResolveNotOnPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, err := Resolve("", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if fileExists(empty) {
		t.Error("empty file should not count as a binary")
	}
	if fileExists(dir) {
		t.Error("directory should not count as a binary")
	}
	if !fileExists(writeFakeBinary(t, dir, "tool")) {
		t.Error("expected file to exist")
	}
}
