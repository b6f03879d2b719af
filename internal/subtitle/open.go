package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
)

// Open reads and parses a subtitle file, detecting the format from the
// extension or the content. Skipped is returned so callers can report
// dropped blocks.
func Open(path string) (*Track, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	content := string(data)
	format := DetectFormat(path, content)

	parsed, err := Parse(content, format)
	if err != nil {
		return nil, 0, err
	}

	track, err := NewTrack(filepath.Base(path), format, parsed.Entries)
	if err != nil {
		return nil, 0, err
	}
	return track, parsed.Skipped, nil
}

// WriteFile serializes entries and replaces path atomically, so a failed
// export never leaves a truncated file behind.
func WriteFile(path string, entries []Entry, format Format) error {
	content, err := Serialize(entries, format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close subtitle file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
