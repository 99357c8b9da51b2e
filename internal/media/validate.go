package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Input validation errors, checked with errors.Is before any network call.
var (
	ErrFileNotFound      = errors.New("audio file not found")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrFileTooLarge      = errors.New("audio file too large")
)

// SupportedFormats lists the audio extensions the transcription provider accepts.
var SupportedFormats = []string{
	"mp3", "mp4", "mpeg", "mpga", "m4a", "wav", "webm",
}

// Format returns the lowercase extension of path without the leading dot.
func Format(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// SupportedFormat reports whether the file's extension is in the supported set.
func SupportedFormat(path string) bool {
	ext := Format(path)
	for _, f := range SupportedFormats {
		if ext == f {
			return true
		}
	}
	return false
}

// ValidateAsset rejects missing, unsupported, or oversized audio files.
func ValidateAsset(path string, maxSizeMB int) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if !SupportedFormat(path) {
		return fmt.Errorf("%w: .%s (supported: %s)",
			ErrUnsupportedFormat, Format(path), strings.Join(SupportedFormats, ", "))
	}
	if maxSizeMB > 0 && info.Size() > int64(maxSizeMB)*1024*1024 {
		return fmt.Errorf("%w: %.1fMB exceeds %dMB",
			ErrFileTooLarge, float64(info.Size())/(1024*1024), maxSizeMB)
	}
	return nil
}
