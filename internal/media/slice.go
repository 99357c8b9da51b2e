package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Slice extracts [start, end) from an audio file into a new temporary file
// in tmpDir (system temp when empty), preserving the source container so
// the provider still recognizes the format. The caller owns the returned
// file and is responsible for deleting it.
func Slice(ctx context.Context, path string, start, end time.Duration, tmpDir string) (string, error) {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	out := filepath.Join(tmpDir, fmt.Sprintf("chunk-%s.%s", uuid.NewString(), Format(path)))

	// ffmpeg -y -ss start -to end -i input -c copy output
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-i", path,
		"-c", "copy",
		out,
	)
	if err := cmd.Run(); err != nil {
		os.Remove(out)
		return "", fmt.Errorf("ffmpeg slice %s: %w", path, err)
	}
	return out, nil
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
