// Package record captures audio from the default input device via sox.
package record

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"time"
)

// ErrSoxNotFound means the sox binary is not installed.
var ErrSoxNotFound = errors.New("sox not found; install it with: brew install sox (macOS) or apt install sox (Linux)")

// Record captures mono 16kHz audio to outPath until maxDuration elapses
// or the process receives an interrupt. An interrupt stops the take and
// keeps what was recorded so far; a zero-byte output is a failure.
func Record(outPath string, maxDuration time.Duration) error {
	if _, err := exec.LookPath("sox"); err != nil {
		return ErrSoxNotFound
	}

	// sox -d -c 1 -r 16000 out.wav trim 0 <max-duration>
	cmd := exec.Command("sox",
		"-d",
		"-c", "1",
		"-r", "16000",
		outPath,
		"trim", "0", strconv.Itoa(int(maxDuration.Seconds())),
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start sox: %w", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-interrupt:
		// Forward the interrupt so sox finalizes the file, then wait.
		cmd.Process.Signal(os.Interrupt)
		<-done
	case <-done:
	}

	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		if msg := stderr.String(); msg != "" {
			return fmt.Errorf("no audio recorded: %s", msg)
		}
		return fmt.Errorf("no audio recorded")
	}
	return nil
}
