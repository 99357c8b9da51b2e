// Package queue owns the durable directory layout that memos are filed
// into: queue/ for transcribed memos awaiting review, failed/ for memos
// whose transcription did not succeed, processed/ for the downstream
// reviewer to move finished entries into.
package queue

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const (
	QueueDir     = "queue"
	ProcessedDir = "processed"
	FailedDir    = "failed"

	audioName      = "audio.wav"
	transcriptName = "transcript.txt"
)

// StateError is a commit failure that risks stranding the audio artifact.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("queue %s: %v", e.Op, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

// Titler derives a directory title from a transcript.
type Titler interface {
	Generate(ctx context.Context, transcript string) string
}

// Queue files completed recordings under a base directory. The only
// writers of queue/ and failed/ are Commit calls; no locking is used
// beyond the filesystem's directory-creation semantics.
type Queue struct {
	root   string
	titler Titler
	now    func() time.Time
}

// New constructs a Queue rooted at root.
func New(root string, titler Titler) *Queue {
	return &Queue{root: root, titler: titler, now: time.Now}
}

// Root returns the base directory.
func (q *Queue) Root() string { return q.root }

// EnsureDirs creates the queue/, processed/ and failed/ directories,
// parents included. Idempotent.
func (q *Queue) EnsureDirs() error {
	for _, d := range []string{QueueDir, ProcessedDir, FailedDir} {
		if err := os.MkdirAll(filepath.Join(q.root, d), 0o755); err != nil {
			return &StateError{Op: "ensure " + d, Err: err}
		}
	}
	return nil
}

// Commit files one memo into exactly one terminal directory. With a
// transcript it derives a title and lands under queue/<title> with
// audio.wav and transcript.txt; without one it lands under
// failed/<memo-timestamp> with audio.wav only. The audio file is moved,
// not copied, and is never removed before the data has fully landed.
// Returns the final directory and whether the memo went to queue/.
func (q *Queue) Commit(ctx context.Context, audioPath, transcript string, transcribed bool) (string, bool, error) {
	var target string
	if transcribed {
		title := q.titler.Generate(ctx, transcript)
		target = filepath.Join(q.root, QueueDir, title)
		if _, err := os.Stat(target); err == nil {
			// Title collision: disambiguate once with the current time.
			title = fmt.Sprintf("%s-%s", title, q.now().Format("150405"))
			target = filepath.Join(q.root, QueueDir, title)
		}
	} else {
		target = filepath.Join(q.root, FailedDir, fallbackTitle(q.now()))
		if _, err := os.Stat(target); err == nil {
			target = fmt.Sprintf("%s-%s", target, q.now().Format("150405"))
		}
	}

	if _, err := os.Stat(target); err == nil {
		return "", false, &StateError{Op: "commit", Err: fmt.Errorf("target already exists: %s", target)}
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", false, &StateError{Op: "commit", Err: err}
	}

	if err := moveFile(audioPath, filepath.Join(target, audioName)); err != nil {
		return "", false, &StateError{Op: "move audio", Err: err}
	}

	if transcribed {
		if err := os.WriteFile(filepath.Join(target, transcriptName), []byte(transcript), 0o644); err != nil {
			return "", false, &StateError{Op: "write transcript", Err: err}
		}
	}

	return target, transcribed, nil
}

// fallbackTitle names a failed memo by the time it was committed.
func fallbackTitle(t time.Time) string {
	return "memo-" + t.Format("20060102-150405")
}

// moveFile renames src to dst, falling back to copy-then-delete across
// filesystems. The source is only removed once the copy has fully landed.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}
