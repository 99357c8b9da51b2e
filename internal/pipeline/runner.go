// Package pipeline composes transcription, titling and queue commit into
// one run per recording.
package pipeline

import (
	"context"
)

// Outcome is the tri-state result of one pipeline run.
type Outcome int

const (
	// Success: transcript produced and committed to queue/.
	Success Outcome = iota
	// TranscriptionFailed: audio preserved under failed/ for manual retry.
	TranscriptionFailed
	// Fatal: no usable audio artifact could be filed anywhere.
	Fatal
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case TranscriptionFailed:
		return "transcription_failed"
	default:
		return "fatal"
	}
}

// ExitCode maps the outcome to the process exit code.
func (o Outcome) ExitCode() int {
	switch o {
	case Success:
		return 0
	case TranscriptionFailed:
		return 2
	default:
		return 1
	}
}

// Result reports where a run's memo ended up.
type Result struct {
	Outcome Outcome
	Dir     string
}

// Transcriber produces a transcript for a whole audio asset.
type Transcriber interface {
	Run(ctx context.Context, audioPath string) (string, error)
}

// Committer files a memo into a terminal directory.
type Committer interface {
	Commit(ctx context.Context, audioPath, transcript string, transcribed bool) (string, bool, error)
}

// Runner drives one recording through transcribe -> title -> commit.
// Transcription failures are absorbed into the failed/ branch; only
// commit failures escape as errors.
type Runner struct {
	transcriber Transcriber
	queue       Committer

	// OnTranscribeError, when set, receives the cause of a failed
	// transcription before the memo is filed under failed/.
	OnTranscribeError func(err error)
}

// NewRunner constructs a Runner.
func NewRunner(transcriber Transcriber, queue Committer) *Runner {
	return &Runner{transcriber: transcriber, queue: queue}
}

// Run transcribes the asset at audioPath and commits it. The audio file
// is consumed: after a nil-error return it lives inside the returned
// directory as audio.wav.
func (r *Runner) Run(ctx context.Context, audioPath string) (Result, error) {
	transcript, err := r.transcriber.Run(ctx, audioPath)
	transcribed := err == nil && transcript != ""
	if err != nil && r.OnTranscribeError != nil {
		r.OnTranscribeError(err)
	}

	dir, toQueue, err := r.queue.Commit(ctx, audioPath, transcript, transcribed)
	if err != nil {
		return Result{Outcome: Fatal}, err
	}
	if toQueue {
		return Result{Outcome: Success, Dir: dir}, nil
	}
	return Result{Outcome: TranscriptionFailed, Dir: dir}, nil
}
