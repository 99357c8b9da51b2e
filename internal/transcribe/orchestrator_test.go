package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"voice-memo/internal/media"
)

// fakeBackend maps chunk paths to canned texts or errors.
type fakeBackend struct {
	mu        sync.Mutex
	calls     []string
	transcode func(path string) (string, error)
}

func (f *fakeBackend) Transcribe(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()
	return f.transcode(path)
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newTestOrchestrator wires an Orchestrator with a fixed probed duration
// and a slicer that writes real temp files so cleanup can be observed.
func newTestOrchestrator(t *testing.T, backend Backend, duration time.Duration, slices *[]string) *Orchestrator {
	t.Helper()
	tmp := t.TempDir()
	var mu sync.Mutex
	return &Orchestrator{
		backend: backend,
		probe: func(ctx context.Context, path string) (time.Duration, error) {
			return duration, nil
		},
		slice: func(ctx context.Context, path string, start, end time.Duration, tmpDir string) (string, error) {
			out := filepath.Join(tmp, fmt.Sprintf("slice-%d.mp3", start/time.Millisecond))
			mustWriteFile(t, out, fmt.Sprintf("%v-%v", start, end))
			mu.Lock()
			*slices = append(*slices, out)
			mu.Unlock()
			return out, nil
		},
		chunkDuration:  testChunkDuration,
		chunkThreshold: testThreshold,
		maxFileSizeMB:  25,
		workers:        1,
		tmpDir:         tmp,
	}
}

func TestOrchestrator_TrivialPlanTranscribesOriginalDirectly(t *testing.T) {
	dir := t.TempDir()
	asset := filepath.Join(dir, "memo.mp3")
	mustWriteFile(t, asset, "audio")

	backend := &fakeBackend{transcode: func(path string) (string, error) {
		return "hello world", nil
	}}
	var slices []string
	o := newTestOrchestrator(t, backend, 8*time.Minute, &slices)

	got, err := o.Run(context.Background(), asset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("transcript = %q, want %q", got, "hello world")
	}
	if len(slices) != 0 {
		t.Fatalf("expected no slices for trivial plan, got %d", len(slices))
	}
	if len(backend.calls) != 1 || backend.calls[0] != asset {
		t.Fatalf("expected one call on the original asset, got %v", backend.calls)
	}
	if _, err := os.Stat(asset); err != nil {
		t.Fatalf("original asset was deleted: %v", err)
	}
}

func TestOrchestrator_JoinsChunksInPlanOrder(t *testing.T) {
	dir := t.TempDir()
	asset := filepath.Join(dir, "memo.mp3")
	mustWriteFile(t, asset, "audio")

	var slices []string
	texts := []string{"a", "b", "c"}

	// The first chunk blocks until the last one has finished, so a
	// concurrent run completes out of order.
	lastDone := make(chan struct{})
	backend := &fakeBackend{}
	backend.transcode = func(path string) (string, error) {
		i := indexOfSlice(slices, path)
		switch i {
		case 0:
			<-lastDone
		case 2:
			defer close(lastDone)
		}
		return texts[i], nil
	}

	o := newTestOrchestrator(t, backend, 15*time.Minute, &slices)
	o.workers = 3

	got, err := o.Run(context.Background(), asset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a b c" {
		t.Fatalf("transcript = %q, want %q", got, "a b c")
	}
	for _, s := range slices {
		if _, err := os.Stat(s); !os.IsNotExist(err) {
			t.Fatalf("slice %s was not cleaned up", s)
		}
	}
}

func TestOrchestrator_ChunkFailureAbortsAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	asset := filepath.Join(dir, "memo.mp3")
	mustWriteFile(t, asset, "audio")

	var slices []string
	backend := &fakeBackend{}
	backend.transcode = func(path string) (string, error) {
		if indexOfSlice(slices, path) == 1 {
			return "", &ProviderError{Kind: ErrRateLimit, Err: errors.New("429")}
		}
		return "ok", nil
	}

	o := newTestOrchestrator(t, backend, 15*time.Minute, &slices)

	_, err := o.Run(context.Background(), asset)
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Kind != ErrRateLimit {
		t.Fatalf("expected rate-limit ProviderError, got %v", err)
	}
	if len(slices) != 3 {
		t.Fatalf("expected 3 slices, got %d", len(slices))
	}
	for _, s := range slices {
		if _, err := os.Stat(s); !os.IsNotExist(err) {
			t.Fatalf("slice %s was not cleaned up after failure", s)
		}
	}
	if _, err := os.Stat(asset); err != nil {
		t.Fatalf("original asset was deleted: %v", err)
	}
	// Third chunk's result is never used once the second fails.
	if len(backend.calls) > 2 {
		t.Fatalf("expected at most 2 transcription calls, got %d", len(backend.calls))
	}
}

func TestOrchestrator_RejectsBadInputBeforeProbing(t *testing.T) {
	dir := t.TempDir()
	probed := false
	o := &Orchestrator{
		backend: &fakeBackend{transcode: func(string) (string, error) { return "", nil }},
		probe: func(ctx context.Context, path string) (time.Duration, error) {
			probed = true
			return 0, nil
		},
		chunkDuration:  testChunkDuration,
		chunkThreshold: testThreshold,
		maxFileSizeMB:  25,
		workers:        1,
	}

	notes := filepath.Join(dir, "notes.txt")
	mustWriteFile(t, notes, "not audio")
	if _, err := o.Run(context.Background(), notes); !errors.Is(err, media.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	if _, err := o.Run(context.Background(), filepath.Join(dir, "missing.mp3")); !errors.Is(err, media.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}

	if probed {
		t.Fatal("probe ran before input validation")
	}
}

func indexOfSlice(slices []string, path string) int {
	for i, s := range slices {
		if s == path {
			return i
		}
	}
	return -1
}
