package transcribe

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"voice-memo/internal/media"
)

// Prober returns the duration of an audio file.
type Prober func(ctx context.Context, path string) (time.Duration, error)

// Slicer materializes [start, end) of an audio file as a new temporary
// file owned by the caller.
type Slicer func(ctx context.Context, path string, start, end time.Duration, tmpDir string) (string, error)

// Orchestrator drives transcription of a whole audio asset: it validates
// the input, plans chunking, transcribes every chunk, and joins the
// results in chunk order. Temporary chunk files are always deleted before
// Run returns; the original asset never is.
type Orchestrator struct {
	backend Backend
	probe   Prober
	slice   Slicer

	chunkDuration  time.Duration
	chunkThreshold time.Duration
	maxFileSizeMB  int
	workers        int
	tmpDir         string

	// OnChunk, when set, is called before each chunk is transcribed.
	OnChunk func(index, total int)
}

// Options configures an Orchestrator.
type Options struct {
	ChunkDuration  time.Duration
	ChunkThreshold time.Duration
	MaxFileSizeMB  int
	Workers        int
	TmpDir         string
}

// NewOrchestrator constructs an Orchestrator using ffprobe/ffmpeg for
// probing and slicing.
func NewOrchestrator(backend Backend, opts Options) *Orchestrator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Orchestrator{
		backend:        backend,
		probe:          media.ProbeDuration,
		slice:          media.Slice,
		chunkDuration:  opts.ChunkDuration,
		chunkThreshold: opts.ChunkThreshold,
		maxFileSizeMB:  opts.MaxFileSizeMB,
		workers:        opts.Workers,
		tmpDir:         opts.TmpDir,
	}
}

// NewOrchestratorForTests constructs an Orchestrator with injectable
// probing and slicing.
func NewOrchestratorForTests(backend Backend, probe Prober, slice Slicer, opts Options) *Orchestrator {
	o := NewOrchestrator(backend, opts)
	o.probe = probe
	o.slice = slice
	return o
}

// Run transcribes the asset at path and returns the full transcript. A
// failure in any chunk aborts the whole run; partial transcripts are
// discarded rather than persisted.
func (o *Orchestrator) Run(ctx context.Context, path string) (string, error) {
	if err := media.ValidateAsset(path, o.maxFileSizeMB); err != nil {
		return "", err
	}

	duration, err := o.probe(ctx, path)
	if err != nil {
		return "", err
	}

	chunks, err := PlanChunks(duration, o.chunkDuration, o.chunkThreshold)
	if err != nil {
		return "", err
	}

	if len(chunks) == 1 && chunks[0].Whole(duration) {
		o.emit(0, 1)
		return o.backend.Transcribe(ctx, path)
	}

	paths := make([]string, len(chunks))
	defer func() {
		for _, p := range paths {
			if p != "" && p != path {
				os.Remove(p)
			}
		}
	}()

	for i, c := range chunks {
		p, err := o.slice(ctx, path, c.Start, c.End, o.tmpDir)
		if err != nil {
			return "", err
		}
		paths[i] = p
	}

	texts, err := o.transcribeAll(ctx, paths)
	if err != nil {
		return "", err
	}
	return strings.Join(texts, " "), nil
}

// transcribeAll runs at most o.workers concurrent transcription calls and
// returns the per-chunk texts indexed by chunk, regardless of completion
// order. The first failure cancels in-flight siblings and wins.
func (o *Orchestrator) transcribeAll(ctx context.Context, paths []string) ([]string, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	texts := make([]string, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	workers := o.workers
	if workers > len(paths) {
		workers = len(paths)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if runCtx.Err() != nil {
					continue
				}
				o.emit(i, len(paths))
				text, err := o.backend.Transcribe(runCtx, paths[i])
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancel()
					continue
				}
				texts[i] = text
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return texts, nil
}

func (o *Orchestrator) emit(index, total int) {
	if o.OnChunk != nil {
		o.OnChunk(index, total)
	}
}
