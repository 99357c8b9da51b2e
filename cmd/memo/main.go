package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"voice-memo/internal/config"
	"voice-memo/internal/pipeline"
	"voice-memo/internal/queue"
	"voice-memo/internal/record"
	"voice-memo/internal/title"
	"voice-memo/internal/transcribe"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorRed    = "\033[31m"
)

func info(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[info] "+colorReset+msg+"\n", a...)
}

func warn(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[warn] "+colorReset+msg+"\n", a...)
}

func ok(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[ok] "+colorReset+msg+"\n", a...)
}

func fail(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[error] "+colorReset+msg+"\n", a...)
}

func main() {
	var (
		inPath      string
		rootDir     string
		backend     string
		model       string
		maxDuration int
	)

	flag.StringVar(&inPath, "input", "", "Existing audio file to transcribe instead of recording (-i)")
	flag.StringVar(&inPath, "i", "", "Existing audio file to transcribe instead of recording")
	flag.StringVar(&rootDir, "root", "", "Memo root directory (default MEMO_ROOT or ./memos)")
	flag.StringVar(&backend, "backend", "openai", "Transcription backend: openai|cloudflare")
	flag.StringVar(&model, "model", "", "Transcription model override (backend-specific)")
	flag.IntVar(&maxDuration, "max-duration", 600, "Maximum recording duration in seconds")
	flag.Parse()

	godotenv.Load() // Ignore error, ENV vars take precedence

	cfg, err := config.Load()
	if err != nil {
		fail("config: %v", err)
		os.Exit(1)
	}
	if rootDir == "" {
		rootDir = discoverRoot(cfg.Root)
	}

	// Pick backend
	var be transcribe.Backend
	switch strings.ToLower(backend) {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			fail("OPENAI_API_KEY environment variable not set")
			os.Exit(1)
		}
		if model != "" {
			cfg.TranscribeModel = model
		}
		be = transcribe.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.TranscribeModel, cfg.RequestTimeout)
	case "cloudflare":
		if cfg.CFAccountID == "" || cfg.CFAPIToken == "" {
			fail("Cloudflare backend requires CF_ACCOUNT_ID and CF_API_TOKEN")
			os.Exit(1)
		}
		if model != "" {
			cfg.CFModel = model
		}
		be = transcribe.NewCloudflareBackend(cfg.CFAccountID, cfg.CFAPIToken, cfg.CFModel, cfg.RequestTimeout)
	default:
		fail("unknown backend: %s", backend)
		os.Exit(2)
	}

	orch := transcribe.NewOrchestrator(be, transcribe.Options{
		ChunkDuration:  cfg.ChunkDuration,
		ChunkThreshold: cfg.ChunkThreshold,
		MaxFileSizeMB:  cfg.MaxFileSizeMB,
		Workers:        cfg.ChunkWorkers,
	})
	orch.OnChunk = func(i, n int) {
		info("Transcribing chunk %d/%d...", i+1, n)
	}

	titler := title.NewGenerator(
		title.NewOpenAISummarizer(cfg.OpenAIAPIKey, cfg.TitleModel, cfg.RequestTimeout),
		cfg.MaxTitleLen,
	)
	titler.OnFallback = func(err error) {
		warn("title generation failed (%v), using fallback title", err)
	}

	q := queue.New(rootDir, titler)
	if err := q.EnsureDirs(); err != nil {
		fail("prepare directories: %v", err)
		os.Exit(1)
	}

	runner := pipeline.NewRunner(orch, q)
	runner.OnTranscribeError = func(err error) {
		warn("transcription failed: %v", err)
	}

	audioPath := inPath
	recorded := false
	if audioPath == "" {
		tmp, err := os.CreateTemp("", "memo-*.wav")
		if err != nil {
			fail("create temp file: %v", err)
			os.Exit(1)
		}
		tmp.Close()
		audioPath = tmp.Name()
		recorded = true

		info("Recording... Press Ctrl+C to stop.")
		info("(Max duration: %d seconds)", maxDuration)
		if err := record.Record(audioPath, time.Duration(maxDuration)*time.Second); err != nil {
			os.Remove(audioPath)
			fail("recording failed: %v", err)
			os.Exit(1)
		}
		ok("Recording done")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	info("Transcribing...")
	result, err := runner.Run(ctx, audioPath)
	if err != nil {
		if recorded {
			os.Remove(audioPath)
		}
		fail("%v", err)
		os.Exit(result.Outcome.ExitCode())
	}

	switch result.Outcome {
	case pipeline.Success:
		ok("Memo saved to: %s", result.Dir)
	case pipeline.TranscriptionFailed:
		warn("Transcription failed. Audio saved to: %s", result.Dir)
		warn("You can retry transcription manually with: memo -i %s", filepath.Join(result.Dir, "audio.wav"))
	}
	os.Exit(result.Outcome.ExitCode())
}

// discoverRoot resolves the memo root: explicit config first, then an
// existing memos/ directory walking up from the working directory, then
// ./memos as a fallback.
func discoverRoot(configured string) string {
	if configured != "" {
		return configured
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "memos"
	}
	for dir := cwd; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "memos")
		if fi, err := os.Stat(candidate); err == nil && fi.IsDir() {
			return candidate
		}
		if dir == filepath.Dir(dir) {
			break
		}
	}
	return filepath.Join(cwd, "memos")
}
