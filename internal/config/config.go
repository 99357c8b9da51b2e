// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all knobs the pipeline recognizes. Environment variables
// take precedence over any .env file loaded by the caller.
type Config struct {
	// Root is the base directory holding queue/, processed/ and failed/.
	Root string

	// OpenAI
	OpenAIAPIKey    string
	TranscribeModel string
	TitleModel      string

	// Cloudflare Workers AI (alternate transcription backend)
	CFAccountID string
	CFAPIToken  string
	CFModel     string

	// Chunking
	ChunkDuration  time.Duration
	ChunkThreshold time.Duration
	ChunkWorkers   int

	// Limits
	MaxFileSizeMB  int
	MaxTitleLen    int
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Root = getEnv("MEMO_ROOT", "")
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	cfg.TranscribeModel = getEnv("MEMO_TRANSCRIBE_MODEL", "gpt-4o-mini-transcribe")
	cfg.TitleModel = getEnv("MEMO_TITLE_MODEL", "gpt-4o-mini")

	cfg.CFAccountID = getEnv("CF_ACCOUNT_ID", "")
	cfg.CFAPIToken = getEnv("CF_API_TOKEN", "")
	cfg.CFModel = getEnv("CF_MODEL", "@cf/openai/whisper")

	chunkMs, err := strconv.Atoi(getEnv("MEMO_CHUNK_DURATION_MS", "300000"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEMO_CHUNK_DURATION_MS: %w", err)
	}
	if chunkMs < 1 {
		return nil, fmt.Errorf("MEMO_CHUNK_DURATION_MS must be >= 1, got %d", chunkMs)
	}
	cfg.ChunkDuration = time.Duration(chunkMs) * time.Millisecond

	thresholdMs, err := strconv.Atoi(getEnv("MEMO_CHUNK_THRESHOLD_MS", "480000"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEMO_CHUNK_THRESHOLD_MS: %w", err)
	}
	if thresholdMs < 0 {
		return nil, fmt.Errorf("MEMO_CHUNK_THRESHOLD_MS must be >= 0, got %d", thresholdMs)
	}
	cfg.ChunkThreshold = time.Duration(thresholdMs) * time.Millisecond

	workers, err := strconv.Atoi(getEnv("MEMO_CHUNK_WORKERS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEMO_CHUNK_WORKERS: %w", err)
	}
	if workers < 1 {
		return nil, fmt.Errorf("MEMO_CHUNK_WORKERS must be >= 1, got %d", workers)
	}
	cfg.ChunkWorkers = workers

	maxSizeMB, err := strconv.Atoi(getEnv("MEMO_MAX_FILE_SIZE_MB", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEMO_MAX_FILE_SIZE_MB: %w", err)
	}
	cfg.MaxFileSizeMB = maxSizeMB

	maxTitleLen, err := strconv.Atoi(getEnv("MEMO_MAX_TITLE_LEN", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEMO_MAX_TITLE_LEN: %w", err)
	}
	cfg.MaxTitleLen = maxTitleLen

	timeoutMin, err := strconv.Atoi(getEnv("MEMO_REQUEST_TIMEOUT_MIN", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEMO_REQUEST_TIMEOUT_MIN: %w", err)
	}
	cfg.RequestTimeout = time.Duration(timeoutMin) * time.Minute

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
