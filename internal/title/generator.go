package title

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// ShortMemo is used when the transcript is too short to summarize.
	ShortMemo = "short-memo"

	// Transcripts shorter than this go straight to ShortMemo.
	minTranscriptLen = 10

	// Transcripts longer than truncateAbove are cut to truncateTo
	// characters before prompting, to bound prompt cost. The asymmetry
	// is intentional headroom.
	truncateAbove = 10000
	truncateTo    = 5000
)

const prompt = `Generate a short, memorable title (2-5 words) for this voice memo transcription.
The title should capture the main topic or purpose.
Return ONLY the title, no explanation or formatting.

Transcription:
%s`

// Summarizer is an external short-text summarization capability.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Generator derives titles from transcripts. It never fails outward:
// provider errors degrade to a timestamp fallback.
type Generator struct {
	summarizer Summarizer
	maxLen     int
	now        func() time.Time

	// OnFallback, when set, is called with the provider error that
	// triggered a fallback title.
	OnFallback func(err error)
}

// NewGenerator constructs a Generator.
func NewGenerator(summarizer Summarizer, maxLen int) *Generator {
	return &Generator{
		summarizer: summarizer,
		maxLen:     maxLen,
		now:        time.Now,
	}
}

// Generate returns a sanitized title for the transcript.
func (g *Generator) Generate(ctx context.Context, transcript string) string {
	if utf8.RuneCountInString(strings.TrimSpace(transcript)) < minTranscriptLen {
		return ShortMemo
	}
	if utf8.RuneCountInString(transcript) > truncateAbove {
		transcript = string([]rune(transcript)[:truncateTo])
	}

	raw, err := g.summarizer.Summarize(ctx, fmt.Sprintf(prompt, transcript))
	if err != nil {
		if g.OnFallback != nil {
			g.OnFallback(err)
		}
		return Fallback(g.now())
	}
	return Sanitize(strings.TrimSpace(raw), g.maxLen)
}

// Fallback returns the timestamp-based title used when summarization is
// unavailable.
func Fallback(t time.Time) string {
	return "transcription-" + t.Format("20060102-150405")
}
