package transcribe

import (
	"fmt"
	"time"
)

// Chunk is one bounded time-slice of an audio asset.
type Chunk struct {
	Index int
	Start time.Duration
	End   time.Duration
}

// Whole reports whether the chunk spans the entire asset, meaning the
// original file is transcribed directly and nothing is physically split.
func (c Chunk) Whole(total time.Duration) bool {
	return c.Start == 0 && c.End == total
}

// PlanChunks computes the chunk intervals for an asset of the given
// duration. Durations at or below threshold yield a single whole-file
// chunk; longer assets are cut into consecutive chunkDuration intervals
// with the last one truncated. Intervals cover [0, duration) with no gaps
// or overlaps.
func PlanChunks(duration, chunkDuration, threshold time.Duration) ([]Chunk, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("invalid audio duration: %v", duration)
	}
	if chunkDuration <= 0 {
		return nil, fmt.Errorf("invalid chunk duration: %v", chunkDuration)
	}
	if duration <= threshold {
		return []Chunk{{Index: 0, Start: 0, End: duration}}, nil
	}

	var chunks []Chunk
	for start := time.Duration(0); start < duration; start += chunkDuration {
		end := start + chunkDuration
		if end > duration {
			end = duration
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Start: start, End: end})
	}
	return chunks, nil
}
