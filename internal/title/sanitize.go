// Package title derives filesystem-safe directory names from transcripts.
package title

import "strings"

// Untitled is returned when sanitization leaves nothing usable.
const Untitled = "untitled"

// DefaultMaxLen caps sanitized titles.
const DefaultMaxLen = 50

// Sanitize converts free text into a kebab-case token safe for use as a
// directory name: lowercase ASCII letters, digits and single hyphens, no
// leading or trailing hyphen, at most maxLen characters. It accepts any
// input and never returns an empty string.
func Sanitize(raw string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	if strings.TrimSpace(raw) == "" {
		return Untitled
	}

	s := strings.ToLower(raw)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	if out == "" {
		return Untitled
	}
	return out
}
