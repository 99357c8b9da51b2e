package title

import (
	"regexp"
	"strings"
	"testing"
)

var titlePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "untitled"},
		{"   ", "untitled"},
		{"!!!", "untitled"},
		{"§±§±", "untitled"},
		{"API Refactor Plan", "api-refactor-plan"},
		{"Meeting Notes -- API_Refactor!", "meeting-notes-api-refactor"},
		{"hello_world", "hello-world"},
		{"--leading and trailing--", "leading-and-trailing"},
		{"Grocery   List", "grocery-list"},
		{"café menu", "caf-menu"},
		{"42 things to do", "42-things-to-do"},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in, DefaultMaxLen); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitize_TruncatesToMaxLen(t *testing.T) {
	long := strings.Repeat("word ", 30)
	got := Sanitize(long, DefaultMaxLen)
	if len(got) > DefaultMaxLen {
		t.Fatalf("len = %d, want <= %d", len(got), DefaultMaxLen)
	}
	if strings.HasSuffix(got, "-") {
		t.Fatalf("truncation left a trailing hyphen: %q", got)
	}
}

func TestSanitize_TotalAndIdempotent(t *testing.T) {
	inputs := []string{
		"", "a", "!!!", "Meeting Notes", "日本語のメモ", "--a--b--",
		strings.Repeat("x", 200), "MIXED case With_Everything!? 123",
	}
	for _, in := range inputs {
		once := Sanitize(in, DefaultMaxLen)
		if once != Untitled && !titlePattern.MatchString(once) {
			t.Errorf("Sanitize(%q) = %q does not match title pattern", in, once)
		}
		if len(once) > DefaultMaxLen {
			t.Errorf("Sanitize(%q) = %q exceeds max length", in, once)
		}
		if twice := Sanitize(once, DefaultMaxLen); twice != once {
			t.Errorf("Sanitize not idempotent on %q: %q != %q", in, twice, once)
		}
	}
}
