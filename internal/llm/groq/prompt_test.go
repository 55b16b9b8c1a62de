package groq

import (
	"strings"
	"testing"
	"time"
)

func TestBuildPrompt(t *testing.T) {
	now := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	prompt := BuildPrompt("resume body", "jd body", "Jordan Lee", now)

	if !strings.Contains(prompt, "RESUME:\nresume body") {
		t.Fatalf("resume section missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "JOB DESCRIPTION:\njd body") {
		t.Fatalf("job description section missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "March 5, 2026") {
		t.Fatalf("date missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Sign the letter as Jordan Lee") {
		t.Fatalf("sender instruction missing:\n%s", prompt)
	}
}

func TestBuildPromptOmitsSenderWhenBlank(t *testing.T) {
	prompt := BuildPrompt("resume", "jd", "  ", time.Now().UTC())
	if strings.Contains(prompt, "Sign the letter as") {
		t.Fatalf("unexpected sender instruction:\n%s", prompt)
	}
}

func TestBuildPromptTruncatesLongSections(t *testing.T) {
	long := strings.Repeat("a", maxSectionChars+500)
	prompt := BuildPrompt(long, "jd", "", time.Now().UTC())
	if strings.Contains(prompt, strings.Repeat("a", maxSectionChars+1)) {
		t.Fatalf("resume section not truncated")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short", in: "hello", n: 10, want: "hello"},
		{name: "exact", in: "hello", n: 5, want: "hello"},
		{name: "cut", in: "hello world", n: 5, want: "hello"},
		{name: "trims", in: "  padded  ", n: 20, want: "padded"},
		{name: "rune boundary", in: "héllo", n: 2, want: "h"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
