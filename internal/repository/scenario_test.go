package repository

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// TestBuildCopyTitle checks the length cap on duplicated scenario titles.
func TestBuildCopyTitle(t *testing.T) {
	original := strings.Repeat("a", 210)
	result := buildCopyTitle(original, 200)

	if !strings.HasPrefix(result, "Copy of ") {
		t.Fatalf("expected prefix, got %s", result)
	}

	if utf8.RuneCountInString(result) > 200 {
		t.Fatalf("expected result length <= 200, got %d", utf8.RuneCountInString(result))
	}
}

// TestBuildCopyTitleShort checks that short titles are kept whole.
func TestBuildCopyTitleShort(t *testing.T) {
	if got := buildCopyTitle("Aggressive payoff", 200); got != "Copy of Aggressive payoff" {
		t.Fatalf("unexpected title %s", got)
	}
}
