package dashui

import (
	"strings"
	"testing"
)

func TestFitLinesPadsAndClips(t *testing.T) {
	out := fitLines("ab\ncdef", 4, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "ab  " {
		t.Fatalf("expected padded first line, got %q", lines[0])
	}
	if lines[2] != "    " {
		t.Fatalf("expected blank filler line, got %q", lines[2])
	}

	clipped := fitLines("a\nb\nc\nd", 1, 2)
	if clipped != "a\nb" {
		t.Fatalf("expected clipped output, got %q", clipped)
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("short", 10); got != "short" {
		t.Fatalf("expected unchanged line, got %q", got)
	}
	if got := truncateLine("a longer status line", 10); got != "a longe..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateLine("abcdef", 2); got != "ab" {
		t.Fatalf("unexpected tiny truncation: %q", got)
	}
}
