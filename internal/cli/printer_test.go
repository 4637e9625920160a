package cli

import (
	"testing"
)

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0B"},
		{512, "512B"},
		{1536, "1.5KB"},
		{1048576, "1.0MB"},
		{5 * 1024 * 1024 * 1024, "5.0GB"},
	}

	for _, tc := range cases {
		if got := humanBytes(tc.in); got != tc.want {
			t.Fatalf("humanBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPadLeft(t *testing.T) {
	if got := padLeft("abc", 5); got != "  abc" {
		t.Fatalf("padLeft = %q", got)
	}
	if got := padLeft("abcdef", 5); got != "abcdef" {
		t.Fatalf("padLeft should not trim, got %q", got)
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("short", 10); got != "short" {
		t.Fatalf("truncateText = %q", got)
	}
	if got := truncateText("a very long detail line", 10); got != "a very ..." {
		t.Fatalf("truncateText = %q", got)
	}
	if got := truncateText("abcdef", 2); got != "ab" {
		t.Fatalf("truncateText = %q", got)
	}
	if got := truncateText("anything", 0); got != "anything" {
		t.Fatalf("truncateText with no limit = %q", got)
	}
}

func TestPrefixAligns(t *testing.T) {
	p := &printer{columns: 100}
	if got := p.prefix(1, 12); got != "[ 1/12]" {
		t.Fatalf("prefix = %q", got)
	}
	if got := p.prefix(10, 12); got != "[10/12]" {
		t.Fatalf("prefix = %q", got)
	}
	if got := p.prefix(1, 1); got != "[1/1]" {
		t.Fatalf("prefix = %q", got)
	}
}

func TestColorizeRespectsToggle(t *testing.T) {
	plain := &printer{color: false}
	if got := plain.colorize("OK", colorGreen); got != "OK" {
		t.Fatalf("colorize without color = %q", got)
	}
	colored := &printer{color: true}
	if got := colored.colorize("OK", colorGreen); got != colorGreen+"OK"+colorReset {
		t.Fatalf("colorize with color = %q", got)
	}
}
