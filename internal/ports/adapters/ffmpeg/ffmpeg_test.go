package ffmpeg

import (
	"testing"
	"time"
)

func TestFmtSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.000"},
		{30 * time.Second, "30.000"},
		{1500 * time.Millisecond, "1.500"},
		{62500 * time.Millisecond, "62.500"},
	}
	for _, tt := range tests {
		if got := fmtSeconds(tt.d); got != tt.want {
			t.Errorf("fmtSeconds(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEscapeDrawText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain hook", "plain hook"},
		{"it's here", `it\'s here`},
		{"ratio 9:16", `ratio 9\:16`},
		{"100% real", `100\% real`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeDrawText(tt.in); got != tt.want {
			t.Errorf("escapeDrawText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_DefaultBinaries(t *testing.T) {
	t.Parallel()

	a := New("", "")
	if a.ffmpeg != "ffmpeg" || a.ffprobe != "ffprobe" {
		t.Errorf("defaults = %q, %q", a.ffmpeg, a.ffprobe)
	}
}
