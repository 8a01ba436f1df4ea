package schedule

import (
	"testing"
	"time"

	"github.com/clipsmith/shortclips/internal/domain/signals"
	"github.com/clipsmith/shortclips/internal/types"
)

func TestClampDuration(t *testing.T) {
	t.Parallel()

	cfg := Config{
		TargetClips: 3,
		MinDuration: 15 * time.Second,
		MaxDuration: 60 * time.Second,
	}

	tests := []struct {
		name      string
		tr        types.Transcript
		videoDur  time.Duration
		c         Candidate
		wantOK    bool
		wantStart time.Duration
		wantEnd   time.Duration
	}{
		{
			name:      "in range unchanged",
			tr:        gridTranscript(600, 10),
			videoDur:  600 * time.Second,
			c:         Candidate{Start: 30 * time.Second, End: 55 * time.Second},
			wantOK:    true,
			wantStart: 30 * time.Second,
			wantEnd:   55 * time.Second,
		},
		{
			name: "extends forward to sentence end",
			tr: types.Transcript{Segments: []types.Segment{
				{Start: 0, End: 10, Text: "a"},
				{Start: 10, End: 22, Text: "b"},
			}},
			videoDur:  60 * time.Second,
			c:         Candidate{Start: 0, End: 10 * time.Second},
			wantOK:    true,
			wantStart: 0,
			wantEnd:   22 * time.Second,
		},
		{
			name:      "extends backward when forward is not enough",
			tr:        gridTranscript(120, 10),
			videoDur:  120 * time.Second,
			c:         Candidate{Start: 100 * time.Second, End: 105 * time.Second},
			wantOK:    true,
			wantStart: 90 * time.Second,
			wantEnd:   110 * time.Second,
		},
		{
			name:      "raw fill without sentences",
			videoDur:  600 * time.Second,
			c:         Candidate{Start: 5 * time.Second, End: 10 * time.Second},
			wantOK:    true,
			wantStart: 5 * time.Second,
			wantEnd:   20 * time.Second,
		},
		{
			name:      "raw fill pushes start back at video end",
			videoDur:  600 * time.Second,
			c:         Candidate{Start: 590 * time.Second, End: 595 * time.Second},
			wantOK:    true,
			wantStart: 585 * time.Second,
			wantEnd:   600 * time.Second,
		},
		{
			name:     "dropped when video shorter than minimum",
			videoDur: 10 * time.Second,
			c:        Candidate{Start: 2 * time.Second, End: 6 * time.Second},
			wantOK:   false,
		},
		{
			name: "trims to sentence end",
			tr: types.Transcript{Segments: []types.Segment{
				{Start: 0, End: 50, Text: "long sentence"},
			}},
			videoDur:  100 * time.Second,
			c:         Candidate{Start: 0, End: 80 * time.Second},
			wantOK:    true,
			wantStart: 0,
			wantEnd:   50 * time.Second,
		},
		{
			name:      "hard trim without sentences",
			videoDur:  100 * time.Second,
			c:         Candidate{Start: 0, End: 80 * time.Second},
			wantOK:    true,
			wantStart: 0,
			wantEnd:   60 * time.Second,
		},
		{
			name: "trim ignores sentence end below minimum",
			tr: types.Transcript{Segments: []types.Segment{
				{Start: 0, End: 5, Text: "short opener"},
			}},
			videoDur:  100 * time.Second,
			c:         Candidate{Start: 0, End: 80 * time.Second},
			wantOK:    true,
			wantStart: 0,
			wantEnd:   60 * time.Second,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := signals.New(tt.tr, nil, tt.videoDur)
			got, ok := clampDuration(tt.c, sig, cfg)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (candidate %+v)", ok, tt.wantOK, got)
			}
			if !ok {
				return
			}
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Fatalf("clampDuration = [%s, %s], want [%s, %s]",
					got.Start, got.End, tt.wantStart, tt.wantEnd)
			}
			if got.Start < 0 || got.End > tt.videoDur {
				t.Fatalf("result leaves video bounds: %+v", got)
			}
		})
	}
}
