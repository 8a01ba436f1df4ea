package schedule

import (
	"testing"
	"time"

	"github.com/clipsmith/shortclips/internal/domain/signals"
	"github.com/clipsmith/shortclips/internal/types"
)

func TestAlignToScenes(t *testing.T) {
	t.Parallel()

	scenes := []types.Scene{
		{Number: 1, Start: 0, End: 30},
		{Number: 2, Start: 30, End: 60},
		{Number: 3, Start: 60, End: 100},
	}
	sig := signals.New(types.Transcript{}, scenes, 100*time.Second)

	tests := []struct {
		name      string
		c         Candidate
		tolerance time.Duration
		wantStart time.Duration
		wantEnd   time.Duration
	}{
		{
			name:      "both edges snap",
			c:         Candidate{Start: 29 * time.Second, End: 61 * time.Second},
			tolerance: 2 * time.Second,
			wantStart: 30 * time.Second,
			wantEnd:   60 * time.Second,
		},
		{
			name:      "far edge keeps its value",
			c:         Candidate{Start: 29 * time.Second, End: 45 * time.Second},
			tolerance: 2 * time.Second,
			wantStart: 30 * time.Second,
			wantEnd:   45 * time.Second,
		},
		{
			name:      "zero tolerance disables alignment",
			c:         Candidate{Start: 29 * time.Second, End: 45 * time.Second},
			tolerance: 0,
			wantStart: 29 * time.Second,
			wantEnd:   45 * time.Second,
		},
		{
			name:      "inverting snap is skipped",
			c:         Candidate{Start: 29500 * time.Millisecond, End: 30500 * time.Millisecond},
			tolerance: 2 * time.Second,
			wantStart: 29500 * time.Millisecond,
			wantEnd:   30500 * time.Millisecond,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alignToScenes(tt.c, sig, tt.tolerance)
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Fatalf("alignToScenes = [%s, %s], want [%s, %s]",
					got.Start, got.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestAlignToScenes_NoSceneData(t *testing.T) {
	t.Parallel()

	sig := signals.New(types.Transcript{}, nil, 100*time.Second)
	c := Candidate{Start: 10 * time.Second, End: 40 * time.Second}

	got := alignToScenes(c, sig, 2*time.Second)
	if got != c {
		t.Fatalf("candidate changed without scene data: %+v", got)
	}
}
