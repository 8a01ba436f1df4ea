package schedule

import (
	"testing"
	"time"

	"github.com/clipsmith/shortclips/internal/domain/signals"
	"github.com/clipsmith/shortclips/internal/types"
)

func TestValidMoments(t *testing.T) {
	t.Parallel()

	sig := signals.New(gridTranscript(100, 10), nil, 100*time.Second)
	cfg := testConfig()

	moments := []types.KeyMoment{
		{Start: -5, End: 20, Score: 0.5},   // start clamped to 0
		{Start: 80, End: 130, Score: 0.6},  // end clamped to video end
		{Start: 50, End: 40, Score: 0.9},   // inverted, dropped
		{Start: 10, End: 30, Score: -0.1},  // negative score, dropped
		{Start: 30, End: 55, Score: 0.8},   // kept as-is
	}

	got := validMoments(sig, moments, cfg)
	if len(got) != 3 {
		t.Fatalf("expected 3 valid candidates, got %d: %+v", len(got), got)
	}
	// Sorted descending score.
	if got[0].Score != 0.8 || got[1].Score != 0.6 || got[2].Score != 0.5 {
		t.Fatalf("bad score order: %+v", got)
	}
	if got[2].Start != 0 {
		t.Errorf("negative start not clamped: %+v", got[2])
	}
	if got[1].End != 100*time.Second {
		t.Errorf("overlong end not clamped: %+v", got[1])
	}
	for _, c := range got {
		if c.Source != SourceAI {
			t.Errorf("candidate not tagged ai: %+v", c)
		}
	}
}

func TestValidMoments_TieBreaksByStart(t *testing.T) {
	t.Parallel()

	sig := signals.New(gridTranscript(600, 10), nil, 600*time.Second)
	moments := []types.KeyMoment{
		{Start: 200, End: 230, Score: 0.8},
		{Start: 30, End: 60, Score: 0.8},
	}

	got := validMoments(sig, moments, testConfig())
	if len(got) != 2 || got[0].Start != 30*time.Second {
		t.Fatalf("tie not broken by earlier start: %+v", got)
	}
}

func TestSelectCandidates_NoFillWhenEnoughMoments(t *testing.T) {
	t.Parallel()

	sig := signals.New(gridTranscript(600, 10), nil, 600*time.Second)
	moments := []types.KeyMoment{
		{Start: 30, End: 55, Score: 0.9},
		{Start: 200, End: 230, Score: 0.8},
		{Start: 400, End: 430, Score: 0.7},
	}

	got := selectCandidates(sig, moments, testConfig())
	for _, c := range got {
		if c.Source == SourceHeuristic {
			t.Fatalf("heuristic fill despite enough ai moments: %+v", got)
		}
	}
}

func TestSelectCandidates_FillsWhenShort(t *testing.T) {
	t.Parallel()

	sig := signals.New(gridTranscript(600, 10), nil, 600*time.Second)
	moments := []types.KeyMoment{
		{Start: 30, End: 55, Score: 0.9},
	}

	got := selectCandidates(sig, moments, testConfig())
	if len(got) < 3 {
		t.Fatalf("expected heuristic fill, got %d candidates", len(got))
	}
	heuristic := 0
	for _, c := range got {
		if c.Source == SourceHeuristic {
			heuristic++
		}
	}
	if heuristic == 0 {
		t.Fatalf("no heuristic candidates in fill: %+v", got)
	}
}

func TestHeuristicCandidates_WindowBounds(t *testing.T) {
	t.Parallel()

	sig := signals.New(gridTranscript(300, 10), nil, 300*time.Second)
	cfg := testConfig()

	got := heuristicCandidates(sig, cfg, 6)
	if len(got) == 0 {
		t.Fatal("expected heuristic candidates")
	}
	if len(got) > 6 {
		t.Fatalf("cap exceeded: %d", len(got))
	}
	for _, c := range got {
		d := c.End - c.Start
		if d < cfg.MinDuration || d > cfg.MaxDuration {
			t.Errorf("window %s outside [%s, %s]", d, cfg.MinDuration, cfg.MaxDuration)
		}
	}
}

func TestHeuristicCandidates_SentencesLongerThanMax(t *testing.T) {
	t.Parallel()

	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 200, Text: "long"},
		{Start: 200, End: 400, Text: "longer"},
		{Start: 400, End: 600, Text: "longest"},
	}}
	sig := signals.New(tr, nil, 600*time.Second)
	cfg := testConfig()

	got := heuristicCandidates(sig, cfg, 6)
	if len(got) == 0 {
		t.Fatal("expected evenly spaced fallback windows")
	}
	for _, c := range got {
		if d := c.End - c.Start; d != cfg.MinDuration {
			t.Errorf("spread window %s, want %s", d, cfg.MinDuration)
		}
		if c.Start < 0 || c.End > 600*time.Second {
			t.Errorf("window leaves video bounds: %+v", c)
		}
		if c.Source != SourceHeuristic {
			t.Errorf("window not tagged heuristic: %+v", c)
		}
	}
}

func TestSpreadCandidates_VideoShorterThanMin(t *testing.T) {
	t.Parallel()

	tr := types.Transcript{Segments: []types.Segment{{Start: 0, End: 10, Text: "short"}}}
	sig := signals.New(tr, nil, 10*time.Second)
	if got := spreadCandidates(sig, testConfig(), 6); got != nil {
		t.Fatalf("expected nil below minimum length, got %+v", got)
	}
}

func TestHeuristicCandidates_EmptyTranscript(t *testing.T) {
	t.Parallel()

	sig := signals.New(types.Transcript{}, nil, 300*time.Second)
	if got := heuristicCandidates(sig, testConfig(), 6); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
