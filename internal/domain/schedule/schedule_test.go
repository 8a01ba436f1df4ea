package schedule

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/clipsmith/shortclips/internal/domain/signals"
	"github.com/clipsmith/shortclips/internal/types"
)

func testConfig() Config {
	return Config{
		TargetClips:        3,
		MinDuration:        15 * time.Second,
		MaxDuration:        60 * time.Second,
		SceneSnapTolerance: 2 * time.Second,
		OverlapTolerance:   500 * time.Millisecond,
	}
}

// gridTranscript builds a transcript with one sentence every step seconds
// up to total, so clamping always has boundaries to work with.
func gridTranscript(total, step float64) types.Transcript {
	var tr types.Transcript
	n := 0
	for t := 0.0; t+step <= total; t += step {
		tr.Segments = append(tr.Segments, types.Segment{
			Start: t,
			End:   t + step,
			Text:  fmt.Sprintf("sentence number %d of the talk", n),
		})
		n++
	}
	return tr
}

func TestPlan_RanksMomentsByScore(t *testing.T) {
	t.Parallel()

	sig := signals.New(gridTranscript(600, 10), nil, 600*time.Second)
	moments := []types.KeyMoment{
		{Start: 400, End: 420, Score: 0.4},
		{Start: 30, End: 55, Score: 0.9},
		{Start: 200, End: 260, Score: 0.8},
	}

	got, err := Plan(sig, moments, testConfig())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	want := []Interval{
		{Start: 30 * time.Second, End: 55 * time.Second, Rank: 1},
		{Start: 200 * time.Second, End: 260 * time.Second, Rank: 2},
		{Start: 400 * time.Second, End: 420 * time.Second, Rank: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("intervals = %+v, want %+v", got, want)
	}
}

func TestPlan_DropsOverlappingLowerScore(t *testing.T) {
	t.Parallel()

	sig := signals.New(gridTranscript(600, 10), nil, 600*time.Second)
	moments := []types.KeyMoment{
		{Start: 10, End: 40, Score: 0.7},
		{Start: 20, End: 50, Score: 0.9},
	}
	cfg := testConfig()
	cfg.TargetClips = 2

	got, err := Plan(sig, moments, cfg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only the higher-scored moment to survive, got %+v", got)
	}
	if got[0].Start != 20*time.Second || got[0].End != 50*time.Second || got[0].Rank != 1 {
		t.Fatalf("kept wrong interval: %+v", got[0])
	}
}

func TestPlan_HeuristicFallbackWithoutMoments(t *testing.T) {
	t.Parallel()

	sig := signals.New(gridTranscript(120, 10), nil, 120*time.Second)

	got, err := Plan(sig, nil, testConfig())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 heuristic intervals, got %d: %+v", len(got), got)
	}
	for i, iv := range got {
		if iv.Rank != i+1 {
			t.Errorf("interval %d has rank %d", i, iv.Rank)
		}
		if d := iv.Duration(); d < 15*time.Second || d > 60*time.Second {
			t.Errorf("interval %d duration %s outside bounds", i, d)
		}
		for j := 0; j < i; j++ {
			if overlap(iv.Start, iv.End, got[j].Start, got[j].End) > 500*time.Millisecond {
				t.Errorf("intervals %d and %d overlap: %+v %+v", j, i, got[j], iv)
			}
		}
	}
}

func TestPlan_CoarseTranscriptStillFillsTarget(t *testing.T) {
	t.Parallel()

	// Every sentence is far longer than the maximum clip length, so no
	// sentence-grown window can exist; planning must still not come up empty.
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 200, Text: "a very long uninterrupted passage"},
		{Start: 200, End: 400, Text: "another long uninterrupted passage"},
		{Start: 400, End: 600, Text: "the closing long passage"},
	}}
	sig := signals.New(tr, nil, 600*time.Second)

	got, err := Plan(sig, nil, testConfig())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 intervals, got %d: %+v", len(got), got)
	}
	for i, iv := range got {
		if d := iv.Duration(); d < 15*time.Second || d > 60*time.Second {
			t.Errorf("interval %d duration %s outside bounds", i, d)
		}
		if iv.Start < 0 || iv.End > 600*time.Second {
			t.Errorf("interval %d leaves video bounds: %+v", i, iv)
		}
		for j := 0; j < i; j++ {
			if overlap(iv.Start, iv.End, got[j].Start, got[j].End) > 500*time.Millisecond {
				t.Errorf("intervals %d and %d overlap: %+v %+v", j, i, got[j], iv)
			}
		}
	}
}

func TestPlan_InsufficientContent(t *testing.T) {
	t.Parallel()

	sig := signals.New(types.Transcript{}, nil, 10*time.Second)

	_, err := Plan(sig, nil, testConfig())
	var ice *InsufficientContentError
	if !errors.As(err, &ice) {
		t.Fatalf("expected InsufficientContentError, got %v", err)
	}
	if ice.Duration != 10*time.Second {
		t.Fatalf("error duration = %s", ice.Duration)
	}
}

func TestPlan_Deterministic(t *testing.T) {
	t.Parallel()

	tr := gridTranscript(300, 8)
	scenes := []types.Scene{
		{Number: 1, Start: 0, End: 31},
		{Number: 2, Start: 31, End: 152},
		{Number: 3, Start: 152, End: 300},
	}
	moments := []types.KeyMoment{
		{Start: 29, End: 58, Score: 0.8},
		{Start: 150, End: 190, Score: 0.8}, // same score, later start
		{Start: 240, End: 244, Score: 0.5},
	}
	cfg := testConfig()

	first, err := Plan(signals.New(tr, scenes, 300*time.Second), moments, cfg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	second, err := Plan(signals.New(tr, scenes, 300*time.Second), moments, cfg)
	if err != nil {
		t.Fatalf("Plan (second): %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("plans differ:\n%+v\n%+v", first, second)
	}
	// Equal scores break the tie by earlier start.
	if len(first) < 2 || first[0].Start >= first[1].Start {
		t.Fatalf("equal-score tie not broken by start: %+v", first)
	}
}

func TestPlan_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	sig := signals.New(gridTranscript(120, 10), nil, 120*time.Second)

	for _, cfg := range []Config{
		{TargetClips: 0, MinDuration: 15 * time.Second, MaxDuration: 60 * time.Second},
		{TargetClips: 3, MinDuration: 0, MaxDuration: 60 * time.Second},
		{TargetClips: 3, MinDuration: 60 * time.Second, MaxDuration: 15 * time.Second},
	} {
		if _, err := Plan(sig, nil, cfg); err == nil {
			t.Errorf("expected config error for %+v", cfg)
		}
	}
}
