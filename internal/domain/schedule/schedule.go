// Package schedule fuses the timeline signals into a final ordered list of
// clip intervals. Plan is a pure function: identical signals and config yield
// an identical interval list, so a batch can be re-planned safely.
package schedule

import (
	"fmt"
	"time"

	"github.com/clipsmith/shortclips/internal/domain/signals"
	"github.com/clipsmith/shortclips/internal/types"
)

// Source tags where a candidate window came from.
type Source int

const (
	SourceAI Source = iota
	SourceHeuristic
)

func (s Source) String() string {
	if s == SourceAI {
		return "ai"
	}
	return "heuristic"
}

// Candidate is a tentative clip window. It is owned exclusively by the
// scheduling pipeline and mutated in place through alignment and clamping.
type Candidate struct {
	Start  time.Duration
	End    time.Duration
	Score  float64
	Source Source
}

// Interval is a finalized clip window. Intervals in a planned list never
// overlap and each length lies in [MinDuration, MaxDuration].
type Interval struct {
	Start time.Duration
	End   time.Duration
	Rank  int
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration { return iv.End - iv.Start }

// Config holds the scheduling parameters. Zero tolerances are valid and mean
// exact matching.
type Config struct {
	TargetClips        int
	MinDuration        time.Duration
	MaxDuration        time.Duration
	SceneSnapTolerance time.Duration
	OverlapTolerance   time.Duration
}

func (c Config) validate() error {
	if c.TargetClips <= 0 {
		return fmt.Errorf("target clips must be > 0")
	}
	if c.MinDuration <= 0 || c.MaxDuration < c.MinDuration {
		return fmt.Errorf("clip duration bounds invalid: min=%s max=%s", c.MinDuration, c.MaxDuration)
	}
	return nil
}

// InsufficientContentError reports that no valid interval survived selection,
// alignment, clamping, and overlap resolution. It signals that the source
// video lacks usable content, not a transient fault.
type InsufficientContentError struct {
	Duration time.Duration
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("no usable clip intervals in %s of content", e.Duration)
}

// Plan runs selection, scene alignment, duration clamping, and overlap
// resolution, returning up to cfg.TargetClips intervals in rank order.
func Plan(sig *signals.Signals, moments []types.KeyMoment, cfg Config) ([]Interval, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cands := selectCandidates(sig, moments, cfg)

	kept := cands[:0]
	for _, c := range cands {
		c = alignToScenes(c, sig, cfg.SceneSnapTolerance)
		c, ok := clampDuration(c, sig, cfg)
		if !ok {
			continue
		}
		kept = append(kept, c)
	}

	intervals := resolveOverlaps(kept, cfg.TargetClips, cfg.OverlapTolerance)
	if len(intervals) == 0 {
		return nil, &InsufficientContentError{Duration: sig.Duration()}
	}
	return intervals, nil
}
