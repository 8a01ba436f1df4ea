package schedule

import (
	"time"

	"github.com/clipsmith/shortclips/internal/domain/signals"
)

// alignToScenes snaps each edge of the candidate to the nearest scene cut
// within the tolerance. Alignment is best-effort: an edge with no cut in
// range keeps its original value, and when snapping would invert the window
// the candidate is returned unchanged.
func alignToScenes(c Candidate, sig *signals.Signals, tolerance time.Duration) Candidate {
	if tolerance <= 0 {
		return c
	}

	start, end := c.Start, c.End
	if cut, ok := sig.NearestSceneCut(c.Start); ok && absDur(cut-c.Start) <= tolerance {
		start = cut
	}
	if cut, ok := sig.NearestSceneCut(c.End); ok && absDur(cut-c.End) <= tolerance {
		end = cut
	}
	if end <= start {
		return c
	}
	c.Start, c.End = start, end
	return c
}

func absDur(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
