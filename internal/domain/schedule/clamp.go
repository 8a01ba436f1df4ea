package schedule

import (
	"time"

	"github.com/clipsmith/shortclips/internal/domain/signals"
)

// clampDuration enforces MinDuration <= length <= MaxDuration. Short windows
// grow along transcript sentence boundaries first and fall back to raw
// extension against video bounds; when even the full video cannot satisfy
// the minimum the candidate is dropped. Long windows are trimmed from the
// end, preserving the opening where hooks anchor, stopping at the nearest
// sentence end at or before the maximum when one exists.
// The result never leaves [0, videoDuration].
func clampDuration(c Candidate, sig *signals.Signals, cfg Config) (Candidate, bool) {
	videoDur := sig.Duration()
	if c.Start < 0 {
		c.Start = 0
	}
	if c.End > videoDur {
		c.End = videoDur
	}
	if c.End <= c.Start {
		return c, false
	}

	if c.End-c.Start < cfg.MinDuration {
		c = extend(c, sig, cfg, videoDur)
		if c.End-c.Start < cfg.MinDuration {
			return c, false
		}
	}

	if c.End-c.Start > cfg.MaxDuration {
		limit := c.Start + cfg.MaxDuration
		if end, ok := sig.LastSentenceEndNotAfter(limit); ok && end-c.Start >= cfg.MinDuration {
			c.End = end
		} else {
			c.End = limit
		}
	}
	return c, true
}

func extend(c Candidate, sig *signals.Signals, cfg Config, videoDur time.Duration) Candidate {
	// Sentence-boundary growth first: forward, then backward.
	if end, ok := sig.NextSentenceEnd(c.End); ok && end <= videoDur && end-c.Start <= cfg.MaxDuration {
		c.End = end
	}
	if c.End-c.Start < cfg.MinDuration {
		if start, ok := sig.PrevSentenceStart(c.Start); ok && start >= 0 && c.End-start <= cfg.MaxDuration {
			c.Start = start
		}
	}

	// Raw fill against video bounds when sentence growth was not enough.
	if c.End-c.Start < cfg.MinDuration {
		c.End = minDur(videoDur, c.Start+cfg.MinDuration)
	}
	if c.End-c.Start < cfg.MinDuration {
		c.Start = maxDur(0, c.End-cfg.MinDuration)
	}
	return c
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func maxDur(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
