package schedule

import "time"

// resolveOverlaps walks candidates in rank order and greedily accepts each
// one that does not overlap an already-accepted interval beyond the
// tolerance; rejected candidates are dropped, not merged. Greedy-by-rank is
// not globally optimal interval packing, but it keeps the highest-scored
// non-conflicting moments, which is what viewers see first.
func resolveOverlaps(cands []Candidate, targetClips int, tolerance time.Duration) []Interval {
	accepted := make([]Interval, 0, targetClips)
	for _, c := range cands {
		if len(accepted) >= targetClips {
			break
		}
		if conflicts(c, accepted, tolerance) {
			continue
		}
		accepted = append(accepted, Interval{
			Start: c.Start,
			End:   c.End,
			Rank:  len(accepted) + 1,
		})
	}
	return accepted
}

func conflicts(c Candidate, accepted []Interval, tolerance time.Duration) bool {
	for _, iv := range accepted {
		if overlap(c.Start, c.End, iv.Start, iv.End) > tolerance {
			return true
		}
	}
	return false
}

func overlap(aStart, aEnd, bStart, bEnd time.Duration) time.Duration {
	start := maxDur(aStart, bStart)
	end := minDur(aEnd, bEnd)
	if end <= start {
		return 0
	}
	return end - start
}
