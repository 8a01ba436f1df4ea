package schedule

import (
	"sort"
	"time"

	"github.com/clipsmith/shortclips/internal/domain/signals"
	"github.com/clipsmith/shortclips/internal/types"
)

// selectCandidates builds the ranked candidate list. AI key moments rank
// first (descending score, tie-break ascending start); when fewer than
// TargetClips survive validation, heuristic windows synthesized from the
// transcript fill the gap so the pipeline never fails solely because the AI
// collaborator returned nothing.
func selectCandidates(sig *signals.Signals, moments []types.KeyMoment, cfg Config) []Candidate {
	cands := validMoments(sig, moments, cfg)

	want := 2 * cfg.TargetClips
	if len(cands) < cfg.TargetClips {
		fill := heuristicCandidates(sig, cfg, want-len(cands))
		cands = append(cands, fill...)
	}
	if len(cands) > want {
		cands = cands[:want]
	}
	return cands
}

func validMoments(sig *signals.Signals, moments []types.KeyMoment, cfg Config) []Candidate {
	videoDur := sig.Duration()
	out := make([]Candidate, 0, len(moments))
	for _, m := range moments {
		start := dur(m.Start)
		end := dur(m.End)
		if start < 0 {
			start = 0
		}
		if end > videoDur {
			end = videoDur
		}
		if end <= start || m.Score < 0 {
			continue
		}
		// A window shorter than the minimum is only worth keeping when the
		// video has room for the clamper to extend it.
		if end-start < cfg.MinDuration && videoDur < cfg.MinDuration {
			continue
		}
		out = append(out, Candidate{Start: start, End: end, Score: m.Score, Source: SourceAI})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// heuristicCandidates synthesizes windows from transcript sentences, scored
// by text features plus speech rate. Windows are grown sentence by sentence
// from successive anchors, which keeps candidates spread over the timeline.
// When every sentence exceeds the maximum clip length the sentence walk
// yields nothing, so evenly spaced minimum-length windows fill in instead:
// a transcript-bearing video must never plan to zero for granularity reasons.
func heuristicCandidates(sig *signals.Signals, cfg Config, n int) []Candidate {
	if n <= 0 {
		return nil
	}
	sentences := sig.Sentences()
	if len(sentences) == 0 {
		return nil
	}

	var out []Candidate
	for i := 0; i < len(sentences); i++ {
		start := sentences[i].Start
		var text string
		for j := i; j < len(sentences); j++ {
			end := sentences[j].End
			win := end - start
			if win > cfg.MaxDuration {
				break
			}
			if sentences[j].Text != "" {
				if text != "" {
					text += " "
				}
				text += sentences[j].Text
			}
			if win < cfg.MinDuration {
				continue
			}
			out = append(out, Candidate{
				Start:  start,
				End:    end,
				Score:  heuristicScore(text, sig.SpeechRate(start, end)),
				Source: SourceHeuristic,
			})
			// One window per anchor keeps the pool diverse; the next anchor
			// starts past this window.
			i = j
			break
		}
	}

	if len(out) == 0 {
		out = spreadCandidates(sig, cfg, n)
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Start < out[b].Start
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// spreadCandidates places n minimum-length windows at evenly spaced offsets
// across the video, independent of transcript granularity.
func spreadCandidates(sig *signals.Signals, cfg Config, n int) []Candidate {
	videoDur := sig.Duration()
	if videoDur < cfg.MinDuration {
		return nil
	}
	spacing := videoDur / time.Duration(n+1)
	out := make([]Candidate, 0, n)
	for i := 1; i <= n; i++ {
		start := spacing * time.Duration(i)
		if start+cfg.MinDuration > videoDur {
			start = videoDur - cfg.MinDuration
		}
		end := start + cfg.MinDuration
		out = append(out, Candidate{
			Start:  start,
			End:    end,
			Score:  heuristicScore(sig.TextBetween(start, end), sig.SpeechRate(start, end)),
			Source: SourceHeuristic,
		})
	}
	return out
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
