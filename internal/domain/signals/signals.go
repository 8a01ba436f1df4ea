// Package signals provides normalized, read-only views over the three timing
// signals the scheduler fuses: word-level transcript timestamps, scene-cut
// boundaries, and video duration. Construction normalizes once; afterwards a
// Signals value is safe for concurrent readers.
package signals

import (
	"sort"
	"strings"
	"time"

	"github.com/clipsmith/shortclips/internal/types"
)

// Sentence is one transcript segment viewed as a sentence-level span.
type Sentence struct {
	Start time.Duration
	End   time.Duration
	Text  string
	Words int
}

// Signals holds the normalized timeline views.
type Signals struct {
	duration  time.Duration
	sentences []Sentence
	cuts      []time.Duration // scene boundary timestamps, ascending
}

// New normalizes the raw collaborator data. Malformed transcript segments
// (empty span, outside video bounds) are dropped; scene cuts are deduplicated,
// sorted, and clamped to [0, videoDuration].
func New(tr types.Transcript, scenes []types.Scene, videoDuration time.Duration) *Signals {
	s := &Signals{duration: videoDuration}

	for _, seg := range tr.Segments {
		start := dur(seg.Start)
		end := dur(seg.End)
		if end <= start || start < 0 || start >= videoDuration {
			continue
		}
		if end > videoDuration {
			end = videoDuration
		}
		text := strings.TrimSpace(seg.Text)
		s.sentences = append(s.sentences, Sentence{
			Start: start,
			End:   end,
			Text:  text,
			Words: countWords(seg, text),
		})
	}
	sort.Slice(s.sentences, func(i, j int) bool {
		return s.sentences[i].Start < s.sentences[j].Start
	})

	seen := map[time.Duration]bool{}
	for _, sc := range scenes {
		for _, t := range []time.Duration{dur(sc.Start), dur(sc.End)} {
			if t < 0 || t > videoDuration || seen[t] {
				continue
			}
			seen[t] = true
			s.cuts = append(s.cuts, t)
		}
	}
	sort.Slice(s.cuts, func(i, j int) bool { return s.cuts[i] < s.cuts[j] })

	return s
}

// Duration returns the full video duration.
func (s *Signals) Duration() time.Duration { return s.duration }

// Sentences returns the normalized transcript spans in start order.
func (s *Signals) Sentences() []Sentence { return s.sentences }

// SceneCuts returns the scene boundary timestamps in ascending order.
func (s *Signals) SceneCuts() []time.Duration { return s.cuts }

// NearestSceneCut returns the scene boundary closest to t. ok is false when
// no scene data is available.
func (s *Signals) NearestSceneCut(t time.Duration) (cut time.Duration, ok bool) {
	if len(s.cuts) == 0 {
		return 0, false
	}
	i := sort.Search(len(s.cuts), func(i int) bool { return s.cuts[i] >= t })
	if i == 0 {
		return s.cuts[0], true
	}
	if i == len(s.cuts) {
		return s.cuts[len(s.cuts)-1], true
	}
	if s.cuts[i]-t < t-s.cuts[i-1] {
		return s.cuts[i], true
	}
	return s.cuts[i-1], true
}

// NextSentenceEnd returns the first sentence end strictly after t.
func (s *Signals) NextSentenceEnd(t time.Duration) (time.Duration, bool) {
	for _, sen := range s.sentences {
		if sen.End > t {
			return sen.End, true
		}
	}
	return 0, false
}

// PrevSentenceStart returns the last sentence start strictly before t.
func (s *Signals) PrevSentenceStart(t time.Duration) (time.Duration, bool) {
	for i := len(s.sentences) - 1; i >= 0; i-- {
		if s.sentences[i].Start < t {
			return s.sentences[i].Start, true
		}
	}
	return 0, false
}

// LastSentenceEndNotAfter returns the latest sentence end at or before t.
func (s *Signals) LastSentenceEndNotAfter(t time.Duration) (time.Duration, bool) {
	var best time.Duration
	found := false
	for _, sen := range s.sentences {
		if sen.End > t {
			break
		}
		best = sen.End
		found = true
	}
	return best, found
}

// TextBetween joins the text of sentences fully contained in [start, end].
func (s *Signals) TextBetween(start, end time.Duration) string {
	var parts []string
	for _, sen := range s.sentences {
		if sen.Start >= start && sen.End <= end && sen.Text != "" {
			parts = append(parts, sen.Text)
		}
	}
	return strings.Join(parts, " ")
}

// SpeechRate returns words per second over [start, end], a cheap engagement
// proxy for the heuristic selector.
func (s *Signals) SpeechRate(start, end time.Duration) float64 {
	if end <= start {
		return 0
	}
	words := 0
	for _, sen := range s.sentences {
		if sen.Start >= start && sen.End <= end {
			words += sen.Words
		}
	}
	return float64(words) / (end - start).Seconds()
}

func countWords(seg types.Segment, text string) int {
	if len(seg.Words) > 0 {
		return len(seg.Words)
	}
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
