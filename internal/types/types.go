package types

// Transcript is the structured output of the speech-to-text collaborator.
// Segments are ordered by start time and do not overlap.
type Transcript struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// Scene is one detected scene span. Scenes are contiguous over the full
// video duration: End of scene i equals Start of scene i+1.
type Scene struct {
	Number int     `json:"scene_number"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
}

// KeyMoment is an AI-suggested high-engagement window. The analyzer gives no
// guarantees: moments may be unordered, overlapping, or outside video bounds,
// and must be validated before use.
type KeyMoment struct {
	Start     float64 `json:"start_sec"`
	End       float64 `json:"end_sec"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale,omitempty"`
}

// ClipResult is the externally visible unit returned per requested clip.
type ClipResult struct {
	VideoPath     string  `json:"video_path"`
	ThumbnailPath string  `json:"thumbnail_path"`
	Title         string  `json:"title"`
	TextHook      string  `json:"text_hook"`
	Duration      float64 `json:"duration"`
	Success       bool    `json:"success"`
	Error         string  `json:"error,omitempty"`
}

// BatchResult aggregates one processing run. Success is true when at least
// one clip rendered; per-clip failures land in Errors without aborting the
// batch, so a partially successful run has Success=true and non-empty Errors.
type BatchResult struct {
	Success       bool         `json:"success"`
	Clips         []ClipResult `json:"clips"`
	Errors        []string     `json:"errors"`
	OriginalTitle string       `json:"original_title,omitempty"`
	Analysis      string       `json:"analysis,omitempty"`
}

// VideoInfo is downloader metadata fetched without downloading.
type VideoInfo struct {
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description,omitempty"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
}
