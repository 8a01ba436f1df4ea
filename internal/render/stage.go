package render

import "fmt"

// Stage identifies one step of the clip rendering chain. Stages run in
// declaration order; optional stages pass through when disabled.
type Stage int

const (
	StagePending Stage = iota
	StageExtract
	StageReframe
	StageZoom
	StageTextOverlay
	StageAudioMix
	StageEncode
	StageThumbnail
	StageCompleted
)

var stageNames = [...]string{
	StagePending:     "pending",
	StageExtract:     "extract",
	StageReframe:     "reframe",
	StageZoom:        "zoom",
	StageTextOverlay: "text_overlay",
	StageAudioMix:    "audio_mix",
	StageEncode:      "encode",
	StageThumbnail:   "thumbnail",
	StageCompleted:   "completed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// StageError marks a render job as failed at a specific stage. A stage
// failure aborts the remaining stages for that clip only.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("render stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
