// Package ports declares the interfaces the pipeline needs from its external
// collaborators. Adapters live under ports/adapters.
package ports

import (
	"context"
	"time"

	"github.com/clipsmith/shortclips/internal/types"
)

// MediaEngine drives the external media-rendering engine. Each method maps
// onto one render stage and consumes/produces file paths; the engine never
// holds state between calls.
type MediaEngine interface {
	// Available reports whether the engine can run at all. Its failure is a
	// fatal configuration error surfaced once per batch, never per clip.
	Available(ctx context.Context) error
	Probe(ctx context.Context, in string) (time.Duration, error)
	ExtractAudioMono16k(ctx context.Context, in, outWav string) error
	ExtractSegment(ctx context.Context, in string, start, end time.Duration, out string) error
	Reframe(ctx context.Context, in, out string, width, height int) error
	Zoom(ctx context.Context, in, out string, factor float64) error
	DrawTextOverlay(ctx context.Context, in, out, text string, visible time.Duration) error
	MixAudio(ctx context.Context, in, musicPath, out string, musicVolume float64) error
	Encode(ctx context.Context, in, out string) error
	Thumbnail(ctx context.Context, in string, at time.Duration, out string) error
}

// ASR transcribes extracted audio with word-level timestamps.
type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}

// SceneDetector finds scene-cut boundaries, contiguous over the full video.
type SceneDetector interface {
	DetectScenes(ctx context.Context, videoPath string) ([]types.Scene, error)
}

// ContentAnalyzer is the generative-content-suggestion collaborator.
type ContentAnalyzer interface {
	// KeyMoments suggests up to n engagement windows within the duration
	// bounds. Output is unvalidated; the scheduler clamps and filters it.
	KeyMoments(ctx context.Context, tr types.Transcript, videoTitle string, n int, minClip, maxClip time.Duration) ([]types.KeyMoment, error)
	Analyze(ctx context.Context, tr types.Transcript, videoTitle string) (string, error)
	ViralTitle(ctx context.Context, clipText string) (string, error)
	TextHook(ctx context.Context, clipText string) (string, error)
}

// MusicSource locates a copyright-free background track.
type MusicSource interface {
	DefaultTrack(ctx context.Context, destDir string) (string, error)
}

// Downloader acquires a network video.
type Downloader interface {
	Download(ctx context.Context, url, destDir string) (Download, error)
	Info(ctx context.Context, url string) (types.VideoInfo, error)
}

// Download describes a completed video acquisition.
type Download struct {
	Path     string
	Title    string
	Duration float64
}
