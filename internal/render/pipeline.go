// Package render turns one clip interval into an exported vertical video
// asset plus thumbnail through an ordered chain of independently failable
// stages: extract, reframe, zoom, text overlay, audio mix, encode, thumbnail.
package render

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/clipsmith/shortclips/internal/domain/schedule"
	"github.com/clipsmith/shortclips/internal/ports"
)

// Options are the per-clip stage parameters.
type Options struct {
	AddZoom   bool
	AddMusic  bool
	TextHook  string
	MusicPath string

	Width  int
	Height int

	// Tunables with defaults applied by Render when zero.
	ZoomFactor  float64
	MusicVolume float64
	HookVisible time.Duration
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1080
	}
	if o.Height <= 0 {
		o.Height = 1920
	}
	if o.ZoomFactor <= 1 {
		o.ZoomFactor = 1.15
	}
	if o.MusicVolume <= 0 {
		o.MusicVolume = 0.3
	}
	if o.HookVisible <= 0 {
		o.HookVisible = 3 * time.Second
	}
	return o
}

// Output describes a completed render job.
type Output struct {
	VideoPath     string
	ThumbnailPath string
	Duration      time.Duration
}

// Pipeline renders clips through the external media engine. Safe for
// concurrent use: each job keeps its state in its own workspace.
type Pipeline struct {
	engine ports.MediaEngine
	log    *slog.Logger
}

func New(engine ports.MediaEngine, log *slog.Logger) *Pipeline {
	return &Pipeline{engine: engine, log: log}
}

// job is the mutable per-clip state. It lives for one Render call and is
// never shared across jobs.
type job struct {
	interval schedule.Interval
	stage    Stage
	source   string
	current  string
	workDir  string
	videoOut string
	thumbOut string
}

type step struct {
	stage Stage
	skip  func(Options) bool
	run   func(ctx context.Context, p *Pipeline, j *job, opts Options) error
}

// steps is the stage transition table. New optional stages insert here
// without touching existing stage contracts.
var steps = []step{
	{stage: StageExtract, run: runExtract},
	{stage: StageReframe, run: runReframe},
	{stage: StageZoom, skip: func(o Options) bool { return !o.AddZoom }, run: runZoom},
	{stage: StageTextOverlay, skip: func(o Options) bool { return strings.TrimSpace(o.TextHook) == "" }, run: runTextOverlay},
	{stage: StageAudioMix, skip: func(o Options) bool { return !o.AddMusic || o.MusicPath == "" }, run: runAudioMix},
	{stage: StageEncode, run: runEncode},
	{stage: StageThumbnail, run: runThumbnail},
}

// Render executes the stage chain for one interval. Intermediate artifacts
// land in workDir (exclusive to this job, cleaned up by the caller); the
// final video and thumbnail are written as outBase.mp4 and outBase_thumb.jpg.
// Cancellation is honored at stage boundaries.
func (p *Pipeline) Render(ctx context.Context, source string, iv schedule.Interval, opts Options, workDir, outBase string) (Output, error) {
	opts = opts.withDefaults()
	j := &job{
		interval: iv,
		stage:    StagePending,
		source:   source,
		current:  source,
		workDir:  workDir,
		videoOut: outBase + ".mp4",
		thumbOut: outBase + "_thumb.jpg",
	}

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return Output{}, &StageError{Stage: st.stage, Err: err}
		}
		if st.skip != nil && st.skip(opts) {
			continue
		}
		j.stage = st.stage
		p.log.Debug("render stage", "stage", st.stage.String(), "rank", iv.Rank)
		if err := st.run(ctx, p, j, opts); err != nil {
			return Output{}, &StageError{Stage: st.stage, Err: err}
		}
	}
	j.stage = StageCompleted

	return Output{
		VideoPath:     j.videoOut,
		ThumbnailPath: j.thumbOut,
		Duration:      iv.Duration(),
	}, nil
}

func runExtract(ctx context.Context, p *Pipeline, j *job, _ Options) error {
	out := filepath.Join(j.workDir, "extract.mp4")
	if err := p.engine.ExtractSegment(ctx, j.source, j.interval.Start, j.interval.End, out); err != nil {
		return err
	}
	j.current = out
	return nil
}

func runReframe(ctx context.Context, p *Pipeline, j *job, opts Options) error {
	out := filepath.Join(j.workDir, "reframe.mp4")
	if err := p.engine.Reframe(ctx, j.current, out, opts.Width, opts.Height); err != nil {
		return err
	}
	j.current = out
	return nil
}

func runZoom(ctx context.Context, p *Pipeline, j *job, opts Options) error {
	out := filepath.Join(j.workDir, "zoom.mp4")
	if err := p.engine.Zoom(ctx, j.current, out, opts.ZoomFactor); err != nil {
		return err
	}
	j.current = out
	return nil
}

func runTextOverlay(ctx context.Context, p *Pipeline, j *job, opts Options) error {
	out := filepath.Join(j.workDir, "overlay.mp4")
	if err := p.engine.DrawTextOverlay(ctx, j.current, out, opts.TextHook, opts.HookVisible); err != nil {
		return err
	}
	j.current = out
	return nil
}

func runAudioMix(ctx context.Context, p *Pipeline, j *job, opts Options) error {
	out := filepath.Join(j.workDir, "audiomix.mp4")
	if err := p.engine.MixAudio(ctx, j.current, opts.MusicPath, out, opts.MusicVolume); err != nil {
		return err
	}
	j.current = out
	return nil
}

func runEncode(ctx context.Context, p *Pipeline, j *job, _ Options) error {
	if err := p.engine.Encode(ctx, j.current, j.videoOut); err != nil {
		return err
	}
	j.current = j.videoOut
	return nil
}

func runThumbnail(ctx context.Context, p *Pipeline, j *job, _ Options) error {
	// Thumbnail samples the midpoint of the final encoded clip.
	return p.engine.Thumbnail(ctx, j.videoOut, j.interval.Duration()/2, j.thumbOut)
}
