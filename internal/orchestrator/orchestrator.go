// Package orchestrator drives a full batch: signal acquisition, clip
// scheduling, and the per-clip render fan-out, aggregated into one report.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clipsmith/shortclips/internal/domain/schedule"
	"github.com/clipsmith/shortclips/internal/domain/signals"
	"github.com/clipsmith/shortclips/internal/logging"
	"github.com/clipsmith/shortclips/internal/ports"
	"github.com/clipsmith/shortclips/internal/render"
	"github.com/clipsmith/shortclips/internal/types"
)

// ErrEngineUnavailable is the fatal configuration error returned before any
// render job is spawned when the media engine cannot run.
var ErrEngineUnavailable = errors.New("media rendering engine unavailable")

// Fallbacks when the analyzer cannot produce clip metadata.
const (
	fallbackTitle = "Amazing Video Clip"
	fallbackHook  = "Watch this..."
)

// Deps are the external collaborators. Music may be nil, which disables
// background music; everything else is required.
type Deps struct {
	Engine   ports.MediaEngine
	ASR      ports.ASR
	Scenes   ports.SceneDetector
	Analyzer ports.ContentAnalyzer
	Music    ports.MusicSource
}

// Config is the batch-level configuration, fixed across requests.
type Config struct {
	MinDuration        time.Duration
	MaxDuration        time.Duration
	SceneSnapTolerance time.Duration
	OverlapTolerance   time.Duration

	Width  int
	Height int

	// MaxConcurrentRenders caps the render worker pool; the media engine is
	// the throttle point, not goroutine count.
	MaxConcurrentRenders int
}

// Request describes one batch.
type Request struct {
	VideoPath string
	Title     string
	NumClips  int
	AddMusic  bool
	AddZoom   bool
	OutDir    string
	WorkDir   string
}

type Orchestrator struct {
	deps Deps
	cfg  Config
	pipe *render.Pipeline
	log  *slog.Logger
}

func New(deps Deps, cfg Config, log *slog.Logger) *Orchestrator {
	if cfg.MaxConcurrentRenders <= 0 {
		cfg.MaxConcurrentRenders = 2
	}
	return &Orchestrator{
		deps: deps,
		cfg:  cfg,
		pipe: render.New(deps.Engine, logging.WithComponent(log, "render")),
		log:  logging.WithComponent(log, "orchestrator"),
	}
}

// Process runs the whole batch. A non-nil error means a fatal configuration
// problem (engine unavailable, unusable workspace) detected before any render
// job started; every other failure mode is reported inside the BatchResult.
func (o *Orchestrator) Process(ctx context.Context, req Request) (types.BatchResult, error) {
	if req.NumClips <= 0 {
		req.NumClips = 3
	}

	if err := o.deps.Engine.Available(ctx); err != nil {
		return types.BatchResult{}, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	if err := os.MkdirAll(req.WorkDir, 0o755); err != nil {
		return types.BatchResult{}, fmt.Errorf("prepare workspace: %w", err)
	}
	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return types.BatchResult{}, fmt.Errorf("prepare output dir: %w", err)
	}

	res := types.BatchResult{OriginalTitle: req.Title, Errors: []string{}}

	videoDur, err := o.deps.Engine.Probe(ctx, req.VideoPath)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("probe video: %v", err))
		return res, nil
	}

	tr, scenes, err := o.acquireSignals(ctx, req)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res, nil
	}
	o.log.Info("signals acquired", "segments", len(tr.Segments), "scenes", len(scenes))

	// AI analysis runs only after transcript and scenes are both in: its
	// prompt context includes the transcript text.
	moments, err := o.deps.Analyzer.KeyMoments(ctx, tr, req.Title, req.NumClips, o.cfg.MinDuration, o.cfg.MaxDuration)
	if err != nil {
		o.log.Warn("key moment analysis failed, falling back to heuristics", "error", err)
		moments = nil
	}
	if analysis, err := o.deps.Analyzer.Analyze(ctx, tr, req.Title); err == nil {
		res.Analysis = analysis
	}

	sig := signals.New(tr, scenes, videoDur)
	intervals, err := schedule.Plan(sig, moments, schedule.Config{
		TargetClips:        req.NumClips,
		MinDuration:        o.cfg.MinDuration,
		MaxDuration:        o.cfg.MaxDuration,
		SceneSnapTolerance: o.cfg.SceneSnapTolerance,
		OverlapTolerance:   o.cfg.OverlapTolerance,
	})
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res, nil
	}
	o.log.Info("clip intervals planned", "count", len(intervals))

	musicPath := o.fetchMusic(ctx, req)

	outcomes := o.renderAll(ctx, req, sig, intervals, musicPath)
	for _, oc := range outcomes {
		if oc.err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("clip %d: %v", oc.rank, oc.err))
			continue
		}
		res.Clips = append(res.Clips, oc.clip)
	}
	res.Success = len(res.Clips) > 0
	return res, nil
}

// acquireSignals fetches the transcript and scene list concurrently; the two
// computations are mutually independent.
func (o *Orchestrator) acquireSignals(ctx context.Context, req Request) (types.Transcript, []types.Scene, error) {
	var (
		tr     types.Transcript
		scenes []types.Scene
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wav := filepath.Join(req.WorkDir, "audio.wav")
		if err := o.deps.Engine.ExtractAudioMono16k(gctx, req.VideoPath, wav); err != nil {
			return fmt.Errorf("extract audio: %w", err)
		}
		var err error
		tr, err = o.deps.ASR.Transcribe(gctx, wav, req.WorkDir)
		if err != nil {
			return fmt.Errorf("transcribe: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		scenes, err = o.deps.Scenes.DetectScenes(gctx, req.VideoPath)
		if err != nil {
			return fmt.Errorf("detect scenes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.Transcript{}, nil, err
	}
	return tr, scenes, nil
}

func (o *Orchestrator) fetchMusic(ctx context.Context, req Request) string {
	if !req.AddMusic || o.deps.Music == nil {
		return ""
	}
	path, err := o.deps.Music.DefaultTrack(ctx, req.WorkDir)
	if err != nil {
		o.log.Warn("background music unavailable", "error", err)
		return ""
	}
	return path
}

type outcome struct {
	rank int
	clip types.ClipResult
	err  error
}

// renderAll fans out one render job per interval with bounded parallelism.
// A job failure never aborts siblings; the outcome slice preserves rank
// order regardless of completion order.
func (o *Orchestrator) renderAll(ctx context.Context, req Request, sig *signals.Signals, intervals []schedule.Interval, musicPath string) []outcome {
	outcomes := make([]outcome, len(intervals))

	var g errgroup.Group
	g.SetLimit(o.cfg.MaxConcurrentRenders)
	for i, iv := range intervals {
		i, iv := i, iv
		g.Go(func() error {
			outcomes[i] = o.renderOne(ctx, req, sig, iv, musicPath)
			return nil
		})
	}
	g.Wait()

	return outcomes
}

func (o *Orchestrator) renderOne(ctx context.Context, req Request, sig *signals.Signals, iv schedule.Interval, musicPath string) outcome {
	oc := outcome{rank: iv.Rank}

	jobDir, err := os.MkdirTemp(req.WorkDir, fmt.Sprintf("clip-%d-", iv.Rank))
	if err != nil {
		oc.err = fmt.Errorf("job workspace: %w", err)
		return oc
	}
	defer os.RemoveAll(jobDir)

	clipText := sig.TextBetween(iv.Start, iv.End)
	title, hook := o.clipMetadata(ctx, clipText)

	out, err := o.pipe.Render(ctx, req.VideoPath, iv, render.Options{
		AddZoom:   req.AddZoom,
		AddMusic:  req.AddMusic && musicPath != "",
		TextHook:  hook,
		MusicPath: musicPath,
		Width:     o.cfg.Width,
		Height:    o.cfg.Height,
	}, jobDir, filepath.Join(req.OutDir, fmt.Sprintf("clip_%d", iv.Rank)))
	if err != nil {
		oc.err = err
		return oc
	}

	oc.clip = types.ClipResult{
		VideoPath:     out.VideoPath,
		ThumbnailPath: out.ThumbnailPath,
		Title:         title,
		TextHook:      hook,
		Duration:      out.Duration.Seconds(),
		Success:       true,
	}
	return oc
}

func (o *Orchestrator) clipMetadata(ctx context.Context, clipText string) (title, hook string) {
	title, hook = fallbackTitle, fallbackHook
	if strings.TrimSpace(clipText) == "" {
		return title, hook
	}
	if t, err := o.deps.Analyzer.ViralTitle(ctx, clipText); err == nil && strings.TrimSpace(t) != "" {
		title = strings.TrimSpace(t)
	}
	if h, err := o.deps.Analyzer.TextHook(ctx, clipText); err == nil && strings.TrimSpace(h) != "" {
		hook = strings.TrimSpace(h)
	}
	return title, hook
}
