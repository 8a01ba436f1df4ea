// Package pipeline wires configuration, adapters, and the orchestrator into
// one runnable batch. The CLI and HTTP front ends both go through Run.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/clipsmith/shortclips/internal/config"
	"github.com/clipsmith/shortclips/internal/logging"
	"github.com/clipsmith/shortclips/internal/orchestrator"
	"github.com/clipsmith/shortclips/internal/ports"
	"github.com/clipsmith/shortclips/internal/ports/adapters/ffmpeg"
	"github.com/clipsmith/shortclips/internal/ports/adapters/freesound"
	"github.com/clipsmith/shortclips/internal/ports/adapters/gemini"
	"github.com/clipsmith/shortclips/internal/ports/adapters/scdet"
	"github.com/clipsmith/shortclips/internal/ports/adapters/whispercpp"
	"github.com/clipsmith/shortclips/internal/ports/adapters/ytdlp"
	"github.com/clipsmith/shortclips/internal/types"
)

// Config describes one batch request plus the application configuration it
// runs under.
type Config struct {
	// Input is a local video path or an http(s) URL.
	Input    string
	NumClips int
	AddMusic bool
	AddZoom  bool
	// OutDir overrides the configured outputs directory when set.
	OutDir string

	App    config.Config
	Logger *slog.Logger
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if !IsURL(c.Input) {
		if _, err := os.Stat(c.Input); err != nil {
			return fmt.Errorf("stat input: %w", err)
		}
	}
	if c.NumClips <= 0 {
		return errors.New("clips must be > 0")
	}
	if c.App.GeminiAPIKey == "" {
		return errors.New("gemini api key is required (set GEMINI_API_KEY)")
	}
	return c.App.Validate()
}

// IsURL reports whether the input needs the downloader.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Run executes one batch and writes a result manifest next to the clips.
func Run(ctx context.Context, cfg Config) (types.BatchResult, error) {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	app := cfg.App

	engine := ffmpeg.New(app.FFmpegPath, app.FFprobePath)
	asr := whispercpp.New(app.WhisperBin, app.WhisperModel)
	scenes := scdet.New(app.FFmpegPath, app.FFprobePath, scdet.DefaultThreshold)
	analyzer := gemini.New(app.GeminiAPIKey, app.GeminiModel, "")

	var music ports.MusicSource
	if app.FreesoundAPIKey != "" {
		music = freesound.New(app.FreesoundAPIKey, "")
	}

	batchID := uuid.NewString()
	log = logging.WithBatchID(log, batchID)

	workDir := filepath.Join(app.TempDir, "runs", batchID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return types.BatchResult{}, fmt.Errorf("prepare workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	videoPath := cfg.Input
	title := strings.TrimSuffix(filepath.Base(cfg.Input), filepath.Ext(cfg.Input))
	if IsURL(cfg.Input) {
		log.Info("downloading video", "url", cfg.Input)
		dl, err := ytdlp.New(app.YtDlpPath).Download(ctx, cfg.Input, app.DownloadsDir)
		if err != nil {
			return types.BatchResult{}, fmt.Errorf("download video: %w", err)
		}
		videoPath = dl.Path
		title = dl.Title
		log.Info("downloaded", "title", title, "path", videoPath)
	}

	outRoot := cfg.OutDir
	if outRoot == "" {
		outRoot = app.OutputsDir
	}
	runOutDir := buildRunOutDir(outRoot, videoPath, time.Now().UTC())

	width, height, err := config.ParseResolution(app.OutputResolution)
	if err != nil {
		return types.BatchResult{}, err
	}

	orc := orchestrator.New(orchestrator.Deps{
		Engine:   engine,
		ASR:      asr,
		Scenes:   scenes,
		Analyzer: analyzer,
		Music:    music,
	}, orchestrator.Config{
		MinDuration:          app.MinClip(),
		MaxDuration:          app.MaxClip(),
		SceneSnapTolerance:   app.SceneSnapTolerance(),
		OverlapTolerance:     app.OverlapTolerance(),
		Width:                width,
		Height:               height,
		MaxConcurrentRenders: app.MaxConcurrentRenders,
	}, log)

	res, err := orc.Process(ctx, orchestrator.Request{
		VideoPath: videoPath,
		Title:     title,
		NumClips:  cfg.NumClips,
		AddMusic:  cfg.AddMusic,
		AddZoom:   cfg.AddZoom,
		OutDir:    runOutDir,
		WorkDir:   workDir,
	})
	if err != nil {
		return types.BatchResult{}, err
	}

	if err := writeManifest(runOutDir, res); err != nil {
		log.Warn("manifest write failed", "error", err)
	}
	log.Info("batch finished", "success", res.Success, "clips", len(res.Clips), "errors", len(res.Errors), "out", runOutDir)
	return res, nil
}

func writeManifest(dir string, res types.BatchResult) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "result.json"), b, 0o644)
}

func buildRunOutDir(outRoot, inputVideo string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(inputVideo), filepath.Ext(inputVideo))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", inputVideo, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.MediaEngine = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.SceneDetector = (*scdet.Adapter)(nil)
var _ ports.ContentAnalyzer = (*gemini.Adapter)(nil)
var _ ports.MusicSource = (*freesound.Adapter)(nil)
var _ ports.Downloader = (*ytdlp.Adapter)(nil)
