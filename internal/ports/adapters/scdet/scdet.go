// Package scdet adapts ffmpeg's scene-change detection to the SceneDetector
// port. Cut timestamps come from running the scene filter with showinfo and
// parsing pts_time values; the result is a contiguous scene list covering
// [0, videoDuration].
package scdet

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/clipsmith/shortclips/internal/types"
)

// DefaultThreshold mirrors the common content-detection sensitivity: higher
// means fewer, stronger cuts.
const DefaultThreshold = 0.27

type Adapter struct {
	ffmpeg    string
	ffprobe   string
	threshold float64
}

func New(ffmpegPath, ffprobePath string, threshold float64) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, threshold: threshold}
}

var rePtsTime = regexp.MustCompile(`pts_time:([0-9]+(?:\.[0-9]+)?)`)

func (a *Adapter) DetectScenes(ctx context.Context, videoPath string) ([]types.Scene, error) {
	duration, err := a.probeDuration(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	vf := fmt.Sprintf("select='gt(scene,%f)',showinfo", a.threshold)
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-i", videoPath,
		"-vf", vf,
		"-f", "null", "-",
	)
	// showinfo logs to stderr; ffmpeg exits 0 on success.
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg scene detection: %w\n%s", err, string(b))
	}

	cuts := parseCuts(string(b), duration)
	return buildScenes(cuts, duration), nil
}

func (a *Adapter) probeDuration(ctx context.Context, in string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func parseCuts(log string, duration float64) []float64 {
	var cuts []float64
	seen := map[float64]bool{}
	for _, m := range rePtsTime.FindAllStringSubmatch(log, -1) {
		t, err := strconv.ParseFloat(m[1], 64)
		if err != nil || t <= 0 || t >= duration || seen[t] {
			continue
		}
		seen[t] = true
		cuts = append(cuts, t)
	}
	sort.Float64s(cuts)
	return cuts
}

// buildScenes turns cut timestamps into contiguous scenes so that
// scene[i].End == scene[i+1].Start and the full duration is covered.
func buildScenes(cuts []float64, duration float64) []types.Scene {
	bounds := append([]float64{0}, cuts...)
	bounds = append(bounds, duration)

	scenes := make([]types.Scene, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		if bounds[i+1] <= bounds[i] {
			continue
		}
		scenes = append(scenes, types.Scene{
			Number: len(scenes) + 1,
			Start:  bounds[i],
			End:    bounds[i+1],
		})
	}
	return scenes
}
