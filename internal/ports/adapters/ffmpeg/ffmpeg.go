// Package ffmpeg adapts the ffmpeg/ffprobe binaries to the MediaEngine port.
// Each stage invocation is one process run; intermediate artifacts use a fast
// preset, only Encode produces the distribution-quality output.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// Available checks that the ffmpeg binary can be executed at all.
func (a *Adapter) Available(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, "-version")
	if b, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg not runnable at %q: %w\n%s", a.ffmpeg, err, string(b))
	}
	return nil
}

func (a *Adapter) Probe(ctx context.Context, in string) (time.Duration, error) {
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
	return time.Duration(sec * float64(time.Second)), nil
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	return a.run(ctx, "extract audio",
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
}

func (a *Adapter) ExtractSegment(ctx context.Context, in string, start, end time.Duration, out string) error {
	return a.run(ctx, "extract segment",
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", in,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		out,
	)
}

// Reframe converts to the vertical target: scale to target height, then
// center-crop when wider than the target and pad when narrower.
func (a *Adapter) Reframe(ctx context.Context, in, out string, width, height int) error {
	vf := fmt.Sprintf(
		"scale=-2:%d,crop='min(iw,%d)':%d,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		height, width, height, width, height,
	)
	return a.run(ctx, "reframe",
		"-y",
		"-i", in,
		"-vf", vf,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "copy",
		out,
	)
}

// Zoom applies the cinematic zoom: in over the first half of the clip, out
// over the second half, peaking at factor.
func (a *Adapter) Zoom(ctx context.Context, in, out string, factor float64) error {
	grow := factor - 1
	// sin(PI*t/T) ramps the zoom up over the first half of the clip and back
	// down over the second half, peaking at factor.
	vf := fmt.Sprintf(
		"zoompan=z='min(%f,1+%f*sin(PI*in_time/duration))':d=1:x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':fps=30",
		factor, grow,
	)
	return a.run(ctx, "zoom",
		"-y",
		"-i", in,
		"-vf", vf,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "copy",
		out,
	)
}

// DrawTextOverlay burns the hook text over the first visible seconds, top
// center, with half-second fades.
func (a *Adapter) DrawTextOverlay(ctx context.Context, in, out, text string, visible time.Duration) error {
	vis := visible.Seconds()
	vf := fmt.Sprintf(
		"drawtext=text='%s':fontsize=70:fontcolor=white:borderw=3:bordercolor=black:"+
			"x=(w-text_w)/2:y=100:enable='lt(t,%f)':alpha='min(1,min(t/0.5,(%f-t)/0.5))'",
		escapeDrawText(text), vis, vis,
	)
	return a.run(ctx, "text overlay",
		"-y",
		"-i", in,
		"-vf", vf,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "copy",
		out,
	)
}

// MixAudio loops the music under the original audio at the given volume and
// trims it to the clip length.
func (a *Adapter) MixAudio(ctx context.Context, in, musicPath, out string, musicVolume float64) error {
	filter := fmt.Sprintf(
		"[1:a]aloop=loop=-1:size=2e9,volume=%f[m];[0:a][m]amix=inputs=2:duration=first:dropout_transition=2[a]",
		musicVolume,
	)
	return a.run(ctx, "mix audio",
		"-y",
		"-i", in,
		"-i", musicPath,
		"-filter_complex", filter,
		"-map", "0:v",
		"-map", "[a]",
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		out,
	)
}

func (a *Adapter) Encode(ctx context.Context, in, out string) error {
	return a.run(ctx, "encode",
		"-y",
		"-i", in,
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "18",
		"-r", "30",
		"-c:a", "aac",
		"-b:a", "192k",
		"-movflags", "+faststart",
		out,
	)
}

func (a *Adapter) Thumbnail(ctx context.Context, in string, at time.Duration, out string) error {
	return a.run(ctx, "thumbnail",
		"-y",
		"-ss", fmtSeconds(at),
		"-i", in,
		"-frames:v", "1",
		"-q:v", "2",
		out,
	)
}

func (a *Adapter) run(ctx context.Context, op string, args ...string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s: %w\n%s", op, err, string(b))
	}
	return nil
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func escapeDrawText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	s = strings.ReplaceAll(s, ":", "\\:")
	s = strings.ReplaceAll(s, "%", "\\%")
	return s
}
