// Package ytdlp adapts the yt-dlp binary to the Downloader port.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/clipsmith/shortclips/internal/ports"
	"github.com/clipsmith/shortclips/internal/types"
)

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath}
}

type metadata struct {
	Title              string  `json:"title"`
	Duration           float64 `json:"duration"`
	Description        string  `json:"description"`
	Thumbnail          string  `json:"thumbnail"`
	Filename           string  `json:"_filename"`
	RequestedDownloads []struct {
		Filepath string `json:"filepath"`
	} `json:"requested_downloads"`
}

// Download fetches the best mp4 rendition into destDir and reports the final
// file path from yt-dlp's JSON output.
func (a *Adapter) Download(ctx context.Context, url, destDir string) (ports.Download, error) {
	outTmpl := filepath.Join(destDir, "%(title)s.%(ext)s")
	cmd := exec.CommandContext(ctx, a.bin,
		"-f", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
		"--merge-output-format", "mp4",
		"--no-progress",
		"--print-json",
		"-o", outTmpl,
		url,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return ports.Download{}, fmt.Errorf("yt-dlp download: %w\n%s", err, stderr.String())
	}

	md, err := parseMetadata(stdout.Bytes())
	if err != nil {
		return ports.Download{}, err
	}
	path := md.Filename
	if len(md.RequestedDownloads) > 0 && md.RequestedDownloads[0].Filepath != "" {
		path = md.RequestedDownloads[0].Filepath
	}
	if path == "" {
		return ports.Download{}, fmt.Errorf("yt-dlp reported no output file for %s", url)
	}
	return ports.Download{Path: path, Title: md.Title, Duration: md.Duration}, nil
}

// Info fetches metadata without downloading.
func (a *Adapter) Info(ctx context.Context, url string) (types.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, a.bin, "-J", "--no-warnings", url)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return types.VideoInfo{}, fmt.Errorf("yt-dlp info: %w\n%s", err, stderr.String())
	}
	md, err := parseMetadata(stdout.Bytes())
	if err != nil {
		return types.VideoInfo{}, err
	}
	return types.VideoInfo{
		Title:       md.Title,
		Duration:    md.Duration,
		Description: md.Description,
		Thumbnail:   md.Thumbnail,
	}, nil
}

func parseMetadata(out []byte) (metadata, error) {
	// yt-dlp prints one JSON document per line; the last line describes the
	// final merged artifact.
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	var md metadata
	if len(lines) == 0 {
		return md, fmt.Errorf("yt-dlp produced no metadata")
	}
	last := lines[len(lines)-1]
	if err := json.Unmarshal(last, &md); err != nil {
		return md, fmt.Errorf("parse yt-dlp metadata: %w", err)
	}
	md.Title = strings.TrimSpace(md.Title)
	return md, nil
}
