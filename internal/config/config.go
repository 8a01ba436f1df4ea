// Package config holds the immutable runtime configuration. Values come from
// an optional TOML file overridden by environment variables, so the scheduler
// and orchestrator never read ambient process state themselves.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// External service credentials.
	GeminiAPIKey    string `toml:"gemini_api_key"`
	GeminiModel     string `toml:"gemini_model"`
	FreesoundAPIKey string `toml:"freesound_api_key"`

	// HTTP API bind.
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// Clip selection.
	MinClipSeconds            int     `toml:"min_clip_seconds"`
	MaxClipSeconds            int     `toml:"max_clip_seconds"`
	SceneSnapToleranceSeconds float64 `toml:"scene_snap_tolerance_seconds"`
	OverlapToleranceSeconds   float64 `toml:"overlap_tolerance_seconds"`

	// Rendering.
	TargetAspectRatio    string `toml:"target_aspect_ratio"`
	OutputResolution     string `toml:"output_resolution"`
	MaxConcurrentRenders int    `toml:"max_concurrent_renders"`

	// Directories.
	DownloadsDir string `toml:"downloads_dir"`
	OutputsDir   string `toml:"outputs_dir"`
	TempDir      string `toml:"temp_dir"`

	// Tool paths.
	FFmpegPath   string `toml:"ffmpeg_path"`
	FFprobePath  string `toml:"ffprobe_path"`
	WhisperBin   string `toml:"whisper_bin"`
	WhisperModel string `toml:"whisper_model"`
	YtDlpPath    string `toml:"ytdlp_path"`

	// Logging.
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		GeminiModel:               "gemini-1.5-pro",
		Host:                      "0.0.0.0",
		Port:                      8000,
		MinClipSeconds:            15,
		MaxClipSeconds:            60,
		SceneSnapToleranceSeconds: 2.0,
		OverlapToleranceSeconds:   0.5,
		TargetAspectRatio:         "9:16",
		OutputResolution:          "1080x1920",
		MaxConcurrentRenders:      2,
		DownloadsDir:              "downloads",
		OutputsDir:                "outputs",
		TempDir:                   "temp",
		FFmpegPath:                "ffmpeg",
		FFprobePath:               "ffprobe",
		WhisperBin:                ".cache/bin/whisper.cpp",
		WhisperModel:              ".cache/models/ggml-base.bin",
		YtDlpPath:                 "yt-dlp",
		LogLevel:                  "info",
		LogFormat:                 "text",
	}
}

// Load reads the TOML file at path and then applies environment overrides on
// top of defaults. An empty path means no file; a named file that cannot be
// read is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.FreesoundAPIKey, "FREESOUND_API_KEY")
	setString(&c.Host, "HOST")
	setInt(&c.Port, "PORT")
	setInt(&c.MinClipSeconds, "MIN_CLIP_DURATION")
	setInt(&c.MaxClipSeconds, "MAX_CLIP_DURATION")
	setString(&c.TargetAspectRatio, "TARGET_ASPECT_RATIO")
	setString(&c.OutputResolution, "OUTPUT_RESOLUTION")
	setInt(&c.MaxConcurrentRenders, "MAX_CONCURRENT_RENDERS")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
}

func (c Config) Validate() error {
	if c.MinClipSeconds <= 0 {
		return fmt.Errorf("min clip duration must be > 0")
	}
	if c.MaxClipSeconds <= 0 {
		return fmt.Errorf("max clip duration must be > 0")
	}
	if c.MinClipSeconds > c.MaxClipSeconds {
		return fmt.Errorf("min clip duration must be <= max clip duration")
	}
	if c.SceneSnapToleranceSeconds < 0 {
		return fmt.Errorf("scene snap tolerance must be >= 0")
	}
	if c.OverlapToleranceSeconds < 0 {
		return fmt.Errorf("overlap tolerance must be >= 0")
	}
	if c.MaxConcurrentRenders <= 0 {
		return fmt.Errorf("max concurrent renders must be > 0")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, _, err := ParseResolution(c.OutputResolution); err != nil {
		return err
	}
	return nil
}

// MinClip returns the minimum clip duration.
func (c Config) MinClip() time.Duration {
	return time.Duration(c.MinClipSeconds) * time.Second
}

// MaxClip returns the maximum clip duration.
func (c Config) MaxClip() time.Duration {
	return time.Duration(c.MaxClipSeconds) * time.Second
}

// SceneSnapTolerance returns the boundary alignment tolerance.
func (c Config) SceneSnapTolerance() time.Duration {
	return time.Duration(c.SceneSnapToleranceSeconds * float64(time.Second))
}

// OverlapTolerance returns the accepted inter-clip overlap.
func (c Config) OverlapTolerance() time.Duration {
	return time.Duration(c.OverlapToleranceSeconds * float64(time.Second))
}

// ParseResolution splits a "WxH" resolution string.
func ParseResolution(s string) (w, h int, err error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("resolution %q: want WxH", s)
	}
	w, err = strconv.Atoi(parts[0])
	if err == nil {
		h, err = strconv.Atoi(parts[1])
	}
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("resolution %q: want WxH", s)
	}
	return w, h, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
