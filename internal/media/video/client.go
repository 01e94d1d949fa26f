// Package video generates clips through a hosted text-to-video model and
// composes local media with ffmpeg.
package video

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/rpggio/mediastudio/internal/provider"
	"github.com/rpggio/mediastudio/internal/provider/replicate"
)

const (
	DefaultModel    = "anotherjesse/zeroscope-v2-xl"
	DefaultDuration = 5
	DefaultFPS      = 24

	DefaultSecondsPerImage  = 3.0
	DefaultBackgroundVolume = 0.3
)

// Config configures the video client.
type Config struct {
	Model    string
	Duration int
	FPS      int
	// FFmpegPath is the ffmpeg binary used for local composition.
	FFmpegPath string
	// MediaRoot, when set, is the directory every local input must live in.
	MediaRoot      string
	ComposeTimeout time.Duration
}

// Options tunes a single text-to-video generation.
type Options struct {
	Duration int
	FPS      int
}

// Client generates and composes videos.
type Client struct {
	runner replicate.Runner
	cmd    CommandRunner
	cfg    Config
	logger *slog.Logger
}

// New creates a video client. A nil runner makes Generate fail as
// unconfigured; a nil cmd runs ffmpeg through os/exec.
func New(runner replicate.Runner, cmd CommandRunner, cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultDuration
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.ComposeTimeout <= 0 {
		cfg.ComposeTimeout = 5 * time.Minute
	}
	if cmd == nil {
		cmd = ExecRunner{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{runner: runner, cmd: cmd, cfg: cfg, logger: logger}
}

// EnhancePrompt appends fixed motion and quality modifiers to prompt.
func (c *Client) EnhancePrompt(prompt string) string {
	return prompt + ", cinematic, smooth motion, high quality, 4k"
}

// Generate runs the text-to-video model once and returns the video URL.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if c.runner == nil {
		return "", provider.Unconfigured("replicate", "predict")
	}

	duration, fps := opts.Duration, opts.FPS
	if duration <= 0 {
		duration = c.cfg.Duration
	}
	if fps <= 0 {
		fps = c.cfg.FPS
	}

	outputs, err := c.runner.Run(ctx, c.cfg.Model, map[string]any{
		"prompt":     prompt,
		"num_frames": duration * fps,
	})
	if err != nil {
		c.logger.Warn("video generation failed", "model", c.cfg.Model, "kind", provider.KindOf(err), "error", err)
		return "", err
	}
	if len(outputs) == 0 {
		return "", provider.Malformed("replicate", "predict", errors.New("no video returned"))
	}
	return outputs[0], nil
}
