// Package image generates still images through a hosted diffusion model and
// stores them locally.
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	stdimage "image"
	_ "image/gif" // register decoder
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/webp" // register decoder

	"github.com/rpggio/mediastudio/internal/provider"
	"github.com/rpggio/mediastudio/internal/provider/replicate"
)

const (
	DefaultModel  = "stability-ai/sdxl"
	DefaultWidth  = 1024
	DefaultHeight = 1024

	downloadProvider = "image-download"
)

var enhancements = []string{
	"high quality",
	"detailed",
	"professional",
	"8k resolution",
	"photorealistic",
}

var styles = []string{
	"in anime style",
	"in realistic style",
	"in watercolor painting style",
	"in digital art style",
	"in 3D render style",
	"in oil painting style",
}

// Config configures the image client.
type Config struct {
	Model           string
	Width           int
	Height          int
	DownloadTimeout time.Duration
}

// Options tunes a single generation. Zero values fall back to Config.
type Options struct {
	NegativePrompt string
	Width          int
	Height         int
	Model          string
}

// Client generates and downloads images.
type Client struct {
	runner     replicate.Runner
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates an image client. A nil runner makes Generate fail as
// unconfigured.
func New(runner replicate.Runner, cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		runner:     runner,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.DownloadTimeout},
		logger:     logger,
	}
}

// EnhancePrompt appends fixed quality modifiers to prompt.
func (c *Client) EnhancePrompt(prompt string) string {
	return prompt + ", " + strings.Join(enhancements, ", ")
}

// StyleVariations returns prompt rendered in each supported art style.
func (c *Client) StyleVariations(prompt string) []string {
	out := make([]string, len(styles))
	for i, style := range styles {
		out[i] = prompt + " " + style
	}
	return out
}

// Generate runs the model once and returns the URL of the first image.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if c.runner == nil {
		return "", provider.Unconfigured("replicate", "predict")
	}

	model := opts.Model
	if model == "" {
		model = c.cfg.Model
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = c.cfg.Width
	}
	if height <= 0 {
		height = c.cfg.Height
	}

	outputs, err := c.runner.Run(ctx, model, map[string]any{
		"prompt":          prompt,
		"negative_prompt": opts.NegativePrompt,
		"width":           width,
		"height":          height,
		"num_outputs":     1,
	})
	if err != nil {
		c.logger.Warn("image generation failed", "model", model, "kind", provider.KindOf(err), "error", err)
		return "", err
	}
	if len(outputs) == 0 {
		return "", provider.Malformed("replicate", "predict", errors.New("no images returned"))
	}
	return outputs[0], nil
}

// Download fetches url, checks that it decodes as an image and writes it to
// dest. PNG and JPEG destinations are re-encoded, other extensions receive
// the original bytes. Nothing is written when the payload does not decode.
func (c *Client) Download(ctx context.Context, url, dest string) (string, error) {
	const op = "download"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &provider.Error{Provider: downloadProvider, Op: op, Kind: provider.KindRejected, Err: err}
	}
	body, err := provider.Do(c.httpClient, downloadProvider, op, req)
	if err != nil {
		return "", err
	}

	img, format, err := stdimage.Decode(bytes.NewReader(body))
	if err != nil {
		return "", provider.Malformed(downloadProvider, op, fmt.Errorf("decoding image: %w", err))
	}

	if err := writeImage(dest, img, body); err != nil {
		return "", err
	}
	c.logger.Debug("image downloaded", "dest", dest, "format", format, "bytes", len(body))
	return dest, nil
}

func writeImage(dest string, img stdimage.Image, raw []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating image directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".image-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	switch strings.ToLower(filepath.Ext(dest)) {
	case ".png":
		err = png.Encode(tmp, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(tmp, img, &jpeg.Options{Quality: 95})
	default:
		_, err = tmp.Write(raw)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing image: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("moving image into place: %w", err)
	}
	return nil
}
