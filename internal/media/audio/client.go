// Package audio synthesizes speech with the ElevenLabs text-to-speech API.
package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpggio/mediastudio/internal/provider"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultModel   = "eleven_multilingual_v2"
	DefaultVoice   = "Adam"

	name = "elevenlabs"
)

// voices maps the premade voice names to their IDs. Names not listed here
// are sent as voice IDs.
var voices = map[string]string{
	"adam":   "pNInz6obpgDQGcFmaJgB",
	"rachel": "21m00Tcm4TlvDq8ikWAM",
	"bella":  "EXAVITQu4vr4xnSDxMaL",
	"antoni": "ErXwobaYiN019PkySvjV",
	"josh":   "TxGEqnHWrfWFTfGW9XjX",
	"elli":   "MF3mGyEYCl7XmWbV9EM8",
	"arnold": "VR6AewLTigWG4xSOukaG",
	"sam":    "yoZ06aMxZJJ28mfd3POQ",
	"domi":   "AZnzlk1XvdvUeBnXmlld",
}

// Config holds the credentials and defaults for the client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
	Timeout time.Duration
}

// Options tunes one synthesis.
type Options struct {
	Voice string
}

// Client converts text to MP3 files.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client from cfg.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// VoiceID resolves a voice name to the ID used in the API path.
func VoiceID(voice string) string {
	if id, ok := voices[strings.ToLower(strings.TrimSpace(voice))]; ok {
		return id
	}
	return strings.TrimSpace(voice)
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Generate synthesizes text and writes the MP3 to dest.
func (c *Client) Generate(ctx context.Context, text, dest string, opts Options) (string, error) {
	const op = "text_to_speech"
	if !c.Configured() {
		return "", provider.Unconfigured(name, op)
	}

	voice := opts.Voice
	if strings.TrimSpace(voice) == "" {
		voice = c.cfg.Voice
	}

	body, err := json.Marshal(speechRequest{
		Text:          text,
		ModelID:       c.cfg.Model,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	})
	if err != nil {
		return "", &provider.Error{Provider: name, Op: op, Kind: provider.KindRejected, Err: err}
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", c.cfg.BaseURL, url.PathEscape(VoiceID(voice)))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &provider.Error{Provider: name, Op: op, Kind: provider.KindRejected, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	data, err := provider.Do(c.httpClient, name, op, req)
	if err != nil {
		c.logger.Warn("speech synthesis failed", "voice", voice, "kind", provider.KindOf(err), "error", err)
		return "", err
	}
	if len(data) == 0 {
		return "", provider.Malformed(name, op, errors.New("empty audio"))
	}

	if err := writeFile(dest, data); err != nil {
		return "", err
	}
	c.logger.Debug("speech synthesized", "voice", voice, "dest", dest, "bytes", len(data))
	return dest, nil
}

func writeFile(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating audio directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".audio-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing audio: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("moving audio into place: %w", err)
	}
	return nil
}
