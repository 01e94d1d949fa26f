// Package replicate runs hosted models through the Replicate predictions API.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rpggio/mediastudio/internal/provider"
)

const (
	// DefaultBaseURL is the public Replicate API endpoint.
	DefaultBaseURL = "https://api.replicate.com"
	name           = "replicate"
)

// Config holds the credentials and endpoint for the client.
type Config struct {
	APIToken string
	BaseURL  string
	Timeout  time.Duration
}

// Runner runs a model once and returns its output references.
type Runner interface {
	Run(ctx context.Context, model string, input map[string]any) ([]string, error)
}

// Client calls the predictions API. Each Run is a single synchronous
// request that asks the API to hold the connection until the prediction
// finishes.
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
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
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

// Configured reports whether an API token is present.
func (c *Client) Configured() bool {
	return c.cfg.APIToken != ""
}

type predictionRequest struct {
	Version string         `json:"version,omitempty"`
	Input   map[string]any `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
}

// Run creates a prediction for model. model is "owner/name" for official
// models or "owner/name:version" to pin a version.
func (c *Client) Run(ctx context.Context, model string, input map[string]any) ([]string, error) {
	const op = "predict"
	if !c.Configured() {
		return nil, provider.Unconfigured(name, op)
	}

	url, payload, err := c.endpoint(model, input)
	if err != nil {
		return nil, &provider.Error{Provider: name, Op: op, Kind: provider.KindRejected, Err: err}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &provider.Error{Provider: name, Op: op, Kind: provider.KindRejected, Err: fmt.Errorf("encoding input: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &provider.Error{Provider: name, Op: op, Kind: provider.KindRejected, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Prefer", "wait")

	var pred prediction
	if err := provider.DoJSON(c.httpClient, name, op, req, &pred); err != nil {
		c.logger.Warn("replicate prediction failed", "model", model, "kind", provider.KindOf(err), "error", err)
		return nil, err
	}

	switch pred.Status {
	case "succeeded":
	case "failed", "canceled":
		return nil, &provider.Error{Provider: name, Op: op, Kind: provider.KindRejected, Err: fmt.Errorf("prediction %s %s: %v", pred.ID, pred.Status, pred.Error)}
	default:
		return nil, &provider.Error{Provider: name, Op: op, Kind: provider.KindTimeout, Err: fmt.Errorf("prediction %s still %s", pred.ID, pred.Status)}
	}

	outputs, err := parseOutput(pred.Output)
	if err != nil {
		return nil, provider.Malformed(name, op, err)
	}
	c.logger.Debug("replicate prediction succeeded", "model", model, "prediction_id", pred.ID, "outputs", len(outputs))
	return outputs, nil
}

func (c *Client) endpoint(model string, input map[string]any) (string, predictionRequest, error) {
	ref, version, pinned := strings.Cut(model, ":")
	owner, modelName, ok := strings.Cut(ref, "/")
	if !ok || owner == "" || modelName == "" {
		return "", predictionRequest{}, fmt.Errorf("invalid model reference %q", model)
	}
	if pinned {
		return c.cfg.BaseURL + "/v1/predictions", predictionRequest{Version: version, Input: input}, nil
	}
	return fmt.Sprintf("%s/v1/models/%s/%s/predictions", c.cfg.BaseURL, owner, modelName), predictionRequest{Input: input}, nil
}

// parseOutput accepts a single URL or a list of URLs.
func parseOutput(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("prediction has no output")
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil, errors.New("prediction output is empty")
		}
		return []string{single}, nil
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("unexpected output shape: %w", err)
	}
	outputs := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			outputs = append(outputs, s)
		}
	}
	if len(outputs) == 0 {
		return nil, errors.New("prediction output has no references")
	}
	return outputs, nil
}
