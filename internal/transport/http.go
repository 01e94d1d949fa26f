package transport

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HealthPath is served without authentication.
const HealthPath = "/api/health"

// Config wires the HTTP router.
type Config struct {
	// API registers the REST routes.
	API func(r chi.Router)
	// MCP serves the streamable MCP endpoint. Nil leaves /mcp unmounted.
	MCP http.Handler
	// Token enables bearer authentication when non-empty.
	Token  string
	Logger *slog.Logger
}

// NewServer creates an HTTP router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(SessionMiddleware)
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))
	r.Use(AuthMiddleware(cfg.Token, HealthPath, "/"))

	if cfg.API != nil {
		cfg.API(r)
	}
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
		r.Handle("/mcp/*", cfg.MCP)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
