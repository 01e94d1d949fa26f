// Package api serves the studio's REST surface. Every response body is a
// JSON envelope carrying a status field.
package api

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/mediastudio/internal/domain/activity"
	"github.com/rpggio/mediastudio/internal/domain/generation"
	"github.com/rpggio/mediastudio/internal/domain/project"
	"github.com/rpggio/mediastudio/internal/suggest"
)

const (
	// Name and Version are reported by the root endpoint.
	Name    = "SA Platform API"
	Version = "1.0.0"
)

// ProjectService defines project operations needed by the API.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id int64) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
	Update(ctx context.Context, id int64, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, id int64) error
}

// GenerationService defines generation operations needed by the API.
type GenerationService interface {
	List(ctx context.Context, projectID int64) ([]generation.Generation, error)
	Statistics(ctx context.Context, scope generation.Scope) (generation.Statistics, error)
	GenerateImage(ctx context.Context, req generation.ImageRequest) (*generation.Result, error)
	GenerateVideo(ctx context.Context, req generation.VideoRequest) (*generation.Result, error)
	GenerateSlideshow(ctx context.Context, req generation.SlideshowRequest) (*generation.Result, error)
	GenerateAudio(ctx context.Context, req generation.AudioRequest) (*generation.Result, error)
	AddSoundtrack(ctx context.Context, req generation.SoundtrackRequest) (*generation.Result, error)
	MixBackground(ctx context.Context, req generation.MixRequest) (*generation.Result, error)
}

// ActivityService defines activity operations needed by the API.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// SuggestionService defines the suggestion operations needed by the API.
type SuggestionService interface {
	ImprovePrompt(ctx context.Context, prompt, contentType string) string
	Variations(ctx context.Context, prompt string, count int) []string
	NextScenes(ctx context.Context, scene string) []string
	MusicMood(ctx context.Context, scene string) suggest.Mood
	Script(ctx context.Context, idea string) []suggest.Scene
}

// StyleSource produces style variations of an image prompt.
type StyleSource interface {
	StyleVariations(prompt string) []string
}

// Services contains all services needed by the API.
type Services struct {
	Projects    ProjectService
	Generations GenerationService
	Activity    ActivityService
	Suggestions SuggestionService
	Styles      StyleSource
}

// Handler serves the REST endpoints.
type Handler struct {
	svc    Services
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{svc: svc, logger: logger, now: time.Now}
}

// Routes registers every endpoint on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Get(DocsPath, h.handleDocs(r))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Get("/statistics", h.handleStatistics)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.handleListProjects)
			r.Post("/", h.handleCreateProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.handleGetProject)
				r.Put("/", h.handleUpdateProject)
				r.Delete("/", h.handleDeleteProject)
				r.Get("/generations", h.handleListGenerations)
				r.Get("/activity", h.handleListActivity)
			})
		})

		r.Route("/generate", func(r chi.Router) {
			r.Post("/image", h.handleGenerateImage)
			r.Post("/video", h.handleGenerateVideo)
			r.Post("/video/audio", h.handleAddSoundtrack)
			r.Post("/video/mix", h.handleMixBackground)
			r.Post("/slideshow", h.handleGenerateSlideshow)
			r.Post("/audio", h.handleGenerateAudio)
		})

		r.Route("/suggestions", func(r chi.Router) {
			r.Post("/improve", h.handleImprovePrompt)
			r.Post("/variations", h.handleVariations)
			r.Post("/next-scene", h.handleNextScene)
			r.Post("/music-mood", h.handleMusicMood)
			r.Post("/script", h.handleScript)
			r.Post("/styles", h.handleStyles)
		})
	})
}
