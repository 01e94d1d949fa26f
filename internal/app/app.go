// Package app wires configuration, storage, provider clients and services
// into the HTTP and MCP surfaces.
package app

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/mediastudio/internal/api"
	"github.com/rpggio/mediastudio/internal/config"
	"github.com/rpggio/mediastudio/internal/domain/activity"
	"github.com/rpggio/mediastudio/internal/domain/generation"
	"github.com/rpggio/mediastudio/internal/domain/project"
	"github.com/rpggio/mediastudio/internal/mcp"
	"github.com/rpggio/mediastudio/internal/media/audio"
	"github.com/rpggio/mediastudio/internal/media/image"
	"github.com/rpggio/mediastudio/internal/media/video"
	"github.com/rpggio/mediastudio/internal/provider/openai"
	"github.com/rpggio/mediastudio/internal/provider/replicate"
	"github.com/rpggio/mediastudio/internal/sqlite"
	"github.com/rpggio/mediastudio/internal/suggest"
	"github.com/rpggio/mediastudio/internal/transport"
)

// App holds the wired services and surfaces.
type App struct {
	Projects    *project.Service
	Generations *generation.Service
	Activity    *activity.Service
	Suggestions *suggest.Engine

	API *api.Handler
	MCP *sdkmcp.Server
}

// New wires an App from cfg on top of an open, migrated database.
func New(cfg config.Config, db *sqlite.DB, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	projectRepo := sqlite.NewProjectRepository(db)
	generationRepo := sqlite.NewGenerationRepository(db)
	activities := activity.NewService(sqlite.NewActivityRepository(db), logger)

	rep := replicate.New(replicate.Config{
		APIToken: cfg.Providers.Replicate.APIToken,
		BaseURL:  cfg.Providers.Replicate.BaseURL,
		Timeout:  cfg.Providers.Replicate.Timeout(),
	}, logger.With("provider", "replicate"))

	images := image.New(rep, image.Config{
		Model:           cfg.Providers.Replicate.ImageModel,
		DownloadTimeout: cfg.Providers.Replicate.Timeout(),
	}, logger.With("client", "image"))

	videos := video.New(rep, nil, video.Config{
		Model:      cfg.Providers.Replicate.VideoModel,
		FFmpegPath: cfg.Media.FFmpegPath,
		MediaRoot:  cfg.Output.Dir,
	}, logger.With("client", "video"))

	speech := audio.New(audio.Config{
		APIKey:  cfg.Providers.ElevenLabs.APIKey,
		BaseURL: cfg.Providers.ElevenLabs.BaseURL,
		Model:   cfg.Providers.ElevenLabs.Model,
		Voice:   cfg.Providers.ElevenLabs.Voice,
		Timeout: cfg.Providers.ElevenLabs.Timeout(),
	}, logger.With("client", "audio"))

	llm := openai.New(openai.Config{
		APIKey:  cfg.Providers.OpenAI.APIKey,
		BaseURL: cfg.Providers.OpenAI.BaseURL,
		Model:   cfg.Providers.OpenAI.Model,
		Timeout: cfg.Providers.OpenAI.Timeout(),
	}, logger.With("provider", "openai"))

	logger.Info("providers configured",
		"replicate", rep.Configured(),
		"elevenlabs", speech.Configured(),
		"openai", llm.Configured(),
	)

	a := &App{
		Projects: project.NewService(projectRepo, activities, logger),
		Generations: generation.NewService(generation.Dependencies{
			Generations: generationRepo,
			Projects:    projectRepo,
			Activities:  activities,
			Images:      images,
			Videos:      videos,
			Audio:       speech,
			OutputDir:   cfg.Output.Dir,
			Logger:      logger,
		}),
		Activity:    activities,
		Suggestions: suggest.NewEngine(llm, logger),
	}

	a.API = api.NewHandler(api.Services{
		Projects:    a.Projects,
		Generations: a.Generations,
		Activity:    a.Activity,
		Suggestions: a.Suggestions,
		Styles:      images,
	}, logger)

	a.MCP = mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:    a.Projects,
			Generations: a.Generations,
			Suggestions: a.Suggestions,
		},
		Logger: logger,
	})

	return a
}

// Handler returns the HTTP surface: REST routes plus the streamable MCP
// endpoint, behind the configured bearer token.
func (a *App) Handler(token string, logger *slog.Logger) http.Handler {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return a.MCP },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)
	return transport.NewServer(transport.Config{
		API:    a.API.Routes,
		MCP:    mcpHandler,
		Token:  token,
		Logger: logger,
	})
}
