package mcp

import (
	"context"
	"io"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/mediastudio/internal/domain/generation"
	"github.com/rpggio/mediastudio/internal/domain/project"
)

const (
	serverName    = "mediastudio"
	serverVersion = "1.0.0"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id int64) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
	Update(ctx context.Context, id int64, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, id int64) error
}

// GenerationService defines generation operations needed by MCP.
type GenerationService interface {
	List(ctx context.Context, projectID int64) ([]generation.Generation, error)
	Statistics(ctx context.Context, scope generation.Scope) (generation.Statistics, error)
	GenerateImage(ctx context.Context, req generation.ImageRequest) (*generation.Result, error)
	GenerateAudio(ctx context.Context, req generation.AudioRequest) (*generation.Result, error)
}

// PromptImprover rewrites prompts.
type PromptImprover interface {
	ImprovePrompt(ctx context.Context, prompt, contentType string) string
}

// Services contains all services needed by MCP.
type Services struct {
	Projects    ProjectService
	Generations GenerationService
	Suggestions PromptImprover
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
// Authentication happens in front of the HTTP handler, stdio is local only.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, cfg.Services, logger)

	return server
}
