package testserver

import (
	"net/http/httptest"
	"testing"

	"github.com/rpggio/mediastudio/internal/app"
	"github.com/rpggio/mediastudio/internal/config"
	"github.com/rpggio/mediastudio/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// TestServer runs the full HTTP surface against an in-memory database and
// fake providers.
type TestServer struct {
	Server    *httptest.Server
	DB        *sqlite.DB
	App       *app.App
	Providers *Providers
	Token     string
	OutputDir string
}

// Option adjusts the configuration before the server is wired.
type Option func(*config.Config)

// WithoutProviderKeys leaves every provider unconfigured.
func WithoutProviderKeys() Option {
	return func(cfg *config.Config) {
		cfg.Providers.Replicate.APIToken = ""
		cfg.Providers.ElevenLabs.APIKey = ""
		cfg.Providers.OpenAI.APIKey = ""
	}
}

// New starts a server. An empty token disables authentication.
func New(t *testing.T, token string, opts ...Option) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	providers := newProviders(t)

	cfg := config.Default()
	cfg.Auth.Token = token
	cfg.Output.Dir = t.TempDir()
	cfg.Providers.Replicate.APIToken = "replicate-test"
	cfg.Providers.Replicate.BaseURL = providers.Server.URL
	cfg.Providers.ElevenLabs.APIKey = "elevenlabs-test"
	cfg.Providers.ElevenLabs.BaseURL = providers.Server.URL
	cfg.Providers.OpenAI.APIKey = "openai-test"
	cfg.Providers.OpenAI.BaseURL = providers.Server.URL
	for _, opt := range opts {
		opt(&cfg)
	}

	a := app.New(cfg, db, nil)
	server := httptest.NewServer(a.Handler(cfg.Auth.Token, nil))

	ts := &TestServer{
		Server:    server,
		DB:        db,
		App:       a,
		Providers: providers,
		Token:     token,
		OutputDir: cfg.Output.Dir,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}
