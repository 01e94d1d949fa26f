package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/mediastudio/internal/config"
	"github.com/stretchr/testify/require"
)

// isolate unsets every variable Load reads; t.Setenv restores them afterwards.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{
		"STUDIO_CONFIG_PATH", "STUDIO_SERVER_HOST", "STUDIO_SERVER_PORT", "STUDIO_DB_PATH",
		"STUDIO_LOG_LEVEL", "STUDIO_LOG_PATH", "STUDIO_TRANSPORT", "STUDIO_API_TOKEN",
		"STUDIO_OUTPUT_DIR", "STUDIO_FFMPEG_PATH", "STUDIO_PROVIDER_TIMEOUT",
		"REPLICATE_API_TOKEN", "ELEVENLABS_API_KEY", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("STUDIO_ENV_FILE", filepath.Join(dir, "missing.env"))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, 120*time.Second, cfg.Providers.Replicate.Timeout())
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "studio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
db:
  path: /data/studio.db
providers:
  openai:
    model: gpt-4o-mini
    timeout_seconds: 5
`), 0o644))
	t.Setenv("STUDIO_CONFIG_PATH", path)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "/data/studio.db", cfg.DB.Path)
	require.Equal(t, "gpt-4o-mini", cfg.Providers.OpenAI.Model)
	require.Equal(t, 5*time.Second, cfg.Providers.OpenAI.Timeout())
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "studio.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[transport]
mode = "stdio"

[providers.replicate]
image_model = "black-forest-labs/flux-schnell"

[media]
ffmpeg_path = "/opt/ffmpeg"
`), 0o644))
	t.Setenv("STUDIO_CONFIG_PATH", path)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "black-forest-labs/flux-schnell", cfg.Providers.Replicate.ImageModel)
	require.Equal(t, "anotherjesse/zeroscope-v2-xl", cfg.Providers.Replicate.VideoModel)
	require.Equal(t, "/opt/ffmpeg", cfg.Media.FFmpegPath)
}

func TestLoad_EnvOverridesFileAndDotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("OPENAI_API_KEY=from-dotenv\nELEVENLABS_API_KEY=from-dotenv\n"), 0o644))
	t.Setenv("STUDIO_ENV_FILE", envFile)
	t.Setenv("ELEVENLABS_API_KEY", "from-env")
	t.Setenv("REPLICATE_API_TOKEN", "r8_token")
	t.Setenv("STUDIO_SERVER_PORT", "9100")
	t.Setenv("STUDIO_PROVIDER_TIMEOUT", "7")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", cfg.Providers.OpenAI.APIKey)
	require.Equal(t, "from-env", cfg.Providers.ElevenLabs.APIKey)
	require.Equal(t, "r8_token", cfg.Providers.Replicate.APIToken)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, 7*time.Second, cfg.Providers.ElevenLabs.Timeout())
	require.Equal(t, 7*time.Second, cfg.Providers.Replicate.Timeout())
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("STUDIO_SERVER_PORT", "eighty")
	_, err := config.Load()
	require.Error(t, err)

	isolate(t)
	t.Setenv("STUDIO_TRANSPORT", "carrier-pigeon")
	_, err = config.Load()
	require.Error(t, err)

	dir := isolate(t)
	path := filepath.Join(dir, "studio.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	t.Setenv("STUDIO_CONFIG_PATH", path)
	_, err = config.Load()
	require.Error(t, err)
}
