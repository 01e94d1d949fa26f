package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	DB        DBConfig        `yaml:"db" toml:"db"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Transport TransportConfig `yaml:"transport" toml:"transport"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
	Output    OutputConfig    `yaml:"output" toml:"output"`
	Providers ProvidersConfig `yaml:"providers" toml:"providers"`
	Media     MediaConfig     `yaml:"media" toml:"media"`
}

type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path" toml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	Path  string `yaml:"path" toml:"path"`
}

// TransportConfig selects how the server is exposed: "http" serves the REST
// API and MCP over HTTP, "stdio" serves MCP on stdin/stdout.
type TransportConfig struct {
	Mode string `yaml:"mode" toml:"mode"`
}

// AuthConfig holds the optional bearer token for the HTTP surface.
type AuthConfig struct {
	Token string `yaml:"token" toml:"token"`
}

type OutputConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

type ProvidersConfig struct {
	Replicate  ReplicateConfig  `yaml:"replicate" toml:"replicate"`
	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs" toml:"elevenlabs"`
	OpenAI     OpenAIConfig     `yaml:"openai" toml:"openai"`
}

type ReplicateConfig struct {
	APIToken       string `yaml:"api_token" toml:"api_token"`
	BaseURL        string `yaml:"base_url" toml:"base_url"`
	ImageModel     string `yaml:"image_model" toml:"image_model"`
	VideoModel     string `yaml:"video_model" toml:"video_model"`
	TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

type ElevenLabsConfig struct {
	APIKey         string `yaml:"api_key" toml:"api_key"`
	BaseURL        string `yaml:"base_url" toml:"base_url"`
	Model          string `yaml:"model" toml:"model"`
	Voice          string `yaml:"voice" toml:"voice"`
	TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

type OpenAIConfig struct {
	APIKey         string `yaml:"api_key" toml:"api_key"`
	BaseURL        string `yaml:"base_url" toml:"base_url"`
	Model          string `yaml:"model" toml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

type MediaConfig struct {
	FFmpegPath string `yaml:"ffmpeg_path" toml:"ffmpeg_path"`
}

// Timeout returns the request timeout for the Replicate client.
func (c ReplicateConfig) Timeout() time.Duration { return seconds(c.TimeoutSeconds) }

// Timeout returns the request timeout for the ElevenLabs client.
func (c ElevenLabsConfig) Timeout() time.Duration { return seconds(c.TimeoutSeconds) }

// Timeout returns the request timeout for the OpenAI client.
func (c OpenAIConfig) Timeout() time.Duration { return seconds(c.TimeoutSeconds) }

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		DB: DBConfig{
			Path: "studio.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Output: OutputConfig{
			Dir: "outputs",
		},
		Providers: ProvidersConfig{
			Replicate: ReplicateConfig{
				ImageModel:     "stability-ai/sdxl",
				VideoModel:     "anotherjesse/zeroscope-v2-xl",
				TimeoutSeconds: 120,
			},
			ElevenLabs: ElevenLabsConfig{
				Voice:          "Adam",
				TimeoutSeconds: 60,
			},
			OpenAI: OpenAIConfig{
				Model:          "gpt-3.5-turbo",
				TimeoutSeconds: 30,
			},
		},
		Media: MediaConfig{
			FFmpegPath: "ffmpeg",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML or TOML
// file named by STUDIO_CONFIG_PATH, a .env file and the environment, each
// layer overriding the previous one. Variables from the .env file never
// replace variables already set in the environment.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("STUDIO_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	envFile := os.Getenv("STUDIO_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Host, "STUDIO_SERVER_HOST")
	if portStr := os.Getenv("STUDIO_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid STUDIO_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	setString(&cfg.DB.Path, "STUDIO_DB_PATH")
	setString(&cfg.Log.Level, "STUDIO_LOG_LEVEL")
	setString(&cfg.Log.Path, "STUDIO_LOG_PATH")
	setString(&cfg.Transport.Mode, "STUDIO_TRANSPORT")
	setString(&cfg.Auth.Token, "STUDIO_API_TOKEN")
	setString(&cfg.Output.Dir, "STUDIO_OUTPUT_DIR")
	setString(&cfg.Media.FFmpegPath, "STUDIO_FFMPEG_PATH")

	setString(&cfg.Providers.Replicate.APIToken, "REPLICATE_API_TOKEN")
	setString(&cfg.Providers.ElevenLabs.APIKey, "ELEVENLABS_API_KEY")
	setString(&cfg.Providers.OpenAI.APIKey, "OPENAI_API_KEY")

	if timeoutStr := os.Getenv("STUDIO_PROVIDER_TIMEOUT"); timeoutStr != "" {
		timeout, err := strconv.Atoi(timeoutStr)
		if err != nil {
			return fmt.Errorf("invalid STUDIO_PROVIDER_TIMEOUT: %w", err)
		}
		cfg.Providers.Replicate.TimeoutSeconds = timeout
		cfg.Providers.ElevenLabs.TimeoutSeconds = timeout
		cfg.Providers.OpenAI.TimeoutSeconds = timeout
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if strings.TrimSpace(c.DB.Path) == "" {
		return errors.New("db path is required")
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("output dir is required")
	}
	for name, secs := range map[string]int{
		"replicate":  c.Providers.Replicate.TimeoutSeconds,
		"elevenlabs": c.Providers.ElevenLabs.TimeoutSeconds,
		"openai":     c.Providers.OpenAI.TimeoutSeconds,
	} {
		if secs <= 0 {
			return fmt.Errorf("invalid %s timeout %d", name, secs)
		}
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file type %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
