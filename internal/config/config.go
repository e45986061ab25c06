// Package config loads application configuration from the environment and an
// optional .env file.
package config

import (
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application's configuration values.
type Config struct {
	ServerPort string
	Env        string
	LogLevel   slog.Level
	LogFormat  string

	LLMProvider        string
	GeminiAPIKey       string
	GeneratorModelName string
	OllamaHost         string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURI  string
	ClientURL          string

	RateLimitMax int
}

// Development reports whether the server runs in development mode. Error
// responses include diagnostic detail only in this mode.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// OAuthConfigured reports whether the GitHub login flow can function.
func (c *Config) OAuthConfigured() bool {
	return c.GitHubClientID != "" && c.GitHubRedirectURI != ""
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and warns about absent optional secrets. Missing
// secrets degrade the specific feature (AI review, GitHub OAuth) rather than
// failing startup, so the rest of the API stays usable.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LLM_PROVIDER", "gemini")
	viper.SetDefault("GENERATOR_MODEL_NAME", "gemini-2.0-flash")
	viper.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	viper.SetDefault("CLIENT_URL", "http://localhost:5173")
	viper.SetDefault("RATE_LIMIT_MAX", 10)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", "error", err)
		}
	}

	cfg := &Config{
		ServerPort:         viper.GetString("SERVER_PORT"),
		Env:                viper.GetString("ENV"),
		LogLevel:           parseLogLevel(viper.GetString("LOG_LEVEL")),
		LogFormat:          viper.GetString("LOG_FORMAT"),
		LLMProvider:        viper.GetString("LLM_PROVIDER"),
		GeminiAPIKey:       viper.GetString("GEMINI_API_KEY"),
		GeneratorModelName: viper.GetString("GENERATOR_MODEL_NAME"),
		OllamaHost:         viper.GetString("OLLAMA_HOST"),
		GitHubClientID:     viper.GetString("GITHUB_CLIENT_ID"),
		GitHubClientSecret: viper.GetString("GITHUB_CLIENT_SECRET"),
		GitHubRedirectURI:  viper.GetString("GITHUB_REDIRECT_URI"),
		ClientURL:          viper.GetString("CLIENT_URL"),
		RateLimitMax:       viper.GetInt("RATE_LIMIT_MAX"),
	}

	if cfg.LLMProvider == "gemini" && cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set; review requests will fail until it is configured")
	}
	if cfg.GitHubClientID == "" {
		slog.Warn("GITHUB_CLIENT_ID is not set; GitHub login will not function")
	}
	if cfg.GitHubClientSecret == "" {
		slog.Warn("GITHUB_CLIENT_SECRET is not set; GitHub login will not function")
	}
	if cfg.GitHubRedirectURI == "" {
		slog.Warn("GITHUB_REDIRECT_URI is not set; GitHub login will not function")
	}

	return cfg, nil
}

// parseLogLevel maps a config string onto a slog.Level, defaulting to info.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	default:
		slog.Warn("unrecognized log level, defaulting to info", "provided", s)
		return slog.LevelInfo
	}
}
