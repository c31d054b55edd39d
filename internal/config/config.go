// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultCurrentLocationPhrases are the pickup texts that mean "use my position".
// "current postions" is a misspelling the model has been seen to emit.
var DefaultCurrentLocationPhrases = []string{
	"current position",
	"current location",
	"here",
	"my location",
	"my current location",
	"current postions",
}

type LLMConfig struct {
	Provider      string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiKey     string
	GeminiModel   string
	Timeout       time.Duration
}

type LocationConfig struct {
	Provider      string
	MapboxKey     string
	MapboxBaseURL string
	GoogleMapsKey string
	Country       string
	Timeout       time.Duration
	CacheTTL      time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string
	CORSOrigins []string

	LLM       LLMConfig
	Location  LocationConfig
	RateLimit RateLimitConfig

	HistoryTurnLimit       int
	ClassifierCacheTTL     time.Duration
	CurrentLocationPhrases []string
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads the environment. Every missing required variable is reported in one error.
func Load() (Config, error) {
	var cfg Config
	var missing []string

	require := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg.Port = envOrDefault("PORT", "8080")
	cfg.Env = envOrDefault("APP_ENV", "production")
	cfg.LogLevel = envOrDefault("LOG_LEVEL", "info")
	cfg.DatabaseURL = require("POSTGRES_URL")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.JWTSecret = require("JWT_SECRET")
	cfg.CORSOrigins = envList("CORS_ORIGINS", []string{"*"})

	cfg.LLM.Provider = strings.ToLower(envOrDefault("LLM_PROVIDER", "openai"))
	cfg.LLM.OpenAIModel = envOrDefault("OPENAI_MODEL", "gpt-4o-mini")
	cfg.LLM.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	cfg.LLM.GeminiModel = envOrDefault("GEMINI_MODEL", "gemini-2.0-flash")
	cfg.LLM.Timeout = envOrDefaultDuration("LLM_TIMEOUT", 30*time.Second)
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.OpenAIKey = require("OPENAI_API_KEY")
	case "gemini":
		cfg.LLM.GeminiKey = require("GEMINI_API_KEY")
	default:
		return Config{}, fmt.Errorf("config: unsupported LLM_PROVIDER %q (use openai or gemini)", cfg.LLM.Provider)
	}

	cfg.Location.Provider = strings.ToLower(envOrDefault("LOCATION_PROVIDER", "mapbox"))
	cfg.Location.MapboxBaseURL = envOrDefault("MAPBOX_BASE_URL", "https://api.mapbox.com")
	cfg.Location.Country = envOrDefault("LOCATION_COUNTRY", "CH")
	cfg.Location.Timeout = envOrDefaultDuration("LOCATION_TIMEOUT", 15*time.Second)
	cfg.Location.CacheTTL = envOrDefaultDuration("LOCATION_CACHE_TTL", 24*time.Hour)
	switch cfg.Location.Provider {
	case "mapbox":
		cfg.Location.MapboxKey = require("MAPBOX_API_KEY")
	case "google":
		cfg.Location.GoogleMapsKey = require("GOOGLE_MAPS_API_KEY")
	default:
		return Config{}, fmt.Errorf("config: unsupported LOCATION_PROVIDER %q (use mapbox or google)", cfg.Location.Provider)
	}

	cfg.RateLimit.RPS = envOrDefaultFloat("RATE_LIMIT_RPS", 5)
	cfg.RateLimit.Burst = envOrDefaultInt("RATE_LIMIT_BURST", 10)
	cfg.HistoryTurnLimit = envOrDefaultInt("HISTORY_TURN_LIMIT", 20)
	cfg.ClassifierCacheTTL = envOrDefaultDuration("CLASSIFIER_CACHE_TTL", time.Hour)
	cfg.CurrentLocationPhrases = envList("CURRENT_LOCATION_PHRASES", DefaultCurrentLocationPhrases)

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// envList splits a comma separated variable, dropping blanks.
func envList(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return append([]string(nil), def...)
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), def...)
	}
	return out
}
