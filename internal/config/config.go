// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DBPath          string
	LogLevel        string
	LogFormat       string
	DemoUserID      int64
	CORSOrigins     []string
	GenerateTimeout time.Duration
	GeminiAPIKey    string
	GeminiModel     string
}

func defaults() Config {
	return Config{
		Port:            "8080",
		DBPath:          "familyhub.db",
		LogLevel:        "info",
		LogFormat:       "text",
		CORSOrigins:     []string{"*"},
		GenerateTimeout: 10 * time.Second,
		GeminiModel:     "gemini-1.5-flash",
	}
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := defaults()

	if v := getenv("FAMILYHUB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid FAMILYHUB_PORT %q", v)
		}
		cfg.Port = v
	}
	if v := getenv("FAMILYHUB_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("FAMILYHUB_LOG_LEVEL"); v != "" {
		switch strings.ToLower(v) {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = strings.ToLower(v)
		default:
			return Config{}, fmt.Errorf("invalid FAMILYHUB_LOG_LEVEL %q", v)
		}
	}
	if v := getenv("FAMILYHUB_LOG_FORMAT"); v != "" {
		switch strings.ToLower(v) {
		case "text", "json":
			cfg.LogFormat = strings.ToLower(v)
		default:
			return Config{}, fmt.Errorf("invalid FAMILYHUB_LOG_FORMAT %q", v)
		}
	}
	if v := getenv("FAMILYHUB_DEMO_USER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id < 0 {
			return Config{}, fmt.Errorf("invalid FAMILYHUB_DEMO_USER_ID %q", v)
		}
		cfg.DemoUserID = id
	}
	if v := getenv("FAMILYHUB_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			return Config{}, fmt.Errorf("invalid FAMILYHUB_CORS_ORIGINS %q", v)
		}
		cfg.CORSOrigins = origins
	}
	if v := getenv("FAMILYHUB_GENERATE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid FAMILYHUB_GENERATE_TIMEOUT %q", v)
		}
		cfg.GenerateTimeout = d
	}
	cfg.GeminiAPIKey = getenv("GEMINI_API_KEY")
	if v := getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
