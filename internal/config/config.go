// Package config loads runtime settings from the environment, honoring a
// local .env file when present (connection details such as DATABASE_URL
// are supplied that way in development).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPlayerStatsURL = "https://github.com/nflverse/nflverse-data/releases/download/player_stats"
	defaultScheduleURL    = "https://github.com/nflverse/nflverse-data/releases/download/games/games.csv"
	defaultTeamsURL       = "https://github.com/nflverse/nflverse-pbp/raw/master/teams_colors_logos.csv"
)

// Config carries every knob the binaries need.
type Config struct {
	DatabaseURL string
	RedisURL    string
	APIPort     string
	CORSOrigin  string

	CacheDir       string
	PlayerStatsURL string
	MirrorURL      string
	ScheduleURL    string
	TeamsURL       string
	FetchTimeout   time.Duration

	RefreshCron string
	LogLevel    string
}

// Load reads the environment (and .env, if present) into a Config.
func Load() Config {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	return Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       getEnv("REDIS_URL", ""),
		APIPort:        getEnv("API_PORT", "8000"),
		CORSOrigin:     getEnv("CORS_ORIGIN", "http://localhost:5173"),
		CacheDir:       getEnv("RAW_CACHE_DIR", "raw"),
		PlayerStatsURL: getEnv("PLAYER_STATS_URL", defaultPlayerStatsURL),
		MirrorURL:      getEnv("PLAYER_STATS_MIRROR_URL", ""),
		ScheduleURL:    getEnv("SCHEDULE_URL", defaultScheduleURL),
		TeamsURL:       getEnv("TEAMS_URL", defaultTeamsURL),
		FetchTimeout:   getDurationEnv("FETCH_TIMEOUT", 60*time.Second),
		RefreshCron:    getEnv("REFRESH_CRON", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

// RequireDatabaseURL returns the DSN or an error when it is unset.
func (c Config) RequireDatabaseURL() (string, error) {
	if c.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return c.DatabaseURL, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
