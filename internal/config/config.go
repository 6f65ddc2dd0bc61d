package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	dotenv "github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	AOC      AOCConfig      `toml:"aoc"`
	Log      LogConfig      `toml:"log"`
	Featured FeaturedConfig `toml:"featured"`
}

type ServerConfig struct {
	Port int `toml:"port"`
	// SessionDB holds the session tokens users paste in, so it must be an
	// in-memory sqlite DSN. Empty uses fiber's own memory store.
	SessionDB string `toml:"session_db"`
}

type AOCConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
	Timezone  string `toml:"timezone"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
	Color bool       `toml:"color"`
}

// FeaturedConfig is a leaderboard refreshed in the background and shown on
// the landing page without asking for credentials.
type FeaturedConfig struct {
	Year          string `toml:"year"`
	LeaderboardId string `toml:"leaderboard_id"`
	SessionCookie string `toml:"session_id"`
}

func (f FeaturedConfig) Enabled() bool {
	return len(f.Year) > 0 && len(f.LeaderboardId) > 0 && len(f.SessionCookie) > 0
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      7071,
			SessionDB: "file::memory:?cache=shared",
		},
		AOC: AOCConfig{
			BaseURL:   "https://adventofcode.com",
			UserAgent: "aocboard (+https://github.com/uocsclub/aocboard)",
			Timezone:  "America/New_York",
		},
		Log: LogConfig{
			Level: slog.LevelInfo,
			Color: true,
		},
	}
}

// Load reads .env, then the optional TOML file, then lets environment
// variables override both.
func Load(path string) (*Config, error) {
	if err := dotenv.Load(); err != nil {
		slog.Warn("Failed to load .env")
	}

	cfg := Default()

	if len(path) == 0 {
		path = os.Getenv("CONFIG_FILE")
	}
	if len(path) == 0 {
		path = "config.toml"
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to open config: %w", err)
	default:
		defer file.Close()
		if err = toml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err = cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if !IsMemoryDSN(cfg.Server.SessionDB) {
		return nil, fmt.Errorf("SESSION_DB %q would write session tokens to disk, use an in-memory database", cfg.Server.SessionDB)
	}
	return cfg, nil
}

// IsMemoryDSN reports whether a sqlite DSN never touches the filesystem.
func IsMemoryDSN(dsn string) bool {
	if len(dsn) == 0 {
		return true
	}
	return strings.HasPrefix(dsn, ":memory:") ||
		strings.HasPrefix(dsn, "file::memory:") ||
		(strings.HasPrefix(dsn, "file:") && strings.Contains(dsn, "mode=memory"))
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString(getenv, "SESSION_DB", &c.Server.SessionDB)
	setString(getenv, "AOC_BASE_URL", &c.AOC.BaseURL)
	setString(getenv, "USER_AGENT", &c.AOC.UserAgent)
	setString(getenv, "TIMEZONE", &c.AOC.Timezone)
	setString(getenv, "FEATURED_YEAR", &c.Featured.Year)
	setString(getenv, "FEATURED_LEADERBOARD_ID", &c.Featured.LeaderboardId)
	setString(getenv, "FEATURED_SESSION_ID", &c.Featured.SessionCookie)

	if port := getenv("SERVER_PORT"); len(port) > 0 {
		iport, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("failed to parse SERVER_PORT env variable: %w", err)
		}
		c.Server.Port = iport
	}

	if level := getenv("LOG_LEVEL"); len(level) > 0 {
		if err := c.Log.Level.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("failed to parse LOG_LEVEL env variable: %w", err)
		}
	}

	if color := getenv("LOG_COLOR"); len(color) > 0 {
		c.Log.Color = !strings.EqualFold(color, "false") && color != "0"
	}

	return nil
}

func setString(getenv func(string) string, key string, target *string) {
	if value := getenv(key); len(value) > 0 {
		*target = value
	}
}
