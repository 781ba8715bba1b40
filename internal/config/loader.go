package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names and prefix.
const (
	EnvPrefix     = "SYNTHORBIT_"
	EnvConfigFile = "SYNTHORBIT_CONFIG"
)

// LoadDotEnv loads variables from the given .env files (default ".env") into the
// process environment without overriding values that are already set. A missing
// file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return loadFailed("dotenv "+f, err)
		}
	}
	return nil
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SYNTHORBIT_CONFIG is set
//  3. env (prefix SYNTHORBIT_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, loadFailed("config file", err)
		}
	}

	// SYNTHORBIT_DB_PATH -> db_path (flat keys, underscores preserved)
	envProvider := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, loadFailed("env", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, loadFailed("unmarshal", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(s)
	return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
}

// Validate checks the fields the server cannot run without.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return invalid("addr must not be empty")
	case strings.TrimSpace(c.DBPath) == "":
		return invalid("db_path must not be empty")
	case c.LeaderboardLimit < 1:
		return invalid("leaderboard_limit must be positive")
	case c.MaxLeaderboardLimit < c.LeaderboardLimit:
		return invalid("max_leaderboard_limit must be >= leaderboard_limit")
	case c.CompositionListLimit < 1:
		return invalid("composition_list_limit must be positive")
	case c.SessionEventsLimit < 1:
		return invalid("session_events_limit must be positive")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return invalid("log_format must be text or json")
	}
	return nil
}
