// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and SYNTHORBIT_* env vars.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5080".
	Addr string `koanf:"addr"`

	// Environment is reported to Sentry, e.g. "development" or "production".
	Environment string `koanf:"environment"`

	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// DBMaxOpenConns bounds the database/sql pool.
	DBMaxOpenConns int `koanf:"db_max_open_conns"`

	// DBBusyTimeoutMS is how long SQLite waits on a locked database.
	DBBusyTimeoutMS int `koanf:"db_busy_timeout_ms"`

	// LeaderboardLimit is the default row count for GET /api/leaderboard.
	LeaderboardLimit int `koanf:"leaderboard_limit"`

	// MaxLeaderboardLimit caps GET /api/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// CompositionListLimit caps GET /api/compositions.
	CompositionListLimit int `koanf:"composition_list_limit"`

	// SessionEventsLimit caps GET /api/sessions/{id}/events.
	SessionEventsLimit int `koanf:"session_events_limit"`

	// SeedDemo inserts the demo performer and composition into an empty store on start.
	SeedDemo bool `koanf:"seed_demo"`

	// SentryDSN enables error reporting when set.
	SentryDSN string `koanf:"sentry_dsn"`

	// StatsRefreshIntervalMS controls how often the total gauges are refreshed.
	StatsRefreshIntervalMS int `koanf:"stats_refresh_interval_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":5080",
		Environment:            "development",
		DBPath:                 "synth_orbit.sqlite3",
		DBMaxOpenConns:         8,
		DBBusyTimeoutMS:        5000,
		LeaderboardLimit:       10,
		MaxLeaderboardLimit:    100,
		CompositionListLimit:   25,
		SessionEventsLimit:     1000,
		SeedDemo:               true,
		StatsRefreshIntervalMS: 5000,
	}
}
