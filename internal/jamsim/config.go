// Package jamsim drives a running SynthOrbit server with simulated jam
// sessions and checks that the leaderboard and stats add up.
package jamsim

import (
	"errors"
	"time"
)

// Errors returned by Run.
var (
	ErrInvalidConfig = errors.New("invalid simulator config")
	ErrUnhealthy     = errors.New("service unhealthy")
	ErrMismatch      = errors.New("journal mismatch")
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL              string        // Base URL of the service
	Performers           int           // Performers to register
	SessionsPerPerformer int           // Sessions each performer plays
	EventsPerSession     int           // Events appended per session
	Workers              int           // Concurrent sessions in flight
	Timeout              time.Duration // HTTP request timeout
	Seed                 uint64        // Seed for the session plan; 0 picks one from the clock
	Verbose              bool          // Log every session
}

func (c *Config) validate() error {
	switch {
	case c.BaseURL == "":
		return errors.Join(ErrInvalidConfig, errors.New("base url is empty"))
	case c.Performers < 1:
		return errors.Join(ErrInvalidConfig, errors.New("performers must be positive"))
	case c.SessionsPerPerformer < 1:
		return errors.Join(ErrInvalidConfig, errors.New("sessions per performer must be positive"))
	case c.EventsPerSession < 0:
		return errors.Join(ErrInvalidConfig, errors.New("events per session must not be negative"))
	case c.Workers < 1:
		return errors.Join(ErrInvalidConfig, errors.New("workers must be positive"))
	}
	return nil
}

// Stats holds run statistics.
type Stats struct {
	PerformersRegistered int
	SessionsPlayed       int
	EventsSubmitted      int
	EventsFailed         int
	CompositionsSaved    int
	LeaderboardEntries   int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}

// leader mirrors one /api/leaderboard row.
type leader struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	DNI      string `json:"dni"`
	Sessions int64  `json:"sessions"`
	Hits     int64  `json:"hits"`
	Notes    int64  `json:"notes"`
}

// globalStats mirrors /api/stats.
type globalStats struct {
	Performers   int64 `json:"performers"`
	Compositions int64 `json:"compositions"`
	Sessions     int64 `json:"sessions"`
	Events       int64 `json:"events"`
}
