// Package types contains common types used across the application
package types

// LeaderEntry is one leaderboard row, derived from finalized session summaries.
type LeaderEntry struct {
	PerformerID int64  `json:"id"`
	Name        string `json:"name"`
	DNI         string `json:"dni"`
	Sessions    int64  `json:"sessions"`
	Hits        int64  `json:"hits"`
	Notes       int64  `json:"notes"`
}

// GlobalStats holds the row counts of the four journal tables.
type GlobalStats struct {
	Performers   int64 `json:"performers"`
	Compositions int64 `json:"compositions"`
	Sessions     int64 `json:"sessions"`
	Events       int64 `json:"events"`
}

// CompositionSummary is a list row: composition metadata joined with its performer.
type CompositionSummary struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	BPM           int64     `json:"bpm"`
	SynthType     string    `json:"synth_type"`
	CreatedAt     Timestamp `json:"created_at"`
	PerformerName string    `json:"performer_name"`
	DNI           string    `json:"dni"`
}
