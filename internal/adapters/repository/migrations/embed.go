// Package migrations embeds the SQLite schema for the session journal.
package migrations

import "embed"

// FS contains the embedded SQLite migrations, applied in file name order.
//
//go:embed *.sql
var FS embed.FS
