package migrations

import "embed"

// Files holds the forward-only SQL migrations for the key-value table. Each
// statement must run on both SQLite and Postgres.
//
//go:embed *.sql
var Files embed.FS
