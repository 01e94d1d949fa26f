// Package migrations embeds the SQL schema applied at start-up.
package migrations

import "embed"

// FS holds the migration files.
//
//go:embed *.sql
var FS embed.FS

// InitialSchema is the name of the first up migration.
const InitialSchema = "001_initial_schema.up.sql"
