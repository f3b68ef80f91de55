// Package migrations embeds the SQL schema migrations.
package migrations

import "embed"

// FS holds the up/down migration files, applied by database.RunMigrations.
//
//go:embed *.sql
var FS embed.FS
