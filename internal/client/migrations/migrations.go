// Package migrations embeds the schema of the client's durable store,
// one directory per SQL dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql pgx/*.sql
var Migrations embed.FS
