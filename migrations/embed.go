// Package migrations embeds the goose migration files that create the schema
// and the authoritative stored operations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
