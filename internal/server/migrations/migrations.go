// Package migrations embeds the goose SQL migrations for the server schema.
// goose keeps the list of applied versions in goose_db_version.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
