// Package migrations embeds the PostgreSQL schema migrations applied by goose
// at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
