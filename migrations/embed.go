// Package migrations embeds the SQL migration files run by goose at start-up.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
