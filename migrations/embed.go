// Package migrations embeds the dev server's SQL schema migrations for use
// with goose.
package migrations

import "embed"

// FS holds the embedded migration files.
//
//go:embed *.sql
var FS embed.FS
