// AngelaMos | 2026
// embed.go

// Package migrations embeds the SQL schema so the binary can migrate
// the database at startup without shipping loose files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
