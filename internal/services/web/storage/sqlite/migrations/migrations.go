// Package migrations embeds the query cache schema.
package migrations

import "embed"

// FS holds the cache SQL migrations.
//
//go:embed *.sql
var FS embed.FS
