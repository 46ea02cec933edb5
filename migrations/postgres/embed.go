// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contains the postgres migrations for the group and article tables.
// File format: {version}_{name}.sql
//
//go:embed *.sql
var FS embed.FS
