// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import "embed"

// FS contiene los archivos SQL de migración.
// Formato: {version}_{name}_up.sql / {version}_{name}_down.sql.
//
//go:embed *.sql
var FS embed.FS
