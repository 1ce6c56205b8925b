// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains the SQL migration files of every supported driver,
// one directory per driver name (migrations/sqlite3, migrations/mysql).
//
//go:embed migrations/*/*.sql
var Migrations embed.FS
