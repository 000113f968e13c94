// Package migrations bundles the SQLite schema applied by goose when the store opens.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
