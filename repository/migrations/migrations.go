// Package migrations embeds the schema of the local key-value medium.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
