// Package migrations embeds the goose migrations that create the schema the
// default authentication queries run against.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
