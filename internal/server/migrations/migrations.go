// Package migrations embeds the goose SQL migrations for each supported
// dialect. Directory names match dbx.Dialect values.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
