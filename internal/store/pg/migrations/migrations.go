// Package migrations embeds the SQL schema migrations so they compile into
// the binary.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
