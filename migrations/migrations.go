// Package migrations embeds the SQL schema so the binary and the tests apply
// the same files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
