// Package migrations embeds the content API schema migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
