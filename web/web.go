// Package web holds the page templates and static assets compiled into the
// binary.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var Static embed.FS
