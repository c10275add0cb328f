// Package web holds the embedded admin interface assets. The JavaScript
// mirrors the server-side price normalization and rule validation so the
// admin gets immediate per-row feedback; the server never trusts it.
package web

import "embed"

//go:embed static
var Static embed.FS
