// Package web embeds the HTML templates and static assets served by the
// dashboard, so the binary ships self-contained.
package web

import "embed"

//go:embed templates/*.html
var TemplatesFS embed.FS

//go:embed static/*
var StaticFS embed.FS
