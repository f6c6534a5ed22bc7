// Package web holds the dashboard templates and static assets.
package web

import "embed"

// TemplatesFS holds the page templates and the summary partial.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds app.css and app.js.
//
//go:embed static/*
var StaticFS embed.FS
