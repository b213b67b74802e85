package web

import "embed"

// TemplatesFS embeds the report and editor templates.
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds stylesheets and scripts. report.css is inlined into rendered reports.
//go:embed static/*
var StaticFS embed.FS
