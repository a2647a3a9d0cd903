package report

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded page template bundle for consumers that
// want to extend the default report layout.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
