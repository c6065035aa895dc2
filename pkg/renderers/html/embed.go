package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle. Callers overriding the
// markup can copy it as a starting point.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
