package powerform

import (
	"io/fs"

	"github.com/goliatone/go-powerform/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// and adjust them, then pass the result back with html.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
