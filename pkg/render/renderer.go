package render

import (
	"context"

	"github.com/goliatone/go-powerform/pkg/fields"
)

// Renderer converts a fields.View into a byte representation (HTML markup,
// a JSON/YAML payload collected from prompts, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view fields.View, options RenderOptions) ([]byte, error)
}
