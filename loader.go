package powerform

import (
	internalLoader "github.com/goliatone/go-powerform/internal/loader"
	"github.com/goliatone/go-powerform/pkg/powertype"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...powertype.LoaderOption) powertype.Loader {
	return internalLoader.New(powertype.NewLoaderOptions(options...))
}
