package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-powerform/pkg/powertype"
)

// Loader implements powertype.Loader by delegating to file, fs.FS, or HTTP
// strategies.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

var _ powertype.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options powertype.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:      options.FileSystem,
		http:    httpClient,
		timeout: timeout,
	}
}

// Load reads the document behind src and decodes it into a Set.
func (l *Loader) Load(ctx context.Context, src powertype.Source) (powertype.Set, error) {
	if src == nil {
		return powertype.Set{}, errors.New("powertype loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case powertype.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case powertype.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case powertype.SourceKindURL:
		if l.http == nil {
			return powertype.Set{}, errors.New("powertype loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = fmt.Errorf("powertype loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return powertype.Set{}, err
	}

	return powertype.Decode(data)
}
