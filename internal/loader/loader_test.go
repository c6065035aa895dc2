package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-powerform/pkg/powertype"
	"github.com/goliatone/go-powerform/pkg/testsupport"
)

const manualDoc = `[{"name": "manual", "fields": []}]`

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "power_types.yaml")
	if err := os.WriteFile(path, []byte("- name: manual\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	set, err := New(powertype.LoaderOptions{}).Load(testsupport.Context(), powertype.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := testsupport.Diff([]string{"manual"}, set.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_FS(t *testing.T) {
	l := New(powertype.NewLoaderOptions(powertype.WithFileSystem(testsupport.FixturesFS())))

	set, err := l.Load(testsupport.Context(), powertype.SourceFromFS(testsupport.FixturePowerTypesPath))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("expected 3 power types, got %d", set.Len())
	}

	if _, err := New(powertype.LoaderOptions{}).Load(testsupport.Context(), powertype.SourceFromFS("x.json")); err == nil {
		t.Fatalf("expected error without a file system")
	}

	mapFS := fstest.MapFS{"bad.json": {Data: []byte(`[{"name": "a", "fields": "nope"}]`)}}
	if _, err := New(powertype.LoaderOptions{FileSystem: mapFS}).Load(testsupport.Context(), powertype.SourceFromFS("bad.json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoader_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept"), "application/json") {
			t.Errorf("unexpected accept header %q", r.Header.Get("Accept"))
		}
		switch r.URL.Path {
		case "/power-types/":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(manualDoc))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	l := New(powertype.NewLoaderOptions(powertype.WithHTTPClient(server.Client())))

	set, err := l.Load(testsupport.Context(), powertype.SourceFromURL(server.URL+"/power-types/"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("expected 1 power type, got %d", set.Len())
	}

	if _, err := l.Load(testsupport.Context(), powertype.SourceFromURL(server.URL+"/missing")); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestLoader_HTTPDisabledByDefault(t *testing.T) {
	_, err := New(powertype.LoaderOptions{}).Load(testsupport.Context(), powertype.SourceFromURL("http://127.0.0.1:1/power-types/"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected disabled http error, got %v", err)
	}
}

func TestLoader_HTTPTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	l := New(powertype.NewLoaderOptions(powertype.WithHTTPFallback(50 * time.Millisecond)))
	if _, err := l.Load(testsupport.Context(), powertype.SourceFromURL(server.URL)); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(testsupport.Context())
	cancel()
	l := New(powertype.NewLoaderOptions(powertype.WithFileSystem(testsupport.FixturesFS())))
	if _, err := l.Load(ctx, powertype.SourceFromFS(testsupport.FixturePowerTypesPath)); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
	if _, err := l.Load(testsupport.Context(), nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}
