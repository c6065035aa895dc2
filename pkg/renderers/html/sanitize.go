package html

import (
	stdhtml "html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// plainText strips markup from server-supplied labels. Templates escape the
// result again on output.
func plainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	cleaned := textPolicy.Sanitize(trimmed)
	// StrictPolicy escapes what it keeps; undo that so pongo2 does not
	// double-escape.
	return strings.TrimSpace(stdhtml.UnescapeString(cleaned))
}

func controlID(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return "pf-" + strings.NewReplacer(".", "-", " ", "-").Replace(trimmed)
}
