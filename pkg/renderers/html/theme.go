package html

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

type themeContext struct {
	Name    string
	Variant string
	Style   string
}

func (t themeContext) data() map[string]any {
	return map[string]any{
		"name":    t.Name,
		"variant": t.Variant,
		"style":   t.Style,
	}
}

func resolveTheme(selector theme.ThemeSelector, name, variant string) (themeContext, error) {
	if selector == nil {
		return themeContext{}, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return themeContext{}, fmt.Errorf("html renderer: select theme %q: %w", name, err)
	}
	if selection == nil {
		return themeContext{}, nil
	}
	ctx := themeContext{
		Name:    selection.Theme,
		Variant: selection.Variant,
	}
	if selection.Manifest != nil {
		ctx.Style = cssVarsStyle(selection.Manifest.Tokens)
	}
	return ctx, nil
}

// cssVarsStyle renders manifest tokens as custom properties in key order.
func cssVarsStyle(tokens map[string]string) string {
	if len(tokens) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tokens))
	for key := range tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		value := strings.TrimSpace(tokens[key])
		if value == "" {
			continue
		}
		name := strings.TrimSpace(key)
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte(';')
	}
	return b.String()
}
