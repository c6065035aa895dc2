package render

import (
	"strings"

	"github.com/goliatone/go-powerform/pkg/fields"
)

// ErrorMapping splits a server error payload into control-level and
// form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises form-level error slices,
// trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload assigns server error messages to the controls of view.
// Keys may be full control paths ("power_parameters.power_address"), bare
// parameter names ("power_address"), or JSON pointer style paths. Keys that
// match no control become form-level errors so messages are not lost.
func MapErrorPayload(view fields.View, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		return mapping
	}

	paths := controlPaths(view)
	for rawKey, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		path, ok := resolveErrorPath(rawKey, paths)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[path] = append(mapping.Fields[path], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// controlPaths indexes every addressable path of the view, including the
// bare parameter names, onto the control path.
func controlPaths(view fields.View) map[string]string {
	paths := make(map[string]string, len(view.Controls)*2+1)
	if view.Select != nil && view.Select.Name != "" {
		paths[view.Select.Name] = view.Select.Name
	}
	for _, control := range view.Controls {
		paths[control.Name] = control.Name
		if _, taken := paths[control.Field]; !taken {
			paths[control.Field] = control.Name
		}
	}
	return paths
}

func resolveErrorPath(raw string, paths map[string]string) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := dropWrapperSegments(parsePathSegments(raw))
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if path, ok := paths[candidate]; ok {
			return path, true
		}
	}
	// a trailing parameter name is enough, e.g. "/machine/power_address"
	if len(segments) > 0 {
		if path, ok := paths[segments[len(segments)-1]]; ok {
			return path, true
		}
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	for len(segments) > 0 {
		switch strings.ToLower(segments[0]) {
		case "body", "request", "payload", "data":
			segments = segments[1:]
			continue
		}
		break
	}
	return segments
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
