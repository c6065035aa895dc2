package render

// RenderOptions describe per-request data renderers can use to customise
// their output without touching the view.
type RenderOptions struct {
	// ThemeName and ThemeVariant pick a theme when the renderer has a theme
	// selector configured. Empty values defer to the selector defaults.
	ThemeName    string
	ThemeVariant string
	// Errors surfaces server-side validation feedback keyed by control path
	// (see MapErrorPayload).
	Errors map[string][]string
	// FormErrors carries messages that do not belong to a single control.
	FormErrors []string
}
