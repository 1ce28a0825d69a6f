package render

import theme "github.com/goliatone/go-theme"

// Options carry per-request data renderers use without touching the view.
type Options struct {
	// Action is the URL the HTML form posts back to. Empty posts to the
	// current URL.
	Action string
	// Title overrides the document title.
	Title string
	// Theme exposes resolved theme tokens; renderers that support styling
	// emit them as CSS custom properties.
	Theme *theme.RendererConfig
}
