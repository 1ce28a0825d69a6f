package tui

// OutputFormat controls how a view is serialised.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "text"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(value string) (OutputFormat, bool) {
	switch OutputFormat(value) {
	case OutputFormatJSON:
		return OutputFormatJSON, true
	case OutputFormatPrettyText, "pretty", "":
		return OutputFormatPrettyText, true
	default:
		return "", false
	}
}

// Theme captures optional prefixes applied to printed lines.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the renderer.
type Option func(*Renderer)

// WithOutputFormat selects the output serialisation format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
