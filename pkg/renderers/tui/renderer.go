// Package tui renders the prediction form for terminals and drives
// interactive sessions through survey prompts.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-predictform/pkg/form"
	"github.com/goliatone/go-predictform/pkg/render"
)

// Renderer implements render.Renderer for terminal output, either as a text
// summary or as JSON.
type Renderer struct {
	outputFormat OutputFormat
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a renderer with text output by default.
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatPrettyText,
		theme:        Theme{ErrorPrefix: "Error: "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the registry name, which matches the output format.
func (r *Renderer) Name() string {
	return string(r.outputFormat)
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, view form.View, _ render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch r.outputFormat {
	case OutputFormatJSON:
		return r.renderJSON(view)
	case OutputFormatPrettyText:
		return []byte(r.renderText(view)), nil
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
}

// jsonDocument is the machine-readable rendition. Values are keyed by field
// name so the payload mirrors the request body.
type jsonDocument struct {
	Values     map[string]string    `json:"values"`
	Error      string               `json:"error,omitempty"`
	Prediction *form.PredictionView `json:"prediction,omitempty"`
}

func (r *Renderer) renderJSON(view form.View) ([]byte, error) {
	doc := jsonDocument{
		Values:     make(map[string]string, len(view.Fields)),
		Error:      view.Error,
		Prediction: view.Prediction,
	}
	for _, field := range view.Fields {
		doc.Values[field.Name] = field.Value
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode json: %w", err)
	}
	return append(out, '\n'), nil
}

func (r *Renderer) renderText(view form.View) string {
	var b strings.Builder
	width := 0
	for _, field := range view.Fields {
		width = max(width, len(field.Label))
	}
	for _, field := range view.Fields {
		fmt.Fprintf(&b, "%s%-*s  %s\n", r.theme.InfoPrefix, width+1, field.Label+":", field.Value)
	}

	if view.Error != "" {
		fmt.Fprintf(&b, "\n%s%s\n", r.theme.ErrorPrefix, view.Error)
	}

	if p := view.Prediction; p != nil {
		b.WriteString("\nPredictions\n")
		fmt.Fprintf(&b, "  Email: %s\n", p.Email)
		fmt.Fprintf(&b, "  Name: %s\n", p.Name)
		b.WriteString("\nDetailed Scores\n")
		writeList(&b, "Email Scores", p.EmailScores)
		writeList(&b, "Name Scores", p.NameScores)
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, lines []string) {
	fmt.Fprintf(b, "  %s\n", title)
	for _, line := range lines {
		fmt.Fprintf(b, "    %s\n", line)
	}
}
