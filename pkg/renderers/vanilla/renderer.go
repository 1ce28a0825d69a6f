// Package vanilla renders the prediction form as a plain HTML page backed by
// pongo2 templates.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-predictform/pkg/form"
	"github.com/goliatone/go-predictform/pkg/render"
	rendertemplate "github.com/goliatone/go-predictform/pkg/render/template"
	gotemplate "github.com/goliatone/go-predictform/pkg/render/template/gotemplate"
)

const (
	// Name identifies the renderer in a render.Registry.
	Name = "html"

	formTemplate = "templates/form.tmpl"
	defaultTitle = "Prediction Form"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	defaultStyles    bool
	stylesheet       string
	notice           string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must contain templates/form.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithDefaultStyles inlines the embedded stylesheet into the page.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.defaultStyles = true
	}
}

// WithStylesheet links an external stylesheet.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = strings.TrimSpace(href)
	}
}

// WithNotice shows operator-supplied markup above the form. It is sanitised
// once at construction; only basic formatting and links survive.
func WithNotice(markup string) Option {
	return func(cfg *config) {
		cfg.notice = markup
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	inlineCSS  string
	stylesheet string
	notice     string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates:  renderer,
		stylesheet: cfg.stylesheet,
		notice:     render.SanitizeNotice(cfg.notice),
	}
	if cfg.defaultStyles {
		r.inlineCSS = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the full page. Every view string, including prediction
// text and the error message, is escaped by the template engine and shown
// literally.
func (r *Renderer) Render(_ context.Context, view form.View, options render.Options) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	title := strings.TrimSpace(options.Title)
	if title == "" {
		title = defaultTitle
	}

	data := map[string]any{
		"view":          view,
		"notice":        r.notice,
		"title":         title,
		"action":        options.Action,
		"stylesheet":    r.stylesheet,
		"inline_styles": r.inlineCSS,
		"theme_style":   render.CSSVarsStyle(options.Theme),
		"theme":         themeContext(options),
	}

	result, err := r.templates.RenderTemplate(formTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func themeContext(options render.Options) map[string]any {
	if options.Theme == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":    options.Theme.Theme,
		"variant": options.Theme.Variant,
	}
}
