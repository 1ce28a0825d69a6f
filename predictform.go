// Package predictform is the top-level entry point: it re-exports the form
// model types and wires the prediction client, form controller and renderers
// together for callers that do not need the individual packages.
package predictform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-predictform/pkg/contract"
	"github.com/goliatone/go-predictform/pkg/form"
	"github.com/goliatone/go-predictform/pkg/predict"
	"github.com/goliatone/go-predictform/pkg/render"
	"github.com/goliatone/go-predictform/pkg/renderers/tui"
	"github.com/goliatone/go-predictform/pkg/renderers/vanilla"
)

// FormState is the six-field payload submitted for prediction.
type FormState = predict.FormState

// Result is a decoded prediction.
type Result = predict.Result

// View is the render model shared by every renderer.
type View = form.View

// RenderOptions are per-request renderer settings.
type RenderOptions = render.Options

// Renderer names registered by NewRegistry.
const (
	RendererHTML = vanilla.Name
	RendererText = string(tui.OutputFormatPrettyText)
	RendererJSON = string(tui.OutputFormatJSON)
)

// NewClient exposes the prediction client constructor.
func NewClient(options ...predict.OptionFn) *predict.Client {
	return predict.NewClient(options...)
}

// NewController builds a form controller backed by predictor.
func NewController(predictor predict.Predictor, options ...form.OptionFn) (*form.Controller, error) {
	return form.New(predictor, options...)
}

// WithContractValidation loads the embedded service description and returns
// a client option that validates request and response bodies against it.
func WithContractValidation(ctx context.Context) (predict.OptionFn, error) {
	c, err := contract.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("predictform: load contract: %w", err)
	}
	return predict.WithValidator(c), nil
}

// NewRegistry registers the built-in html, text and json renderers.
func NewRegistry(htmlOptions ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(htmlOptions...)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(
		html,
		tui.New(tui.WithOutputFormat(tui.OutputFormatPrettyText)),
		tui.New(tui.WithOutputFormat(tui.OutputFormatJSON)),
	)
}

// Predict submits state once and renders the outcome with the named
// renderer. The returned error is the prediction failure, if any; the
// rendered output always describes the outcome.
func Predict(ctx context.Context, predictor predict.Predictor, state FormState, rendererName string) ([]byte, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	controller, err := form.New(predictor, form.WithInitialValues(state))
	if err != nil {
		return nil, err
	}

	snap, submitErr := controller.Submit(ctx)
	out, _, err := registry.Render(ctx, rendererName, form.NewView(snap), RenderOptions{})
	if err != nil {
		return nil, err
	}
	return out, submitErr
}
