package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-predictform/pkg/form"
	"github.com/goliatone/go-predictform/pkg/predict"
	"github.com/goliatone/go-predictform/pkg/render"
)

// Form is the part of form.Controller a session drives.
type Form interface {
	Values() predict.FormState
	UpdateField(field predict.Field, value string) error
	Submit(ctx context.Context) (form.Snapshot, error)
}

// Collect prompts for every field in declaration order, offering the current
// value as default, and applies each answer to f.
func Collect(ctx context.Context, driver PromptDriver, f Form) error {
	if driver == nil {
		return ErrNoDriver
	}
	current := f.Values()
	for _, field := range predict.Fields() {
		message := field.Label()
		if placeholder := field.Placeholder(); placeholder != "" && current.Get(field) == "" {
			message = fmt.Sprintf("%s (%s)", message, placeholder)
		}
		answer, err := driver.Input(ctx, InputConfig{
			Message:  message,
			Default:  current.Get(field),
			Required: true,
		})
		if err != nil {
			return err
		}
		if err := f.UpdateField(field, strings.TrimRight(answer, "\r\n")); err != nil {
			return err
		}
	}
	return nil
}

// Session runs the interactive ask/submit loop.
type Session struct {
	driver   PromptDriver
	renderer render.Renderer
}

// NewSession pairs a prompt driver with the renderer used to print results.
// A nil renderer falls back to the text renderer.
func NewSession(driver PromptDriver, renderer render.Renderer) *Session {
	if renderer == nil {
		renderer = New()
	}
	return &Session{driver: driver, renderer: renderer}
}

// Run collects the fields, submits, prints the outcome and offers to go
// again until the user declines. Failed submissions are printed, not
// returned; only prompt and render errors end the loop early.
func (s *Session) Run(ctx context.Context, f Form) error {
	if s.driver == nil {
		return ErrNoDriver
	}
	for {
		if err := Collect(ctx, s.driver, f); err != nil {
			return err
		}

		// A failed prediction is carried by the snapshot.
		snap, _ := f.Submit(ctx)

		out, err := s.renderer.Render(ctx, form.NewView(snap), render.Options{})
		if err != nil {
			return err
		}
		if err := s.driver.Info(ctx, strings.TrimRight(string(out), "\n")); err != nil {
			return err
		}

		again, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: "Submit another prediction?",
			Default: true,
		})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}
