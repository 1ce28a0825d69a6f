package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-predictform/pkg/form"
	"github.com/goliatone/go-predictform/pkg/predict"
	"github.com/goliatone/go-predictform/pkg/predicttest"
)

type stubDriver struct {
	inputs       []string
	confirm      []bool
	inputErr     error
	prompts      []InputConfig
	infoMessages []string
	inputPos     int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg)
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type predictFunc func(context.Context, predict.FormState) (predict.Result, error)

func (f predictFunc) Predict(ctx context.Context, state predict.FormState) (predict.Result, error) {
	return f(ctx, state)
}

func newController(t *testing.T, fn predictFunc) *form.Controller {
	t.Helper()
	c, err := form.New(fn)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func TestCollect_PromptsEveryFieldInOrder(t *testing.T) {
	driver := &stubDriver{inputs: []string{"1000", "V-77", "4500012345", "M-1", "MG", "P01"}}
	c := newController(t, func(context.Context, predict.FormState) (predict.Result, error) {
		return predict.Result{}, nil
	})

	if err := Collect(context.Background(), driver, c); err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := predict.FormState{Company: "1000", Vendor: "V-77", PO: "4500012345", Material: "M-1", MatGroup: "MG", Plant: "P01"}
	if diff := cmp.Diff(want, c.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	var messages []string
	for _, p := range driver.prompts {
		if !p.Required {
			t.Fatalf("expected %q to be required", p.Message)
		}
		messages = append(messages, p.Message)
	}
	wantMessages := []string{
		"Company Code (Company)",
		"Vendor Code (Vendor)",
		"Purchase Order Number (PO)",
		"Material Code",
		"Mat Group",
		"Plant Code",
	}
	if diff := cmp.Diff(wantMessages, messages); diff != "" {
		t.Fatalf("prompt messages mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_OffersCurrentValuesAsDefaults(t *testing.T) {
	driver := &stubDriver{inputs: []string{"2000", "", "", "", "", ""}}
	c, err := form.New(predictFunc(func(context.Context, predict.FormState) (predict.Result, error) {
		return predict.Result{}, nil
	}), form.WithInitialValues(predict.FormState{Company: "1000"}))
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	if err := Collect(context.Background(), driver, c); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if driver.prompts[0].Default != "1000" || driver.prompts[0].Message != "Company Code" {
		t.Fatalf("unexpected first prompt %+v", driver.prompts[0])
	}
	if c.Values().Company != "2000" {
		t.Fatalf("expected answer applied, got %q", c.Values().Company)
	}
}

func TestCollect_Aborted(t *testing.T) {
	driver := &stubDriver{inputErr: ErrAborted}
	c := newController(t, func(context.Context, predict.FormState) (predict.Result, error) {
		t.Fatalf("predict should not be called")
		return predict.Result{}, nil
	})

	if err := NewSession(driver, nil).Run(context.Background(), c); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if err := Collect(context.Background(), nil, c); !errors.Is(err, ErrNoDriver) {
		t.Fatalf("expected ErrNoDriver, got %v", err)
	}
}

func TestSession_RunPrintsOutcomesUntilDeclined(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{
			"1000", "V-77", "PO-1", "M-1", "MG", "P01",
			"1000", "V-77", "PO-2", "M-1", "MG", "P01",
		},
		confirm: []bool{true, false},
	}

	calls := 0
	c := newController(t, func(_ context.Context, state predict.FormState) (predict.Result, error) {
		calls++
		if calls == 1 {
			return predicttest.SampleResult(), nil
		}
		return predict.Result{}, &predict.FetchError{Kind: predict.KindResponse, Status: 503}
	})

	if err := NewSession(driver, New()).Run(context.Background(), c); err != nil {
		t.Fatalf("run: %v", err)
	}

	if calls != 2 {
		t.Fatalf("expected 2 submissions, got %d", calls)
	}
	if len(driver.infoMessages) != 2 {
		t.Fatalf("expected 2 printed outcomes, got %d", len(driver.infoMessages))
	}
	if !strings.Contains(driver.infoMessages[0], "bob@example.com: 9.13%") {
		t.Fatalf("expected success output, got:\n%s", driver.infoMessages[0])
	}
	if !strings.Contains(driver.infoMessages[1], "Error: Failed to fetch predictions") {
		t.Fatalf("expected failure output, got:\n%s", driver.infoMessages[1])
	}
	if strings.Contains(driver.infoMessages[1], "Predictions") {
		t.Fatalf("failure output should not repeat the stale prediction")
	}
}
