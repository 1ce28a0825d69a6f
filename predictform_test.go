package predictform

import (
	"context"
	"io/fs"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-predictform/pkg/predict"
	"github.com/goliatone/go-predictform/pkg/predicttest"
	"github.com/goliatone/go-predictform/pkg/renderers/vanilla"
)

func TestNewRegistry_RegistersBuiltins(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if diff := cmp.Diff([]string{"html", "json", "text"}, registry.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
}

func TestPredict_RendersTextWithContractValidation(t *testing.T) {
	server := predicttest.NewServer(t, predicttest.OK(predicttest.SampleResult()))

	validate, err := WithContractValidation(context.Background())
	if err != nil {
		t.Fatalf("contract: %v", err)
	}
	client := NewClient(predict.WithEndpoint(server.Endpoint()), validate)

	out, err := Predict(context.Background(), client, FormState{Company: "1000", Vendor: "V-77"}, RendererText)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !strings.Contains(string(out), "bob@example.com: 9.13%") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestPredict_ReturnsFailureAlongsideOutput(t *testing.T) {
	server := predicttest.NewServer(t, predicttest.Status(http.StatusBadGateway))
	client := NewClient(predict.WithEndpoint(server.Endpoint()))

	out, err := Predict(context.Background(), client, FormState{}, RendererJSON)
	if !predict.IsKind(err, predict.KindResponse) {
		t.Fatalf("expected response failure, got %v", err)
	}
	if !strings.Contains(string(out), `"error": "Failed to fetch predictions"`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

type predictFunc func(context.Context, predict.FormState) (predict.Result, error)

func (f predictFunc) Predict(ctx context.Context, state predict.FormState) (predict.Result, error) {
	return f(ctx, state)
}

func TestPredict_UnknownRenderer(t *testing.T) {
	stub := predictFunc(func(context.Context, predict.FormState) (predict.Result, error) {
		return predicttest.SampleResult(), nil
	})
	if _, err := Predict(context.Background(), stub, FormState{}, "pdf"); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

func TestEmbeddedAssets(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("read template: %v", err)
	}
	if _, err := fs.ReadFile(AssetsFS(), vanilla.StylesheetName); err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
}
