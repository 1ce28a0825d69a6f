package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/goliatone/go-predictform/internal/config"
	"github.com/goliatone/go-predictform/pkg/predicttest"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSubmit_JSONOutput(t *testing.T) {
	server := predicttest.NewServer(t, predicttest.OK(predicttest.SampleResult()))

	out, err := execute(t, "submit",
		"--endpoint", server.Endpoint(),
		"--company", "1000", "--vendor", "V-77", "--po", "4500012345",
		"--material", "M-1", "--matgroup", "MG", "--plant", "P01",
		"--format", "json",
	)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	var doc struct {
		Values     map[string]string `json:"values"`
		Prediction struct {
			Email       string   `json:"email"`
			EmailScores []string `json:"email_scores"`
		} `json:"prediction"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if doc.Values["PO"] != "4500012345" || doc.Prediction.Email != "alice@example.com" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if len(doc.Prediction.EmailScores) != 3 {
		t.Fatalf("expected top 3 email scores, got %v", doc.Prediction.EmailScores)
	}

	requests := server.Requests()
	if len(requests) != 1 || requests[0].Method != http.MethodPost {
		t.Fatalf("unexpected upstream requests %+v", requests)
	}
}

func TestSubmit_FailureReturnsError(t *testing.T) {
	server := predicttest.NewServer(t, predicttest.Status(http.StatusServiceUnavailable))

	out, err := execute(t, "submit", "--endpoint", server.Endpoint(), "--company", "1000")
	if err == nil || err.Error() != "Failed to fetch predictions" {
		t.Fatalf("expected fetch failure, got %v", err)
	}
	if !strings.Contains(out, "Error: Failed to fetch predictions") {
		t.Fatalf("expected the failure to be printed, got:\n%s", out)
	}
}

func TestSubmit_RejectsUnknownFormat(t *testing.T) {
	if _, err := execute(t, "submit", "--format", "yaml"); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestRoot_RejectsInvalidEndpoint(t *testing.T) {
	if _, err := execute(t, "submit", "--endpoint", "not a url"); err == nil {
		t.Fatalf("expected endpoint validation error")
	}
}

func TestServe_MuxRoutes(t *testing.T) {
	upstream := predicttest.NewServer(t, predicttest.OK(predicttest.SampleResult()))

	cfg := config.DefaultConfig()
	cfg.Predictor.Endpoint = upstream.Endpoint()
	cfg.Server.BasePath = "/tools"
	cfg.Theme.Tokens = map[string]string{"color-primary": "#123456"}
	cfg.Server.Notice = `<p>Ask <em>purchasing</em>.</p><script>x()</script>`
	a := &app{cfg: cfg, logger: zaptest.NewLogger(t)}

	mux, err := a.buildMux(context.Background())
	if err != nil {
		t.Fatalf("build mux: %v", err)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	for _, tc := range []struct {
		path string
		want string
	}{
		{"/healthz", "ok"},
		{"/tools", "prediction form"},
		{"/tools", "--color-primary: #123456;"},
		{"/tools", `href="/tools/assets/predictform.css"`},
		{"/tools", `<div class="predictform-notice"><p>Ask <em>purchasing</em>.</p></div>`},
		{"/tools/assets/predictform.css", ".predictform"},
	} {
		res, err := http.Get(srv.URL + tc.path)
		if err != nil {
			t.Fatalf("GET %s: %v", tc.path, err)
		}
		body, _ := io.ReadAll(res.Body)
		_ = res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", tc.path, res.StatusCode)
		}
		if !strings.Contains(string(body), tc.want) {
			t.Fatalf("GET %s: expected %q in body\n%s", tc.path, tc.want, body)
		}
	}
}
