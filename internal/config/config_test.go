package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-predictform/pkg/predict"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "predictform.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Predictor.Endpoint != predict.DefaultEndpoint {
		t.Fatalf("unexpected endpoint %q", cfg.Predictor.Endpoint)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
predictor:
  endpoint: https://ml.internal/predict_Email
  timeout: 5s
server:
  addr: ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Predictor.Endpoint != "https://ml.internal/predict_Email" {
		t.Fatalf("unexpected endpoint %q", cfg.Predictor.Endpoint)
	}
	if cfg.GetTimeout() != 5*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.GetTimeout())
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Server.CookieName != "predictform_session" || cfg.Server.MaxSessions != 1000 {
		t.Fatalf("expected server defaults, got %+v", cfg.Server)
	}
	if cfg.GetSessionTTL() != 30*time.Minute {
		t.Fatalf("unexpected session ttl %s", cfg.GetSessionTTL())
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Fatalf("expected log defaults, got %+v", cfg.Log)
	}
	if !cfg.Predictor.ValidateContract {
		t.Fatalf("expected contract validation on by default")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("PREDICTFORM_ENDPOINT", "http://override:5000/predict_Email")
	path := writeConfig(t, "predictor:\n  endpoint: http://file:5000/predict_Email\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Predictor.Endpoint != "http://override:5000/predict_Email" {
		t.Fatalf("expected env override, got %q", cfg.Predictor.Endpoint)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"relative endpoint": "predictor:\n  endpoint: /predict\n",
		"bad timeout":       "predictor:\n  timeout: soon\n",
		"negative ttl":      "server:\n  session_ttl: -1m\n",
		"bad log format":    "log:\n  format: xml\n",
		"unknown variant":   "theme:\n  variant: dark\n",
		"malformed yaml":    "predictor: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			} else if !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("expected config prefix, got %v", err)
			}
		})
	}
}

func TestManifest_BuildsThemeFromTokens(t *testing.T) {
	path := writeConfig(t, `
theme:
  name: acme
  variant: dark
  tokens:
    color-primary: "#111111"
  variants:
    dark:
      color-primary: "#eeeeee"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	manifest := cfg.Manifest()
	if manifest == nil {
		t.Fatalf("expected manifest")
	}
	if manifest.Name != "acme" || manifest.Tokens["color-primary"] != "#111111" {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
	if manifest.Variants["dark"].Tokens["color-primary"] != "#eeeeee" {
		t.Fatalf("unexpected variant tokens %+v", manifest.Variants["dark"])
	}

	if DefaultConfig().Manifest() != nil {
		t.Fatalf("expected no manifest without tokens")
	}
}

func TestSave_RoundTrips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Addr = ":7070"
	path := filepath.Join(t.TempDir(), "nested", "predictform.yaml")

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
