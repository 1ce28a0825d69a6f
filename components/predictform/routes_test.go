package predictform

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/tools"); got != "/tools" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("tools", WithRoutePath("predict")); got != "/tools/predict" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/tools/", WithRoutePath("/email")); got != "/tools/email" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath(""); got != "/" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestRegisterRoutes_RegistersHandler(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := RegisterRoutes(mux, "/tools", WithRoutePath("/predict"), WithPredictor(echoPredictor()))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pattern != "/tools/predict" {
		t.Fatalf("unexpected registered pattern: %q", pattern)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, pattern, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRegisterRoutes_RootMatchesExactly(t *testing.T) {
	mux := http.NewServeMux()
	c := New(WithPredictor(echoPredictor()))
	pattern, err := c.RegisterRoutes(mux, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pattern != "/{$}" {
		t.Fatalf("unexpected registered pattern: %q", pattern)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected unrelated path to 404, got %d", rec.Code)
	}
}

func TestRegisterRoutes_MissingMux(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/tools"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
