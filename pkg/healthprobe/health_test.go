package healthprobe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	hc := New()

	if hc == nil {
		t.Fatal("New() returned nil")
	}

	if time.Since(hc.startTime) > 1*time.Second {
		t.Errorf("Start time is too old: %v", hc.startTime)
	}

	if hc.ready.Load() {
		t.Error("HealthChecker should not be ready by default")
	}
}

func TestHealth_AlwaysOK(t *testing.T) {
	hc := New()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	hc.Health()(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %s", resp.Status)
	}
}

func TestReady_ReflectsReadiness(t *testing.T) {
	hc := New()

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	hc.Ready()(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before ready, got %d", rec.Code)
	}

	hc.SetReady(true)
	rec = httptest.NewRecorder()
	hc.Ready()(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 after ready, got %d", rec.Code)
	}

	hc.SetReady(false)
	rec = httptest.NewRecorder()
	hc.Ready()(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 after unready, got %d", rec.Code)
	}
}
