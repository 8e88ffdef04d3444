package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func setupHealthRouter(p pingFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHealthHandler(p, "sqlite", time.Now().Add(-time.Minute), "1.2.3").RegisterRoutes(r)
	return r
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("failed to decode body %s: %v", body, err)
	}
	return out
}

func TestHealth_ReportsVersionAndUptime(t *testing.T) {
	r := setupHealthRouter(func(context.Context) error { return nil })

	w := get(t, r, "/health")
	expectStatus(t, w, http.StatusOK)

	body := decode(t, w.Body.Bytes())
	if body["status"] != "ok" || body["version"] != "1.2.3" {
		t.Fatalf("unexpected body: %v", body)
	}
	if uptime, _ := body["uptime"].(float64); uptime < 60 {
		t.Fatalf("expected uptime of at least 60s, got %v", body["uptime"])
	}
}

func TestReady_StoreUp(t *testing.T) {
	r := setupHealthRouter(func(context.Context) error { return nil })

	w := get(t, r, "/ready")
	expectStatus(t, w, http.StatusOK)

	store, _ := decode(t, w.Body.Bytes())["store"].(map[string]any)
	if store["driver"] != "sqlite" || store["status"] != "up" {
		t.Fatalf("unexpected store block: %v", store)
	}
}

func TestReady_StoreDown(t *testing.T) {
	r := setupHealthRouter(func(context.Context) error { return errStoreDown })

	w := get(t, r, "/ready")
	expectStatus(t, w, http.StatusServiceUnavailable)

	body := decode(t, w.Body.Bytes())
	if body["status"] != "unhealthy" {
		t.Fatalf("expected unhealthy status, got %v", body["status"])
	}
	store, _ := body["store"].(map[string]any)
	if store["status"] != "down" || store["error"] != errStoreDown.Error() {
		t.Fatalf("unexpected store block: %v", store)
	}
}
