package unit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpapi "github.com/ai-creative-studio/studio-backend/internal/api/http"
	"github.com/ai-creative-studio/studio-backend/internal/storage/memory"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := httpapi.NewHealthHandler("test-service", "1.0.0", memory.New())
	handler.RegisterRoutes(router)

	req, err := http.NewRequest("GET", "/api/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusOK)
	}

	var response httpapi.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Errorf("failed to unmarshal response: %v", err)
	}

	if response.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %s", response.Status)
	}

	if response.Service != "test-service" {
		t.Errorf("expected service 'test-service', got %s", response.Service)
	}

	if response.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %s", response.Version)
	}
}

func TestHealthCheckLivenessAlias(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := httpapi.NewHealthHandler("test-service", "1.0.0", memory.New())
	handler.RegisterRoutes(router)

	req, err := http.NewRequest("GET", "/healthz", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v",
			rr.Code, http.StatusOK)
	}
}

type downStore struct {
	*memory.Store
}

func (d downStore) HealthCheck(ctx context.Context) bool { return false }

func TestHealthCheckUnreachableStore(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := httpapi.NewHealthHandler("test-service", "1.0.0", downStore{memory.New()})
	handler.RegisterRoutes(router)

	req, err := http.NewRequest("GET", "/api/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var response httpapi.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Errorf("failed to unmarshal response: %v", err)
	}

	if response.Status != "unhealthy" {
		t.Errorf("expected status 'unhealthy', got %s", response.Status)
	}
}
