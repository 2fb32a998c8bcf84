package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ai-creative-studio/studio-backend/internal/storage"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

type HealthHandler struct {
	serviceName string
	version     string
	store       storage.Store
}

func NewHealthHandler(serviceName, version string, store storage.Store) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		store:       store,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	if h.store != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if !h.store.HealthCheck(pingCtx) {
			status = "unhealthy"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
