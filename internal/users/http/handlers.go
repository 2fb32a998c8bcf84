// Package http exposes the per-user API key operations. The key is stored as
// an opaque string; validity means presence, nothing more.
package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ai-creative-studio/studio-backend/internal/storage"
	"github.com/ai-creative-studio/studio-backend/internal/studio/domain"
)

// DemoUserID scopes every request until real authentication lands.
const DemoUserID = 1

type Handler struct {
	store storage.Store
}

func New(store storage.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.PUT("/api-key", h.setAPIKey)
	rg.GET("/api-key/validate", h.validateAPIKey)
}

type setKeyReq struct {
	APIKey string `json:"apiKey"`
}

func (h *Handler) setAPIKey(c *gin.Context) {
	var req setKeyReq
	if err := c.ShouldBindJSON(&req); err != nil || req.APIKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "API key is required"})
		return
	}

	_, err := h.store.UpdateUserAPIKey(c.Request.Context(), DemoUserID, req.APIKey)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		log.Printf("[error] operation=set_api_key error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update API key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "API key updated successfully", "valid": true})
}

func (h *Handler) validateAPIKey(c *gin.Context) {
	u, err := h.store.GetUser(c.Request.Context(), DemoUserID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		log.Printf("[error] operation=validate_api_key error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to validate API key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": u.HasValidAPIKey()})
}
