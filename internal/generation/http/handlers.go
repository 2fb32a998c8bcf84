// Package http exposes the generation endpoints.
package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ai-creative-studio/studio-backend/internal/generation"
)

type Handler struct {
	svc *generation.Service
}

func New(svc *generation.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/generate", h.generate)
	rg.POST("/generate-simple", h.generateSimple)
}

type generateReq struct {
	Message    string `json:"message"`
	StudioType string `json:"studioType"`
	ProjectID  *int   `json:"projectId"`
}

// streamChunk is one line of the newline-delimited response stream.
type streamChunk struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" || req.StudioType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message and studio type are required"})
		return
	}

	src := h.svc.Stream(req.StudioType)

	c.Header("Content-Type", "text/plain")
	c.Header("Transfer-Encoding", "chunked")
	c.Status(http.StatusOK)

	flusher, canFlush := c.Writer.(http.Flusher)
	enc := json.NewEncoder(c.Writer)
	ctx := c.Request.Context()

	for {
		chunk, done, err := src.Next(ctx)
		if err != nil {
			// client went away mid-stream
			log.Printf("[warn] operation=generate_stream error=%v", err)
			return
		}
		if chunk != "" || done {
			if err := enc.Encode(streamChunk{Content: chunk, Done: done}); err != nil {
				log.Printf("[warn] operation=generate_stream error=%v", err)
				return
			}
			if canFlush {
				flusher.Flush()
			}
		}
		if done {
			return
		}
	}
}

func (h *Handler) generateSimple(c *gin.Context) {
	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" || req.StudioType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message and studio type are required"})
		return
	}

	res := h.svc.Generate(req.StudioType)
	c.JSON(http.StatusOK, res)
}
