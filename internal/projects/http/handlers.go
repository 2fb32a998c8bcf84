// Package http exposes project and chat-message CRUD over the Store.
package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

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
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/messages", h.listMessages)
	rg.POST("/:id/messages", h.createMessage)
}

type createProjectReq struct {
	Title      string          `json:"title" binding:"required"`
	Content    string          `json:"content" binding:"required"`
	StudioType string          `json:"studioType" binding:"required"`
	UserID     *int            `json:"userId"`
	TokensUsed int             `json:"tokensUsed"`
	Metadata   json.RawMessage `json:"metadata"`
}

type updateProjectReq struct {
	Title      *string         `json:"title"`
	Content    *string         `json:"content"`
	StudioType *string         `json:"studioType"`
	TokensUsed *int            `json:"tokensUsed"`
	Metadata   json.RawMessage `json:"metadata"`
}

type createMessageReq struct {
	Content string `json:"content" binding:"required"`
	Sender  string `json:"sender" binding:"required"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// bindingErrors flattens validator output into the itemized errors array the
// client renders next to form fields.
func bindingErrors(err error) []fieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fieldError{Field: fe.Field(), Message: fe.Field() + " failed on " + fe.Tag()})
		}
		return out
	}
	return []fieldError{{Field: "", Message: err.Error()}}
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.store.ListProjectsByUser(c.Request.Context(), DemoUserID)
	if err != nil {
		log.Printf("[error] operation=list_projects error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch projects"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c *gin.Context) {
	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project data", "errors": bindingErrors(err)})
		return
	}

	// Requests are always scoped to the demo user regardless of the body.
	userID := DemoUserID
	p, err := h.store.CreateProject(c.Request.Context(), domain.InsertProject{
		Title:      req.Title,
		Content:    req.Content,
		StudioType: domain.StudioType(req.StudioType),
		UserID:     &userID,
		TokensUsed: req.TokensUsed,
		Metadata:   req.Metadata,
	})
	if err != nil {
		log.Printf("[error] operation=create_project error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.store.GetProject(c.Request.Context(), id)
	if errors.Is(err, domain.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		return
	}
	if err != nil {
		log.Printf("[error] operation=get_project id=%d error=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch project"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid update data", "errors": bindingErrors(err)})
		return
	}

	upd := domain.ProjectUpdate{
		Title:      req.Title,
		Content:    req.Content,
		TokensUsed: req.TokensUsed,
		Metadata:   req.Metadata,
	}
	if req.StudioType != nil {
		st := domain.StudioType(*req.StudioType)
		upd.StudioType = &st
	}

	p, err := h.store.UpdateProject(c.Request.Context(), id, upd)
	if errors.Is(err, domain.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		return
	}
	if err != nil {
		log.Printf("[error] operation=update_project id=%d error=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update project"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteProject(c.Request.Context(), id)
	if err != nil {
		log.Printf("[error] operation=delete_project id=%d error=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete project"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *Handler) listMessages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	// No existence check: an unknown project simply has no messages.
	items, err := h.store.ListChatMessages(c.Request.Context(), id)
	if err != nil {
		log.Printf("[error] operation=list_messages project_id=%d error=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch messages"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) createMessage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req createMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid message data", "errors": bindingErrors(err)})
		return
	}

	m, err := h.store.CreateChatMessage(c.Request.Context(), domain.InsertChatMessage{
		ProjectID: &id,
		Content:   req.Content,
		Sender:    req.Sender,
	})
	if err != nil {
		log.Printf("[error] operation=create_message project_id=%d error=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create message"})
		return
	}
	c.JSON(http.StatusCreated, m)
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		return 0, false
	}
	return id, true
}
