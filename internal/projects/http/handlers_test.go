package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-creative-studio/studio-backend/internal/storage/memory"
	"github.com/ai-creative-studio/studio-backend/internal/studio/domain"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(memory.New()).Register(r.Group("/api/projects"))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func createProject(t *testing.T, r *gin.Engine, title string) domain.Project {
	t.Helper()
	rr := do(t, r, http.MethodPost, "/api/projects", gin.H{
		"title":      title,
		"content":    "draft",
		"studioType": "text",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var p domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func TestCreateProject(t *testing.T) {
	r := newTestRouter()

	p := createProject(t, r, "First draft")
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "First draft", p.Title)
	require.NotNil(t, p.UserID)
	assert.Equal(t, DemoUserID, *p.UserID)
}

func TestCreateProject_IgnoresBodyUserID(t *testing.T) {
	r := newTestRouter()

	rr := do(t, r, http.MethodPost, "/api/projects", gin.H{
		"title":      "Sneaky",
		"content":    "draft",
		"studioType": "text",
		"userId":     99,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var p domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	require.NotNil(t, p.UserID)
	assert.Equal(t, DemoUserID, *p.UserID)
}

func TestCreateProject_ValidationErrors(t *testing.T) {
	r := newTestRouter()

	rr := do(t, r, http.MethodPost, "/api/projects", gin.H{"title": "No content"})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body struct {
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Invalid project data", body.Message)
	require.Len(t, body.Errors, 2)

	fields := []string{body.Errors[0].Field, body.Errors[1].Field}
	assert.ElementsMatch(t, []string{"Content", "StudioType"}, fields)
}

func TestListProjects(t *testing.T) {
	r := newTestRouter()

	createProject(t, r, "one")
	createProject(t, r, "two")

	rr := do(t, r, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var items []domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 2)
	// Most recently touched first.
	assert.Equal(t, "two", items[0].Title)
	assert.Equal(t, "one", items[1].Title)
}

func TestGetProject(t *testing.T) {
	r := newTestRouter()
	p := createProject(t, r, "readable")

	rr := do(t, r, http.MethodGet, fmt.Sprintf("/api/projects/%d", p.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "readable", got.Title)
}

func TestGetProject_NotFound(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/api/projects/42", "/api/projects/abc"} {
		rr := do(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		assert.JSONEq(t, `{"message": "Project not found"}`, rr.Body.String(), path)
	}
}

func TestUpdateProject_PartialMerge(t *testing.T) {
	r := newTestRouter()
	p := createProject(t, r, "before")

	rr := do(t, r, http.MethodPut, fmt.Sprintf("/api/projects/%d", p.ID), gin.H{
		"title": "after",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var got domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "draft", got.Content)
	assert.Equal(t, domain.StudioText, got.StudioType)
}

func TestUpdateProject_NotFound(t *testing.T) {
	r := newTestRouter()

	rr := do(t, r, http.MethodPut, "/api/projects/42", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteProject(t *testing.T) {
	r := newTestRouter()
	p := createProject(t, r, "short lived")

	rr := do(t, r, http.MethodDelete, fmt.Sprintf("/api/projects/%d", p.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message": "Project deleted successfully"}`, rr.Body.String())

	rr = do(t, r, http.MethodDelete, fmt.Sprintf("/api/projects/%d", p.ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMessages_CreateAndList(t *testing.T) {
	r := newTestRouter()
	p := createProject(t, r, "chatty")
	base := fmt.Sprintf("/api/projects/%d/messages", p.ID)

	rr := do(t, r, http.MethodPost, base, gin.H{"content": "hello", "sender": domain.SenderUser})
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = do(t, r, http.MethodPost, base, gin.H{"content": "hi there", "sender": domain.SenderAI})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, r, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var items []domain.ChatMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "hello", items[0].Content)
	assert.Equal(t, domain.SenderUser, items[0].Sender)
	assert.Equal(t, "hi there", items[1].Content)
	assert.Equal(t, domain.SenderAI, items[1].Sender)
}

func TestMessages_Validation(t *testing.T) {
	r := newTestRouter()
	p := createProject(t, r, "strict")

	rr := do(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/messages", p.ID), gin.H{"content": "no sender"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid message data")
}

func TestMessages_UnknownProjectIsEmpty(t *testing.T) {
	r := newTestRouter()

	rr := do(t, r, http.MethodGet, "/api/projects/999/messages", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}
