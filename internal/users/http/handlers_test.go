package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-creative-studio/studio-backend/internal/storage/memory"
	"github.com/ai-creative-studio/studio-backend/internal/studio/domain"
)

func newTestRouter(store *memory.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(store).Register(r.Group("/api/user"))
	return r
}

func doReq(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestSetAPIKey(t *testing.T) {
	store := memory.New()
	r := newTestRouter(store)

	rr := doReq(t, r, http.MethodPut, "/api/user/api-key", `{"apiKey": "sk-new-key"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message": "API key updated successfully", "valid": true}`, rr.Body.String())

	u, err := store.GetUser(context.Background(), DemoUserID)
	require.NoError(t, err)
	require.NotNil(t, u.APIKey)
	assert.Equal(t, "sk-new-key", *u.APIKey)
}

func TestSetAPIKey_Required(t *testing.T) {
	r := newTestRouter(memory.New())

	for name, body := range map[string]string{
		"empty key":    `{"apiKey": ""}`,
		"missing key":  `{}`,
		"invalid json": `{`,
	} {
		rr := doReq(t, r, http.MethodPut, "/api/user/api-key", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, name)
		assert.JSONEq(t, `{"message": "API key is required"}`, rr.Body.String(), name)
	}
}

func TestValidateAPIKey(t *testing.T) {
	r := newTestRouter(memory.New())

	// The seeded demo user ships with a key.
	rr := doReq(t, r, http.MethodGet, "/api/user/api-key/validate", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"valid": true}`, rr.Body.String())
}

func TestValidateAPIKey_EmptyKeyIsInvalid(t *testing.T) {
	store := memory.New()
	_ = newTestRouter(store)

	// A user created without a key validates false.
	u, err := store.CreateUser(context.Background(), domain.InsertUser{Username: "bare", Password: "pw"})
	require.NoError(t, err)
	assert.False(t, u.HasValidAPIKey())
}
