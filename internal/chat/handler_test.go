package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquabov-backend/internal/llm"
)

func newChatRouter(relay *Relay) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(relay).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postChat(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatHandlerOffline(t *testing.T) {
	resp := postChat(newChatRouter(NewRelay(nil, false)), `{"message":"Tell me about breeding"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var payload chatResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, BreedingReply, payload.Response)
	assert.False(t, payload.Online)
}

func TestChatHandlerEmptyMessage(t *testing.T) {
	resp := postChat(newChatRouter(NewRelay(nil, false)), `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestChatHandlerUpstreamFailure(t *testing.T) {
	gen := &recordingGenerator{err: &llm.RequestError{Status: 503, Message: "overloaded"}}
	resp := postChat(newChatRouter(NewRelay(gen, true)), `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, resp.Body.String(), "chat_failed")
}

func TestFAQHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/faq", nil)
	resp := httptest.NewRecorder()
	newChatRouter(NewRelay(nil, false)).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var payload FAQ
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Len(t, payload.Entries, 5)
}
