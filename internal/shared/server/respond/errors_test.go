package respond

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquabov-backend/internal/shared/telemetry"
)

func TestErrorWritesEnvelopeAndLogs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	restore := telemetry.SetOutput(&logs)
	defer restore()

	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		Error(c, http.StatusBadGateway, "analysis_failed", "Classification failed", gin.H{"reason": "upstream"})
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusBadGateway, resp.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "analysis_failed", body.Error.Code)
	assert.Equal(t, "Classification failed", body.Error.Message)
	assert.Contains(t, logs.String(), `"msg":"http.error"`)
}
