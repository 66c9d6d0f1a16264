package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"aquabov-backend/internal/shared/telemetry"
)

// Context keys handlers set so the request log line can carry them.
const (
	PredictionIDKey = "predictionId"
	BreedKey        = "breed"
	DegradedKey     = "advisoryDegraded"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		userID, _ := c.Get(userIDKey)
		isGuest, _ := c.Get(isGuestKey)
		predictionID, _ := c.Get(PredictionIDKey)
		breed, _ := c.Get(BreedKey)
		degraded, _ := c.Get(DegradedKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":        RequestIDFromContext(c),
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"status":            c.Writer.Status(),
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"user_id":           userID,
			"is_guest":          isGuest,
			"prediction_id":     predictionID,
			"breed":             breed,
			"advisory_degraded": degraded,
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		})
	}
}
