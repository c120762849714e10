package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/utils"
	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

// PosthogMiddleware records one analytics event per successful authenticated API call.
// Events are named after the route template, e.g. "POST /transfers".
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		event, ok := analyticsEventName(c.Request.Method, c.FullPath())
		if !ok {
			return
		}

		props := map[string]any{
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
			"latency_ms":  time.Since(start).Milliseconds(),
		}
		for _, p := range c.Params {
			props[p.Key] = p.Value
		}
		posthogClient.Enqueue(userID, event, props)
	}
}

// analyticsEventName derives the event name from a route template.
// Unmatched routes and routes outside the API are not tracked.
func analyticsEventName(method, route string) (string, bool) {
	if !strings.HasPrefix(route, apiPrefix+"/") {
		return "", false
	}
	return method + " " + strings.TrimPrefix(route, apiPrefix), true
}
