package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todolist/internal/metrics"
	"todolist/internal/model"
	"todolist/internal/service/auth"
	"todolist/internal/session"
)

// RequestLogger logs every request through zap and feeds the request
// duration histogram.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
		metrics.RecordHTTPRequestDuration(c.Request.Method, c.FullPath(), strconv.Itoa(status), latency)
	}
}

// Identity resolves the request's principal from the session cookie.
// The user is re-fetched by id on every request; a stale or invalid
// cookie downgrades to anonymous instead of failing.
func Identity(sessions *session.Manager, authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := model.Anonymous()
		if userID, ok := sessions.UserID(c); ok {
			principal = authSvc.ResolvePrincipal(c.Request.Context(), userID)
		}
		c.Set("principal", principal)
		c.Next()
	}
}

// RequireLogin guards authenticated-only routes: anonymous requests are
// redirected to the login view and never reach the handler.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := c.Get("principal")
		p, ok := principal.(model.Principal)
		if !ok || p.IsAnonymous() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
