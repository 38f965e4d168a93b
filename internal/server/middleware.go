package server

import (
	"ctchen222/tictactoe/internal/api/response"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// traceRequests opens a span per request and logs its outcome.
func traceRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route, trace.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		))
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		slog.InfoContext(ctx, "HTTP request",
			"http.method", c.Request.Method,
			"http.route", route,
			"http.status_code", status,
			"http.duration", time.Since(start))
	}
}

// requireSessionToken admits a request only when it carries the token
// issued for the session named in the path.
func (s *Server) requireSessionToken(c *gin.Context) {
	token := sessionToken(c.Request)
	if token == "" {
		response.AbortResponse(c, http.StatusUnauthorized, "missing session token")
		return
	}

	sessionID, err := s.tokens.Verify(token)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "Rejected session token", "error", err)
		response.AbortResponse(c, http.StatusUnauthorized, "invalid session token")
		return
	}
	if sessionID != c.Param("id") {
		response.AbortResponse(c, http.StatusForbidden, "token was issued for another session")
		return
	}
	c.Next()
}

// sessionToken reads the bearer token, falling back to the token query
// parameter since browsers cannot set headers on WebSocket requests.
func sessionToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return r.URL.Query().Get("token")
}
