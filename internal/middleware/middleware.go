package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todo-api/internal/apperr"
	"todo-api/internal/auth"
	"todo-api/internal/controller"
	"todo-api/pkg/logger"
)

// Auth verifies the bearer token and stores the caller's subject in the gin
// context. A missing or invalid credential terminates the request with 401.
func Auth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if header == "" || !strings.HasPrefix(header, prefix) {
			logger.Debug(ctx, "Missing or invalid Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		subject, err := verifier.Subject(strings.TrimSpace(header[len(prefix):]))
		if err != nil {
			logger.Debug(ctx, "Token verification failed", "error", err)
			status := http.StatusUnauthorized
			var ae *apperr.Error
			if errors.As(err, &ae) {
				status = ae.Status()
			}
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		c.Set(controller.SubjectKey, subject)
		c.Next()
	}
}

// RequestID tags each request with a generated id, exposed in the response
// header and attached to the context logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
