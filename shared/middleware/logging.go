package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jpjss/family-finance/shared/logging"
)

const HeaderRequestID = "X-Request-ID"

// LoggingMiddleware assigns a request ID, puts a request-scoped logger in the
// context and logs one line per request.
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)
		c.Request.Header.Set(HeaderRequestID, requestID)

		reqLogger := logger.With(logging.FieldRequestID, requestID)
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), reqLogger))

		c.Next()

		attrs := []any{
			logging.FieldMethod, c.Request.Method,
			logging.FieldPath, c.FullPath(),
			logging.FieldStatus, c.Writer.Status(),
			logging.FieldDuration, time.Since(start).Milliseconds(),
			logging.FieldClientIP, c.ClientIP(),
		}
		if userID, ok := GetUserID(c); ok {
			attrs = append(attrs, logging.FieldUserID, userID)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLogger.Error("request", attrs...)
		case status >= 400:
			reqLogger.Warn("request", attrs...)
		default:
			reqLogger.Info("request", attrs...)
		}
	}
}
