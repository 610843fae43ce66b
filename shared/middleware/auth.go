package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jpjss/family-finance/shared/token"
)

const (
	ContextUserID = "userId"
	ContextEmail  = "email"

	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

// AuthMiddleware requires a valid Bearer token and stores its claims on the
// gin context.
func AuthMiddleware(codec token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := token.FromHeader(c.GetHeader("Authorization"))
		if !ok {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		claims, err := codec.Verify(raw)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, token.ErrTokenExpired) {
				msg = "Token expired"
			}
			RespondWithError(c, http.StatusUnauthorized, msg)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.OwnerID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}
