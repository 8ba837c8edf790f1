package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/constants"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
)

// RequireAuth accepts either a bearer token or the session cookie set at login.
// A bearer header that is present but invalid is rejected without falling back to the session.
func RequireAuth(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if !strings.HasPrefix(header, constants.BearerPrefix) {
				apierrors.Unauthorized(c, "Invalid authorization header")
				c.Abort()
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(header[len(constants.BearerPrefix):]))
			if err != nil {
				slog.DebugContext(c.Request.Context(), "bearer token rejected", "error", err)
				apierrors.Unauthorized(c, "Invalid or expired token")
				c.Abort()
				return
			}

			if tokens.ShouldRenew(claims) {
				if renewed, err := tokens.Issue(claims.UserID, claims.Username); err == nil {
					c.Header(constants.RefreshTokenHeader, renewed)
				}
			}

			c.Set(constants.ContextKeyUserID, claims.UserID)
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, v > 0
	case uint:
		return uint64(v), v > 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
