package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextUserKey = "auth.user_id"

// Middleware rejects requests without a valid bearer token and stores the
// resolved user identifier in the request context. The credential is read
// from the Authorization header, or from the "token" query parameter for
// websocket clients that cannot set headers.
func Middleware(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := bearerToken(c)
		if credential == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}
		userID, err := m.Validate(credential)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.Set(contextUserKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user for the request. Empty only if the
// middleware did not run.
func UserID(c *gin.Context) string {
	return c.GetString(contextUserKey)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return c.Query("token")
}
