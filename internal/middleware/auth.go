package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/Vishal4742/sonica/internal/auth"
)

// RequireAuth validates the request's Bearer token and sets "user_id" in
// the Gin context on success, aborting with 401 otherwise. History
// read/delete handlers depend on this running first so internal/util's
// GetUserIDFromContext can enforce invariant A1 (server-side user_id
// scoping, never a client-supplied one).
func RequireAuth(svc auth.ServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no_token_provided"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_format"})
			return
		}

		userID, err := svc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "message": err.Error()})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
