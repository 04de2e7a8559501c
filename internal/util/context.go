package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetUserIDFromContext extracts the authenticated principal's user id from
// the Gin context, as set by the JWT auth middleware. Returns the id and
// true if present, or empty string and false if not authenticated — in
// which case it has already written a 401 response. History read/delete
// handlers must call this and scope every catalogue call by the returned
// id; never trust a client-supplied user_id (invariant A1).
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	userIDStr, ok := userID.(string)
	if !ok || userIDStr == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user ID in context"})
		return "", false
	}
	return userIDStr, true
}
