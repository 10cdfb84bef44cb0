package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's id in the
// request context.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated user id. It returns the
// id and a boolean indicating whether authentication ran.
func GetUserIDFromContext(c *gin.Context) (int64, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(int64)
	return userID, ok
}
