package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// defaultActor is recorded on audit fields when the surrounding service
// does not forward an acting user.
const defaultActor = "system"

// ActingUserMiddleware propagates the acting user forwarded by the
// surrounding service. Authentication itself happens upstream; this engine
// only records who asked, for the audit fields on documents and entries.
func ActingUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = defaultActor
		}
		ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetUserIDFromCtx retrieves the acting user ID from the context.
func GetUserIDFromCtx(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok && userID != "" {
		return userID
	}
	return defaultActor
}
