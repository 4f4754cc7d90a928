package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sprint-board-api/internal/response"
)

// userContext returns the request context carrying the authenticated user_id
// that services read. It answers 401 itself when the user is missing.
func userContext(c *gin.Context) (context.Context, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in context")
		return nil, false
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid user ID format")
		return nil, false
	}
	return context.WithValue(c.Request.Context(), "user_id", userUUID), true
}
