package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sprint-board-api/internal/response"
)

// PermissionChecker answers board permission questions
type PermissionChecker interface {
	Can(ctx context.Context, boardID, userID uuid.UUID, permission string) (bool, error)
	ResolveBoardID(ctx context.Context, resource string, id uuid.UUID) (uuid.UUID, error)
}

// RequirePermission resolves the board owning the resource named by the path
// parameter and aborts with 403 unless the caller holds permission on it.
func RequirePermission(checker PermissionChecker, permission, resource, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(ContextUserID)
		userID, ok := v.(uuid.UUID)
		if !ok {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in context")
			return
		}

		id, err := uuid.Parse(c.Param(param))
		if err != nil {
			response.AbortWithError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+resource+" ID")
			return
		}

		ctx := c.Request.Context()
		boardID, err := checker.ResolveBoardID(ctx, resource, id)
		if err != nil {
			abortWithAppError(c, err)
			return
		}

		allowed, err := checker.Can(ctx, boardID, userID, permission)
		if err != nil {
			abortWithAppError(c, err)
			return
		}
		if !allowed {
			response.AbortWithError(c, http.StatusForbidden, response.ErrCodeForbidden, "You do not have permission to perform this action")
			return
		}

		c.Next()
	}
}

func abortWithAppError(c *gin.Context, err error) {
	_ = c.Error(err)
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case response.ErrCodeNotFound:
			response.AbortWithError(c, http.StatusNotFound, appErr.Code, appErr.Message)
			return
		case response.ErrCodeValidation:
			response.AbortWithError(c, http.StatusBadRequest, appErr.Code, appErr.Message)
			return
		}
	}
	response.AbortWithError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}
