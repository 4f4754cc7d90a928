package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sprint-board-api/internal/engine"
	"sprint-board-api/internal/repository"
	"sprint-board-api/internal/response"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now()
}

// userIDFromContext extracts user_id set by the auth middleware
func userIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value("user_id").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, response.NewAppError(response.ErrCodeUnauthorized, "User ID not found in context", "")
	}
	return userID, nil
}

// notFoundOr maps gorm.ErrRecordNotFound to a NOT_FOUND AppError and any
// other failure to INTERNAL_ERROR
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeNotFound, what+" not found", "")
	}
	return response.NewAppError(response.ErrCodeInternal, "Failed to load "+what, err.Error())
}

// requireBoard fails with NOT_FOUND unless boardID names an existing board
func requireBoard(ctx context.Context, repos repository.Repositories, boardID uuid.UUID) error {
	if _, err := repos.Boards.FindByID(ctx, boardID); err != nil {
		return notFoundOr(err, "Board")
	}
	return nil
}

// engineError maps an engine rejection to an AppError
func engineError(err error) error {
	switch {
	case errors.Is(err, engine.ErrAlreadyDeleted),
		errors.Is(err, engine.ErrNotDeleted),
		errors.Is(err, engine.ErrEpicHasOpenItems),
		errors.Is(err, engine.ErrSprintMismatch):
		return response.NewAppError(response.ErrCodeConflict, err.Error(), "")
	case errors.Is(err, engine.ErrInvalidStatus),
		errors.Is(err, engine.ErrTransitionNotAllowed),
		errors.Is(err, engine.ErrEmptyName),
		errors.Is(err, engine.ErrInvalidDateRange),
		errors.Is(err, engine.ErrMissingBoard),
		errors.Is(err, engine.ErrInvalidICE),
		errors.Is(err, engine.ErrInvalidItemAction),
		errors.Is(err, engine.ErrMissingMoveTarget),
		errors.Is(err, engine.ErrInvalidEpicStatus),
		errors.Is(err, engine.ErrUseDeleteOperation):
		return response.NewValidationError(err.Error(), "")
	}
	return response.NewAppError(response.ErrCodeInternal, "Unexpected engine failure", err.Error())
}

// detached keeps request values but drops cancellation so post-commit
// notifications outlive the request
func detached(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
