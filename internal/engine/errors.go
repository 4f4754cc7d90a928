package engine

import "errors"

// Validation rejections. Every engine operation that returns one of these
// leaves its inputs untouched.
var (
	ErrInvalidStatus        = errors.New("invalid work item status")
	ErrTransitionNotAllowed = errors.New("status transition not allowed by workflow rules")
	ErrEmptyName            = errors.New("name must not be empty")
	ErrInvalidDateRange     = errors.New("end date must be after start date")
	ErrMissingBoard         = errors.New("board id is required")
	ErrInvalidICE           = errors.New("impact, confidence and ease must be between 1 and 10")
	ErrInvalidItemAction    = errors.New("invalid item action")
	ErrMissingMoveTarget    = errors.New("move requires a target sprint")
	ErrInvalidEpicStatus    = errors.New("invalid epic status")
	ErrEpicHasOpenItems     = errors.New("epic still has open work items")
	ErrUseDeleteOperation   = errors.New("use the delete operation to delete an epic")
	ErrAlreadyDeleted       = errors.New("already deleted")
	ErrNotDeleted           = errors.New("not deleted")
	ErrSprintMismatch       = errors.New("draft does not match the stored sprint")
)
