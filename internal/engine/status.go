package engine

import (
	"time"

	"github.com/google/uuid"

	"sprint-board-api/internal/domain"
)

// TransitionPath tells the validator where a status change came from
type TransitionPath string

const (
	// PathBoard is a drag between board columns; the workflow rules apply
	PathBoard TransitionPath = "board"
	// PathEditor is the detail editor; any status may be set
	PathEditor TransitionPath = "editor"
)

// StatusChangeResult is the outcome of an accepted status change
type StatusChangeResult struct {
	Item    domain.WorkItem
	Changed bool
	Event   *domain.ItemUpdateEvent
}

// ApplyStatusChange validates and applies newStatus to item.
// On the first move into DONE the current sprint is captured in
// DoneInSprintID; later completions never overwrite it.
func ApplyStatusChange(item domain.WorkItem, newStatus domain.Status, path TransitionPath, actorID uuid.UUID, now time.Time) (StatusChangeResult, error) {
	if !newStatus.IsValid() {
		return StatusChangeResult{}, ErrInvalidStatus
	}
	if item.Status == newStatus {
		return StatusChangeResult{Item: item}, nil
	}
	if path != PathEditor && !domain.CanTransition(item.Status, newStatus) {
		return StatusChangeResult{}, ErrTransitionNotAllowed
	}

	updated := item.Clone()
	updated.Status = newStatus
	updated.UpdatedAt = now
	if newStatus == domain.StatusDone && updated.DoneInSprintID == nil && updated.SprintID != nil {
		sprintID := *updated.SprintID
		updated.DoneInSprintID = &sprintID
	}

	event := domain.NewItemUpdateEvent(updated, domain.StatusChange{From: item.Status, To: newStatus}, actorID, now)
	return StatusChangeResult{Item: updated, Changed: true, Event: &event}, nil
}

// Spotlight is the single "just changed" slot of a board
type Spotlight struct {
	ItemID    *uuid.UUID `json:"itemId,omitempty"`
	ChangedAt time.Time  `json:"changedAt"`
}

// Focus moves the spotlight to itemID, releasing whatever held it before
func (s Spotlight) Focus(itemID uuid.UUID, at time.Time) Spotlight {
	return Spotlight{ItemID: &itemID, ChangedAt: at}
}

// Holds reports whether itemID is the spotlighted item
func (s Spotlight) Holds(itemID uuid.UUID) bool {
	return s.ItemID != nil && *s.ItemID == itemID
}
