package dto

import (
	"time"

	"github.com/google/uuid"
)

// SaveSprintRequest represents a sprint create or edit
// @Description endAt must be after startAt. Epics added here pull their open,
// @Description unplaced items into the sprint; epics removed release auto-placed items.
type SaveSprintRequest struct {
	Name    string      `json:"name" binding:"required,min=1,max=255" example:"Sprint 7"`
	Goal    string      `json:"goal" example:"Ship checkout v2"`
	StartAt time.Time   `json:"startAt" binding:"required" example:"2024-03-04T00:00:00Z"`
	EndAt   time.Time   `json:"endAt" binding:"required" example:"2024-03-17T00:00:00Z"`
	EpicIDs []uuid.UUID `json:"epicIds"`
}

// DeleteSprintRequest carries the query parameters of a sprint delete
type DeleteSprintRequest struct {
	Action         string     `form:"action" binding:"required,oneof=unassign move"`
	TargetSprintID *uuid.UUID `form:"-"`
}

// SprintResponse represents the sprint response
type SprintResponse struct {
	ID        uuid.UUID   `json:"sprintId" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	BoardID   uuid.UUID   `json:"boardId"`
	Number    int         `json:"number" example:"7"`
	Name      string      `json:"name" example:"Sprint 7"`
	Goal      string      `json:"goal"`
	StartAt   time.Time   `json:"startAt"`
	EndAt     time.Time   `json:"endAt"`
	State     string      `json:"state" example:"PLANNED"`
	EpicIDs   []uuid.UUID `json:"epicIds"`
	DeletedAt *time.Time  `json:"deletedAt,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// SprintSaveResponse reports the saved sprint and the items it pulled in or released
type SprintSaveResponse struct {
	Sprint         SprintResponse `json:"sprint"`
	AddedEpicIDs   []uuid.UUID    `json:"addedEpicIds"`
	RemovedEpicIDs []uuid.UUID    `json:"removedEpicIds"`
	IncludedItems  int            `json:"includedItems"`
	ExcludedItems  int            `json:"excludedItems"`
}
