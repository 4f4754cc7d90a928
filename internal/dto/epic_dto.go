package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateEpicRequest represents the request to create an epic
// @Description name defaults to "Untitled Epic" and color to the next palette entry.
// @Description impact, confidence and ease are 1..10 and default to 5 when omitted.
type CreateEpicRequest struct {
	Name        string `json:"name" binding:"max=255" example:"Checkout revamp"`
	Description string `json:"description" example:"Rework the checkout flow"`
	Color       string `json:"color,omitempty" example:"#3b82f6"`
	Impact      *int   `json:"impact,omitempty" example:"8"`
	Confidence  *int   `json:"confidence,omitempty" example:"6"`
	Ease        *int   `json:"ease,omitempty" example:"4"`
}

// UpdateEpicRequest represents the request to update an epic
// @Description All fields are optional. The ICE score is recomputed on every save.
type UpdateEpicRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Impact      *int    `json:"impact"`
	Confidence  *int    `json:"confidence"`
	Ease        *int    `json:"ease"`
}

// UpdateEpicStatusRequest represents an explicit epic status change
type UpdateEpicStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE ON_HOLD DONE ARCHIVED DELETED" example:"ARCHIVED"`
}

// EpicResponse represents an epic with its derived progress
type EpicResponse struct {
	ID                  uuid.UUID  `json:"epicId" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	BoardID             uuid.UUID  `json:"boardId"`
	Name                string     `json:"name" example:"Checkout revamp"`
	Description         string     `json:"description"`
	Color               string     `json:"color" example:"#3b82f6"`
	Status              string     `json:"status" example:"ACTIVE"`
	Impact              int        `json:"impact" example:"8"`
	Confidence          int        `json:"confidence" example:"6"`
	Ease                int        `json:"ease" example:"4"`
	ICEScore            float64    `json:"iceScore" example:"6"`
	OpenItemsCount      int        `json:"openItemsCount"`
	TotalItemsCount     int        `json:"totalItemsCount"`
	TotalEstimation     float64    `json:"totalEstimation"`
	DoneEstimation      float64    `json:"doneEstimation"`
	PercentDoneWeighted float64    `json:"percentDoneWeighted"`
	ArchivedAt          *time.Time `json:"archivedAt,omitempty"`
	DeletedAt           *time.Time `json:"deletedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// EpicProgressResponse is one row of the epic progress report
type EpicProgressResponse struct {
	Epic            EpicResponse `json:"epic"`
	TotalItems      int          `json:"totalItems"`
	DoneItems       int          `json:"doneItems"`
	TotalEstimation float64      `json:"totalEstimation"`
	DoneEstimation  float64      `json:"doneEstimation"`
	Progress        float64      `json:"progress"`
}

// UndoResponse identifies a soft delete that can still be restored
type UndoResponse struct {
	Entity    string    `json:"entity" example:"epic"`
	ID        uuid.UUID `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DeleteResponse reports the outcome of a soft delete
// @Description skippedItemIds lists items a move could not place; they keep their old sprint
type DeleteResponse struct {
	Undo           UndoResponse `json:"undo"`
	AffectedItems  int          `json:"affectedItems"`
	SkippedItemIDs []uuid.UUID  `json:"skippedItemIds"`
}
