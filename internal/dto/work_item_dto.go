package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateWorkItemRequest represents the request to create a work item
// @Description status defaults to BACKLOG. A sprint chosen here is a manual placement.
type CreateWorkItemRequest struct {
	Title            string      `json:"title" binding:"required,min=1,max=255" example:"Fix login redirect"`
	Description      string      `json:"description" example:"Users land on / instead of the page they asked for"`
	Type             string      `json:"type" binding:"required,oneof=STORY TASK BUG_URGENT BUG_MINOR TICKET EPIC" example:"TASK"`
	Status           string      `json:"status,omitempty" binding:"omitempty,oneof=BACKLOG TODO IN_PROGRESS IN_REVIEW DONE" example:"TODO"`
	SprintID         *uuid.UUID  `json:"sprintId,omitempty"`
	EpicID           *uuid.UUID  `json:"epicId,omitempty"`
	EstimationPoints float64     `json:"estimationPoints" binding:"min=0" example:"3"`
	AssigneeID       *uuid.UUID  `json:"assigneeId,omitempty"`
	Assignees        []uuid.UUID `json:"assignees,omitempty"`
	Watchers         []uuid.UUID `json:"watchers,omitempty"`
	DueDate          *time.Time  `json:"dueDate,omitempty" example:"2024-03-31T23:59:59Z"`
}

// UpdateWorkItemRequest represents an edit made in the item editor
// @Description All fields are optional. Status may be set to any value here.
// @Description The clear* flags remove an optional value.
type UpdateWorkItemRequest struct {
	Title            *string          `json:"title" binding:"omitempty,min=1,max=255"`
	Description      *string          `json:"description"`
	Type             *string          `json:"type" binding:"omitempty,oneof=STORY TASK BUG_URGENT BUG_MINOR TICKET EPIC"`
	Status           *string          `json:"status" binding:"omitempty,oneof=BACKLOG TODO IN_PROGRESS IN_REVIEW DONE"`
	SprintID         *uuid.UUID       `json:"sprintId"`
	EpicID           *uuid.UUID       `json:"epicId"`
	EstimationPoints *float64         `json:"estimationPoints" binding:"omitempty,min=0"`
	AssigneeID       *uuid.UUID       `json:"assigneeId"`
	Assignees        *[]uuid.UUID     `json:"assignees"`
	Watchers         *[]uuid.UUID     `json:"watchers"`
	DueDate          *time.Time       `json:"dueDate"`
	Checklist        *[]ChecklistItem `json:"checklist" binding:"omitempty,dive"`
	ClearSprint      bool             `json:"clearSprint"`
	ClearEpic        bool             `json:"clearEpic"`
	ClearAssignee    bool             `json:"clearAssignee"`
	ClearDueDate     bool             `json:"clearDueDate"`
}

// ChecklistItem is one checklist entry as the editor sends and shows it
type ChecklistItem struct {
	Text      string `json:"text" binding:"required" example:"Write release notes"`
	Completed bool   `json:"completed"`
}

// ChangeStatusRequest represents a drag between board columns
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required" example:"IN_PROGRESS"`
}

// AddCommentRequest represents a new comment on a work item
type AddCommentRequest struct {
	Content string `json:"content" binding:"required,min=1" example:"Reproduced on staging"`
}

// WorkItemFilters are the optional list filters
type WorkItemFilters struct {
	SprintID *uuid.UUID
	EpicID   *uuid.UUID
	Status   *string
}

// EpicInfoResponse is the epic label shown on a work item
type EpicInfoResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

// WorkItemResponse represents the work item response
type WorkItemResponse struct {
	ID               uuid.UUID         `json:"workItemId" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	BoardID          uuid.UUID         `json:"boardId"`
	Title            string            `json:"title" example:"Fix login redirect"`
	Description      string            `json:"description"`
	Type             string            `json:"type" example:"TASK"`
	Status           string            `json:"status" example:"TODO"`
	SprintID         *uuid.UUID        `json:"sprintId,omitempty"`
	SprintBinding    string            `json:"sprintBinding,omitempty" example:"manual"`
	EpicID           *uuid.UUID        `json:"epicId,omitempty"`
	EpicInfo         *EpicInfoResponse `json:"epicInfo,omitempty"`
	DoneInSprintID   *uuid.UUID        `json:"doneInSprintId,omitempty"`
	EstimationPoints float64           `json:"estimationPoints" example:"3"`
	ReporterID       uuid.UUID         `json:"reporterId"`
	AssigneeID       *uuid.UUID        `json:"assigneeId,omitempty"`
	Assignees        []uuid.UUID       `json:"assignees"`
	Watchers         []uuid.UUID       `json:"watchers"`
	DueDate          *time.Time        `json:"dueDate,omitempty"`
	Checklist        []ChecklistItem   `json:"checklist"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// StatusChangeResponse reports whether a status change did anything
type StatusChangeResponse struct {
	Item    WorkItemResponse `json:"item"`
	Changed bool             `json:"changed"`
}

// CommentResponse represents a comment
type CommentResponse struct {
	ID         uuid.UUID `json:"commentId"`
	WorkItemID uuid.UUID `json:"workItemId"`
	AuthorID   uuid.UUID `json:"authorId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SpotlightResponse is the board's "just changed" item
type SpotlightResponse struct {
	BoardID   uuid.UUID  `json:"boardId"`
	ItemID    *uuid.UUID `json:"itemId,omitempty"`
	ChangedAt *time.Time `json:"changedAt,omitempty"`
}
