package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EpicInfo is the denormalized epic snapshot a work item carries for display
type EpicInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

// ChecklistItem is one entry of a work item's checklist
type ChecklistItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// ChecklistProgress counts completed entries against the checklist length
type ChecklistProgress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

func (p ChecklistProgress) String() string {
	return fmt.Sprintf("%d/%d", p.Done, p.Total)
}

// WorkItem is a unit of work on a board
type WorkItem struct {
	BaseModel
	BoardID          uuid.UUID                      `gorm:"type:uuid;not null;index:idx_work_items_board_id" json:"board_id"`
	Title            string                         `gorm:"type:varchar(255);not null" json:"title"`
	Description      string                         `gorm:"type:text" json:"description"`
	Type             WorkItemType                   `gorm:"type:varchar(20);not null" json:"type"`
	Status           Status                         `gorm:"type:varchar(20);not null;index:idx_work_items_status" json:"status"`
	SprintID         *uuid.UUID                     `gorm:"type:uuid;index:idx_work_items_sprint_id" json:"sprint_id,omitempty"`
	SprintBinding    SprintBinding                  `gorm:"type:varchar(10)" json:"sprint_binding,omitempty"`
	EpicID           *uuid.UUID                     `gorm:"type:uuid;index:idx_work_items_epic_id" json:"epic_id,omitempty"`
	EpicInfo         *EpicInfo                      `gorm:"type:text;serializer:json" json:"epic_info,omitempty"`
	DoneInSprintID   *uuid.UUID                     `gorm:"type:uuid;index:idx_work_items_done_in_sprint_id" json:"done_in_sprint_id,omitempty"`
	EstimationPoints float64                        `gorm:"not null;default:0" json:"estimation_points"`
	ReporterID       uuid.UUID                      `gorm:"type:uuid;not null" json:"reporter_id"`
	AssigneeID       *uuid.UUID                     `gorm:"type:uuid;index:idx_work_items_assignee_id" json:"assignee_id,omitempty"`
	Assignees        datatypes.JSONSlice[uuid.UUID] `json:"assignees"`
	Watchers         datatypes.JSONSlice[uuid.UUID] `json:"watchers"`
	DueDate          *time.Time                     `gorm:"type:timestamp" json:"due_date,omitempty"`
	// Checklist entries are kept in display order
	Checklist datatypes.JSONSlice[ChecklistItem] `json:"checklist"`
	// LegacySprint is the sprint name older snapshots stored instead of SprintID
	LegacySprint *string `gorm:"column:sprint;type:varchar(255)" json:"sprint,omitempty"`
}

// TableName specifies the table name for WorkItem
func (WorkItem) TableName() string {
	return "work_items"
}

// Clone returns a copy that shares no slices with w
func (w WorkItem) Clone() WorkItem {
	c := w
	if w.Assignees != nil {
		c.Assignees = append(datatypes.JSONSlice[uuid.UUID]{}, w.Assignees...)
	}
	if w.Watchers != nil {
		c.Watchers = append(datatypes.JSONSlice[uuid.UUID]{}, w.Watchers...)
	}
	if w.Checklist != nil {
		c.Checklist = append(datatypes.JSONSlice[ChecklistItem]{}, w.Checklist...)
	}
	if w.EpicInfo != nil {
		info := *w.EpicInfo
		c.EpicInfo = &info
	}
	return c
}

// ChecklistProgress reports how much of the checklist is done
func (w WorkItem) ChecklistProgress() ChecklistProgress {
	p := ChecklistProgress{Total: len(w.Checklist)}
	for _, entry := range w.Checklist {
		if entry.Completed {
			p.Done++
		}
	}
	return p
}

// InSprint reports whether the item is currently assigned to sprintID
func (w WorkItem) InSprint(sprintID uuid.UUID) bool {
	return w.SprintID != nil && *w.SprintID == sprintID
}

// InEpic reports whether the item belongs to epicID
func (w WorkItem) InEpic(epicID uuid.UUID) bool {
	return w.EpicID != nil && *w.EpicID == epicID
}

// IsRelevantTo reports whether userID created, owns or watches the item
func (w WorkItem) IsRelevantTo(userID uuid.UUID) bool {
	if w.ReporterID == userID {
		return true
	}
	if w.AssigneeID != nil && *w.AssigneeID == userID {
		return true
	}
	for _, id := range w.Watchers {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment is a discussion entry on a work item
type Comment struct {
	BaseModel
	WorkItemID uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_work_item_id" json:"work_item_id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
