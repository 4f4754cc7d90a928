package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sprint is a dated container of epics on a board
type Sprint struct {
	BaseModel
	BoardID   uuid.UUID                      `gorm:"type:uuid;not null;uniqueIndex:uq_sprints_board_number" json:"board_id"`
	Number    int                            `gorm:"not null;uniqueIndex:uq_sprints_board_number" json:"number"`
	Name      string                         `gorm:"type:varchar(255);not null" json:"name"`
	Goal      string                         `gorm:"type:text" json:"goal"`
	StartAt   time.Time                      `gorm:"type:timestamp;not null" json:"start_at"`
	EndAt     time.Time                      `gorm:"type:timestamp;not null" json:"end_at"`
	State     SprintState                    `gorm:"type:varchar(20);not null;index:idx_sprints_state" json:"state"`
	EpicIDs   datatypes.JSONSlice[uuid.UUID] `json:"epic_ids"`
	DeletedAt *time.Time                     `gorm:"type:timestamp" json:"deleted_at,omitempty"`
}

// TableName specifies the table name for Sprint
func (Sprint) TableName() string {
	return "sprints"
}

// HasEpic reports whether epicID is bound to the sprint
func (s Sprint) HasEpic(epicID uuid.UUID) bool {
	for _, id := range s.EpicIDs {
		if id == epicID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with s
func (s Sprint) Clone() Sprint {
	c := s
	if s.EpicIDs != nil {
		c.EpicIDs = append(datatypes.JSONSlice[uuid.UUID]{}, s.EpicIDs...)
	}
	return c
}

// SprintDraft is the editable part of a sprint submitted for save.
// A nil ID means a new sprint.
type SprintDraft struct {
	ID      *uuid.UUID
	BoardID uuid.UUID
	Name    string
	Goal    string
	StartAt time.Time
	EndAt   time.Time
	EpicIDs []uuid.UUID
}
