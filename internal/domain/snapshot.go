package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Snapshot is one versioned key-value record
type Snapshot struct {
	Key       string         `gorm:"type:varchar(255);primaryKey" json:"key"`
	Version   int            `gorm:"not null" json:"v"`
	Data      datatypes.JSON `gorm:"not null" json:"data"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for Snapshot
func (Snapshot) TableName() string {
	return "snapshots"
}

// BoardSnapshot is the serializable state of one board
type BoardSnapshot struct {
	Board     Board      `json:"board"`
	WorkItems []WorkItem `json:"work_items"`
	Epics     []Epic     `json:"epics"`
	Sprints   []Sprint   `json:"sprints"`
}
