package dto

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotResponse summarizes an exported or imported board snapshot
type SnapshotResponse struct {
	BoardID       uuid.UUID `json:"boardId"`
	Key           string    `json:"key" example:"so.board:539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	WorkItems     int       `json:"workItems"`
	Epics         int       `json:"epics"`
	Sprints       int       `json:"sprints"`
	MigratedItems int       `json:"migratedItems"`
	At            time.Time `json:"at"`
}
