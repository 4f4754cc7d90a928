package engine

import (
	"time"

	"github.com/google/uuid"

	"sprint-board-api/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}

func newSprint(state domain.SprintState, start, end time.Time, epics ...uuid.UUID) domain.Sprint {
	return domain.Sprint{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		BoardID:   uuid.New(),
		Number:    1,
		Name:      "Sprint",
		StartAt:   start,
		EndAt:     end,
		State:     state,
		EpicIDs:   epics,
	}
}

func newItem(status domain.Status, epicID, sprintID *uuid.UUID, binding domain.SprintBinding) domain.WorkItem {
	return domain.WorkItem{
		BaseModel:     domain.BaseModel{ID: uuid.New()},
		Title:         "item",
		Type:          domain.WorkItemTypeTask,
		Status:        status,
		EpicID:        epicID,
		SprintID:      sprintID,
		SprintBinding: binding,
		ReporterID:    uuid.New(),
	}
}
