package engine

import (
	"time"

	"github.com/google/uuid"

	"sprint-board-api/internal/domain"
)

// ItemAction says what happens to the items of a deleted epic or sprint
type ItemAction string

const (
	ItemActionDetach   ItemAction = "detach"
	ItemActionUnassign ItemAction = "unassign"
	ItemActionMove     ItemAction = "move"
)

// Undo token entity kinds
const (
	UndoEntityEpic   = "epic"
	UndoEntitySprint = "sprint"
)

// UndoToken identifies a soft delete that can still be restored
type UndoToken struct {
	Entity    string    `json:"entity"`
	ID        uuid.UUID `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EpicDeleteResult is the batch produced by DeleteEpic
type EpicDeleteResult struct {
	Epic  domain.Epic
	Items []domain.WorkItem
	Undo  UndoToken
}

// DeleteEpic soft-deletes epic and detaches its work items
func DeleteEpic(epic domain.Epic, items []domain.WorkItem, action ItemAction, now time.Time, undoWindow time.Duration) (EpicDeleteResult, error) {
	if action != ItemActionDetach {
		return EpicDeleteResult{}, ErrInvalidItemAction
	}
	if epic.IsDeleted() {
		return EpicDeleteResult{}, ErrAlreadyDeleted
	}

	var detached []domain.WorkItem
	for _, item := range items {
		if !item.InEpic(epic.ID) {
			continue
		}
		updated := item.Clone()
		updated.EpicID = nil
		updated.EpicInfo = nil
		updated.UpdatedAt = now
		detached = append(detached, updated)
	}

	deleted := epic
	deleted.Status = domain.EpicStatusDeleted
	deletedAt := now
	deleted.DeletedAt = &deletedAt
	deleted.UpdatedAt = now

	return EpicDeleteResult{
		Epic:  deleted,
		Items: detached,
		Undo: UndoToken{
			Entity:    UndoEntityEpic,
			ID:        epic.ID,
			DeletedAt: now,
			ExpiresAt: now.Add(undoWindow),
		},
	}, nil
}

// RestoreEpic brings a deleted epic back as ACTIVE. Items detached by the
// delete stay detached.
func RestoreEpic(epic domain.Epic, now time.Time) (domain.Epic, error) {
	if !epic.IsDeleted() {
		return domain.Epic{}, ErrNotDeleted
	}
	restored := epic
	restored.Status = domain.EpicStatusActive
	restored.DeletedAt = nil
	restored.UpdatedAt = now
	return restored, nil
}

// UpdateEpicStatus applies an explicit status change to a live epic
func UpdateEpicStatus(epic domain.Epic, status domain.EpicStatus, items []domain.WorkItem, now time.Time) (domain.Epic, error) {
	if !status.IsValid() {
		return domain.Epic{}, ErrInvalidEpicStatus
	}
	if status == domain.EpicStatusDeleted {
		return domain.Epic{}, ErrUseDeleteOperation
	}
	if epic.IsDeleted() {
		return domain.Epic{}, ErrAlreadyDeleted
	}
	if epic.Status == status {
		return epic, nil
	}
	if status.RequiresClosedItems() {
		if progress := ComputeProgress(epic, items); progress.OpenItemsCount > 0 {
			return domain.Epic{}, ErrEpicHasOpenItems
		}
	}

	updated := epic
	updated.Status = status
	updated.UpdatedAt = now
	if status == domain.EpicStatusArchived {
		archivedAt := now
		updated.ArchivedAt = &archivedAt
	}
	return updated, nil
}

// SprintDeleteResult is the batch produced by DeleteSprint.
// SkippedItemIDs lists items a move could not place because the target
// sprint was unusable; they keep their old sprint id.
type SprintDeleteResult struct {
	Sprint         domain.Sprint
	Items          []domain.WorkItem
	SkippedItemIDs []uuid.UUID
	Undo           UndoToken
}

// DeleteSprint soft-deletes sprint and unassigns or moves its items
func DeleteSprint(sprint domain.Sprint, action ItemAction, targetID *uuid.UUID, sprints []domain.Sprint, items []domain.WorkItem, now time.Time, undoWindow time.Duration) (SprintDeleteResult, error) {
	if action != ItemActionUnassign && action != ItemActionMove {
		return SprintDeleteResult{}, ErrInvalidItemAction
	}
	if action == ItemActionMove && (targetID == nil || *targetID == uuid.Nil) {
		return SprintDeleteResult{}, ErrMissingMoveTarget
	}
	if sprint.State == domain.SprintStateDeleted {
		return SprintDeleteResult{}, ErrAlreadyDeleted
	}

	targetUsable := false
	if action == ItemActionMove {
		targetUsable = usableMoveTarget(sprint.ID, *targetID, sprints)
	}

	result := SprintDeleteResult{}
	for _, item := range items {
		if !item.InSprint(sprint.ID) {
			continue
		}
		if action == ItemActionMove && !targetUsable {
			result.SkippedItemIDs = append(result.SkippedItemIDs, item.ID)
			continue
		}
		updated := item.Clone()
		if action == ItemActionUnassign {
			updated.SprintID = nil
		} else {
			target := *targetID
			updated.SprintID = &target
		}
		updated.UpdatedAt = now
		result.Items = append(result.Items, updated)
	}

	deleted := sprint.Clone()
	deleted.State = domain.SprintStateDeleted
	deletedAt := now
	deleted.DeletedAt = &deletedAt
	deleted.UpdatedAt = now
	result.Sprint = deleted
	result.Undo = UndoToken{
		Entity:    UndoEntitySprint,
		ID:        sprint.ID,
		DeletedAt: now,
		ExpiresAt: now.Add(undoWindow),
	}
	return result, nil
}

func usableMoveTarget(sourceID, targetID uuid.UUID, sprints []domain.Sprint) bool {
	if sourceID == targetID {
		return false
	}
	for _, s := range sprints {
		if s.ID == targetID {
			return s.State != domain.SprintStateDeleted
		}
	}
	return false
}

// RestoreSprint returns a deleted sprint to PLANNED; the next scheduler
// tick moves it on from its dates.
func RestoreSprint(sprint domain.Sprint, now time.Time) (domain.Sprint, error) {
	if sprint.State != domain.SprintStateDeleted {
		return domain.Sprint{}, ErrNotDeleted
	}
	restored := sprint.Clone()
	restored.State = domain.SprintStatePlanned
	restored.DeletedAt = nil
	restored.UpdatedAt = now
	return restored, nil
}
