package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"sprint-board-api/internal/domain"
)

// MembershipResult is the batch produced by ApplyMembershipPolicy.
// Items holds only the work items that changed.
type MembershipResult struct {
	Items          []domain.WorkItem
	AddedEpicIDs   []uuid.UUID
	RemovedEpicIDs []uuid.UUID
	Included       int
	Excluded       int
}

// DiffEpics returns the ids in next but not original, and the reverse
func DiffEpics(original, next []uuid.UUID) (added, removed []uuid.UUID) {
	inOriginal := toSet(original)
	inNext := toSet(next)
	for _, id := range dedupe(next) {
		if _, ok := inOriginal[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range dedupe(original) {
		if _, ok := inNext[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// ApplyMembershipPolicy moves work items in or out of sprint after its epic
// set changed from original (nil for a new sprint).
//
// Items of an added epic join the sprint as auto-bound unless they are done
// or a user placed them in a sprint by hand. Items of a removed epic leave
// the sprint only if they are still auto-bound to it and not done. Both
// rules read the same snapshot of items.
func ApplyMembershipPolicy(sprint domain.Sprint, original *domain.Sprint, items []domain.WorkItem) MembershipResult {
	var originalEpics []uuid.UUID
	if original != nil {
		originalEpics = original.EpicIDs
	}
	added, removed := DiffEpics(originalEpics, sprint.EpicIDs)
	result := MembershipResult{AddedEpicIDs: added, RemovedEpicIDs: removed}
	if len(added) == 0 && len(removed) == 0 {
		return result
	}

	addedSet := toSet(added)
	removedSet := toSet(removed)

	for _, item := range items {
		if item.EpicID == nil || item.Status == domain.StatusDone {
			continue
		}
		if _, ok := addedSet[*item.EpicID]; ok {
			if item.SprintID != nil && item.SprintBinding != domain.SprintBindingAuto {
				continue
			}
			if item.InSprint(sprint.ID) && item.SprintBinding == domain.SprintBindingAuto {
				continue
			}
			updated := item.Clone()
			sprintID := sprint.ID
			updated.SprintID = &sprintID
			updated.SprintBinding = domain.SprintBindingAuto
			updated.UpdatedAt = sprint.UpdatedAt
			result.Items = append(result.Items, updated)
			result.Included++
			continue
		}
		if _, ok := removedSet[*item.EpicID]; ok {
			if !item.InSprint(sprint.ID) || item.SprintBinding != domain.SprintBindingAuto {
				continue
			}
			updated := item.Clone()
			updated.SprintID = nil
			updated.UpdatedAt = sprint.UpdatedAt
			result.Items = append(result.Items, updated)
			result.Excluded++
		}
	}
	return result
}

// FinalizeSprint validates draft and builds the record to persist.
// A new sprint gets number sprintCount+1 and starts PLANNED; an edit keeps
// the stored number, board, state and creation time.
func FinalizeSprint(draft domain.SprintDraft, original *domain.Sprint, sprintCount int, now time.Time) (domain.Sprint, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return domain.Sprint{}, ErrEmptyName
	}
	if !draft.EndAt.After(draft.StartAt) {
		return domain.Sprint{}, ErrInvalidDateRange
	}

	epicIDs := datatypes.JSONSlice[uuid.UUID](dedupe(draft.EpicIDs))
	if epicIDs == nil {
		epicIDs = datatypes.JSONSlice[uuid.UUID]{}
	}

	if original != nil {
		if draft.ID != nil && *draft.ID != original.ID {
			return domain.Sprint{}, ErrSprintMismatch
		}
		if original.State == domain.SprintStateDeleted {
			return domain.Sprint{}, ErrAlreadyDeleted
		}
		s := original.Clone()
		s.Name = name
		s.Goal = draft.Goal
		s.StartAt = draft.StartAt
		s.EndAt = draft.EndAt
		s.EpicIDs = epicIDs
		s.UpdatedAt = now
		return s, nil
	}

	if draft.BoardID == uuid.Nil {
		return domain.Sprint{}, ErrMissingBoard
	}
	id := uuid.New()
	if draft.ID != nil && *draft.ID != uuid.Nil {
		id = *draft.ID
	}
	return domain.Sprint{
		BaseModel: domain.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		BoardID:   draft.BoardID,
		Number:    sprintCount + 1,
		Name:      name,
		Goal:      draft.Goal,
		StartAt:   draft.StartAt,
		EndAt:     draft.EndAt,
		State:     domain.SprintStatePlanned,
		EpicIDs:   epicIDs,
	}, nil
}

// SprintSaveResult is everything a sprint save has to persist
type SprintSaveResult struct {
	Sprint     domain.Sprint
	Membership MembershipResult
}

// SaveSprint finalizes draft and computes the membership batch in one step
func SaveSprint(draft domain.SprintDraft, original *domain.Sprint, sprintCount int, items []domain.WorkItem, now time.Time) (SprintSaveResult, error) {
	sprint, err := FinalizeSprint(draft, original, sprintCount, now)
	if err != nil {
		return SprintSaveResult{}, err
	}
	return SprintSaveResult{
		Sprint:     sprint,
		Membership: ApplyMembershipPolicy(sprint, original, items),
	}, nil
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
