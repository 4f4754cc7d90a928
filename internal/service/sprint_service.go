package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sprint-board-api/internal/domain"
	"sprint-board-api/internal/dto"
	"sprint-board-api/internal/engine"
	"sprint-board-api/internal/metrics"
	"sprint-board-api/internal/repository"
	"sprint-board-api/internal/response"
)

// SprintService defines the interface for sprint business logic
type SprintService interface {
	CreateSprint(ctx context.Context, boardID uuid.UUID, req *dto.SaveSprintRequest) (*dto.SprintSaveResponse, error)
	UpdateSprint(ctx context.Context, id uuid.UUID, req *dto.SaveSprintRequest) (*dto.SprintSaveResponse, error)
	ListSprints(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]dto.SprintResponse, error)
	DeleteSprint(ctx context.Context, id uuid.UUID, req *dto.DeleteSprintRequest) (*dto.DeleteResponse, error)
	RestoreSprint(ctx context.Context, id uuid.UUID) (*dto.SprintResponse, error)
	// Tick advances every schedulable sprint to the state its dates call for
	// and returns the transitions it applied.
	Tick(ctx context.Context) ([]engine.SprintTransition, error)
}

// sprintServiceImpl is the implementation of SprintService
type sprintServiceImpl struct {
	repos      repository.Repositories
	tx         repository.Transactor
	undoWindow time.Duration
	clock      Clock
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewSprintService creates a new instance of SprintService
func NewSprintService(
	repos repository.Repositories,
	tx repository.Transactor,
	undoWindow time.Duration,
	clock Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) SprintService {
	if clock == nil {
		clock = systemClock
	}
	return &sprintServiceImpl{
		repos:      repos,
		tx:         tx,
		undoWindow: undoWindow,
		clock:      clock,
		metrics:    m,
		logger:     logger,
	}
}

// CreateSprint creates a PLANNED sprint and pulls in the open items of its epics
func (s *sprintServiceImpl) CreateSprint(ctx context.Context, boardID uuid.UUID, req *dto.SaveSprintRequest) (*dto.SprintSaveResponse, error) {
	if _, err := userIDFromContext(ctx); err != nil {
		return nil, err
	}
	if err := requireBoard(ctx, s.repos, boardID); err != nil {
		return nil, err
	}

	draft := domain.SprintDraft{
		BoardID: boardID,
		Name:    req.Name,
		Goal:    req.Goal,
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		EpicIDs: req.EpicIDs,
	}
	return s.save(ctx, draft, nil)
}

// UpdateSprint edits a sprint. Its state is kept; epic changes move items
// in or out according to the inheritance policy.
func (s *sprintServiceImpl) UpdateSprint(ctx context.Context, id uuid.UUID, req *dto.SaveSprintRequest) (*dto.SprintSaveResponse, error) {
	draft := domain.SprintDraft{
		ID:      &id,
		Name:    req.Name,
		Goal:    req.Goal,
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		EpicIDs: req.EpicIDs,
	}
	return s.save(ctx, draft, &id)
}

func (s *sprintServiceImpl) save(ctx context.Context, draft domain.SprintDraft, originalID *uuid.UUID) (*dto.SprintSaveResponse, error) {
	var result engine.SprintSaveResult
	err := s.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		var original *domain.Sprint
		if originalID != nil {
			found, err := repos.Sprints.FindByID(ctx, *originalID)
			if err != nil {
				return notFoundOr(err, "Sprint")
			}
			original = found
			draft.BoardID = found.BoardID
		}

		if err := s.checkEpics(ctx, repos, draft.BoardID, draft.EpicIDs); err != nil {
			return err
		}

		count, err := repos.Sprints.CountByBoardID(ctx, draft.BoardID)
		if err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to count sprints", err.Error())
		}
		items, err := repos.WorkItems.FindByBoardID(ctx, draft.BoardID, repository.WorkItemFilter{})
		if err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to load work items", err.Error())
		}

		result, err = engine.SaveSprint(draft, original, int(count), items, s.clock())
		if err != nil {
			return engineError(err)
		}

		if original == nil {
			err = repos.Sprints.Create(ctx, &result.Sprint)
		} else {
			err = repos.Sprints.Update(ctx, &result.Sprint)
		}
		if err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to save sprint", err.Error())
		}
		if err := repos.WorkItems.SaveBatch(ctx, result.Membership.Items); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to update sprint membership", err.Error())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	membership := result.Membership
	if s.metrics != nil {
		s.metrics.RecordMembershipChanges(membership.Included, membership.Excluded)
	}
	s.logger.Info("Sprint saved",
		zap.String("sprint_id", result.Sprint.ID.String()),
		zap.Int("included_items", membership.Included),
		zap.Int("excluded_items", membership.Excluded),
	)

	return &dto.SprintSaveResponse{
		Sprint:         toSprintResponse(result.Sprint),
		AddedEpicIDs:   uuidList(membership.AddedEpicIDs),
		RemovedEpicIDs: uuidList(membership.RemovedEpicIDs),
		IncludedItems:  membership.Included,
		ExcludedItems:  membership.Excluded,
	}, nil
}

// checkEpics rejects epics that are missing, deleted or on another board
func (s *sprintServiceImpl) checkEpics(ctx context.Context, repos repository.Repositories, boardID uuid.UUID, epicIDs []uuid.UUID) error {
	for _, epicID := range epicIDs {
		epic, err := repos.Epics.FindByID(ctx, epicID)
		if err != nil {
			return notFoundOr(err, "Epic")
		}
		if epic.BoardID != boardID || epic.IsDeleted() {
			return response.NewValidationError("Epic is not usable on this board", epicID.String())
		}
	}
	return nil
}

// ListSprints lists a board's sprints ordered by number
func (s *sprintServiceImpl) ListSprints(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]dto.SprintResponse, error) {
	sprints, err := s.repos.Sprints.FindByBoardID(ctx, boardID, includeDeleted)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list sprints", err.Error())
	}
	out := make([]dto.SprintResponse, 0, len(sprints))
	for _, sp := range sprints {
		out = append(out, toSprintResponse(sp))
	}
	return out, nil
}

// DeleteSprint soft-deletes a sprint and unassigns or moves its items.
// Items a move cannot place keep their sprint and are reported back.
func (s *sprintServiceImpl) DeleteSprint(ctx context.Context, id uuid.UUID, req *dto.DeleteSprintRequest) (*dto.DeleteResponse, error) {
	var result engine.SprintDeleteResult
	err := s.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		sprint, err := repos.Sprints.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "Sprint")
		}
		sprints, err := repos.Sprints.FindByBoardID(ctx, sprint.BoardID, true)
		if err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to load sprints", err.Error())
		}
		items, err := repos.WorkItems.FindByBoardID(ctx, sprint.BoardID, repository.WorkItemFilter{SprintID: &sprint.ID})
		if err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to load sprint items", err.Error())
		}

		result, err = engine.DeleteSprint(*sprint, engine.ItemAction(req.Action), req.TargetSprintID, sprints, items, s.clock(), s.undoWindow)
		if err != nil {
			return engineError(err)
		}
		if err := repos.Sprints.Update(ctx, &result.Sprint); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to delete sprint", err.Error())
		}
		if err := repos.WorkItems.SaveBatch(ctx, result.Items); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to release sprint items", err.Error())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordSoftDelete(engine.UndoEntitySprint, "delete")
	}
	if len(result.SkippedItemIDs) > 0 {
		s.logger.Warn("Sprint deleted with unplaced items",
			zap.String("sprint_id", id.String()),
			zap.Int("skipped_items", len(result.SkippedItemIDs)),
		)
	}

	return &dto.DeleteResponse{
		Undo:           toUndoResponse(result.Undo),
		AffectedItems:  len(result.Items),
		SkippedItemIDs: uuidList(result.SkippedItemIDs),
	}, nil
}

// RestoreSprint returns a deleted sprint to PLANNED. Items it released stay where they are.
func (s *sprintServiceImpl) RestoreSprint(ctx context.Context, id uuid.UUID) (*dto.SprintResponse, error) {
	sprint, err := s.repos.Sprints.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Sprint")
	}
	restored, err := engine.RestoreSprint(*sprint, s.clock())
	if err != nil {
		return nil, engineError(err)
	}
	if err := s.repos.Sprints.Update(ctx, &restored); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to restore sprint", err.Error())
	}
	if s.metrics != nil {
		s.metrics.RecordSoftDelete(engine.UndoEntitySprint, "restore")
	}

	resp := toSprintResponse(restored)
	return &resp, nil
}

func (s *sprintServiceImpl) Tick(ctx context.Context) ([]engine.SprintTransition, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveSchedulerRun(time.Since(start).Seconds())
		}
	}()

	sprints, err := s.repos.Sprints.FindSchedulable(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load sprints", err.Error())
	}

	next, transitions := engine.Tick(sprints, s.clock())
	if len(transitions) == 0 {
		return nil, nil
	}
	moved := make(map[uuid.UUID]bool, len(transitions))
	for _, t := range transitions {
		moved[t.SprintID] = true
	}
	changed := make([]domain.Sprint, 0, len(transitions))
	for _, sp := range next {
		if moved[sp.ID] {
			changed = append(changed, sp)
		}
	}

	err = s.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		return repos.Sprints.SaveBatch(ctx, changed)
	})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to save sprint transitions", err.Error())
	}

	for _, t := range transitions {
		if s.metrics != nil {
			s.metrics.RecordSprintTransition(string(t.From), string(t.To))
		}
		s.logger.Info("Sprint state advanced",
			zap.String("sprint_id", t.SprintID.String()),
			zap.String("board_id", t.BoardID.String()),
			zap.String("from", string(t.From)),
			zap.String("to", string(t.To)),
		)
	}
	return transitions, nil
}
