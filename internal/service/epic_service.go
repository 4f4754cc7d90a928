package service

import (
	"context"
	"strings"
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

// EpicService defines the interface for epic business logic
type EpicService interface {
	CreateEpic(ctx context.Context, boardID uuid.UUID, req *dto.CreateEpicRequest) (*dto.EpicResponse, error)
	ListEpics(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]dto.EpicResponse, error)
	UpdateEpic(ctx context.Context, id uuid.UUID, req *dto.UpdateEpicRequest) (*dto.EpicResponse, error)
	UpdateEpicStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateEpicStatusRequest) (*dto.EpicResponse, error)
	DeleteEpic(ctx context.Context, id uuid.UUID) (*dto.DeleteResponse, error)
	RestoreEpic(ctx context.Context, id uuid.UUID) (*dto.EpicResponse, error)
}

// epicServiceImpl is the implementation of EpicService
type epicServiceImpl struct {
	repos      repository.Repositories
	tx         repository.Transactor
	undoWindow time.Duration
	clock      Clock
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewEpicService creates a new instance of EpicService
func NewEpicService(
	repos repository.Repositories,
	tx repository.Transactor,
	undoWindow time.Duration,
	clock Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) EpicService {
	if clock == nil {
		clock = systemClock
	}
	return &epicServiceImpl{
		repos:      repos,
		tx:         tx,
		undoWindow: undoWindow,
		clock:      clock,
		metrics:    m,
		logger:     logger,
	}
}

// CreateEpic creates an epic. Omitted ICE values default to 5 and the
// color follows the board's palette order.
func (s *epicServiceImpl) CreateEpic(ctx context.Context, boardID uuid.UUID, req *dto.CreateEpicRequest) (*dto.EpicResponse, error) {
	if _, err := userIDFromContext(ctx); err != nil {
		return nil, err
	}
	if err := requireBoard(ctx, s.repos, boardID); err != nil {
		return nil, err
	}

	impact := orDefault(req.Impact, domain.ICEDefault)
	confidence := orDefault(req.Confidence, domain.ICEDefault)
	ease := orDefault(req.Ease, domain.ICEDefault)
	if err := engine.ValidateICE(impact, confidence, ease); err != nil {
		return nil, engineError(err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = domain.DefaultEpicName
	}

	color := req.Color
	if color == "" {
		count, err := s.repos.Epics.CountByBoardID(ctx, boardID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count epics", err.Error())
		}
		color = domain.ColorFor(int(count))
	}

	epic := &domain.Epic{
		BoardID:     boardID,
		Name:        name,
		Description: req.Description,
		Color:       color,
		Status:      domain.EpicStatusActive,
		Impact:      impact,
		Confidence:  confidence,
		Ease:        ease,
		ICEScore:    domain.ComputeICEScore(impact, confidence, ease),
	}
	if err := s.repos.Epics.Create(ctx, epic); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create epic", err.Error())
	}

	resp := toEpicResponse(domain.EnrichedEpic{Epic: *epic})
	return &resp, nil
}

// ListEpics returns the board's epics with progress derived from their items
func (s *epicServiceImpl) ListEpics(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]dto.EpicResponse, error) {
	epics, err := s.repos.Epics.FindByBoardID(ctx, boardID, includeDeleted)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list epics", err.Error())
	}
	items, err := s.repos.WorkItems.FindByBoardID(ctx, boardID, repository.WorkItemFilter{})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list work items", err.Error())
	}

	enriched := engine.EnrichEpics(epics, items)
	out := make([]dto.EpicResponse, 0, len(enriched))
	for _, e := range enriched {
		out = append(out, toEpicResponse(e))
	}
	return out, nil
}

// UpdateEpic edits an epic and recomputes its ICE score. A new name or
// color is copied onto the items that carry the epic label.
func (s *epicServiceImpl) UpdateEpic(ctx context.Context, id uuid.UUID, req *dto.UpdateEpicRequest) (*dto.EpicResponse, error) {
	var result domain.EnrichedEpic
	err := s.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		epic, err := repos.Epics.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "Epic")
		}
		if epic.IsDeleted() {
			return engineError(engine.ErrAlreadyDeleted)
		}

		updated := *epic
		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				return response.NewValidationError("Name must not be empty", "")
			}
			updated.Name = *req.Name
		}
		if req.Description != nil {
			updated.Description = *req.Description
		}
		if req.Color != nil {
			updated.Color = *req.Color
		}
		if req.Impact != nil {
			updated.Impact = *req.Impact
		}
		if req.Confidence != nil {
			updated.Confidence = *req.Confidence
		}
		if req.Ease != nil {
			updated.Ease = *req.Ease
		}
		if err := engine.ValidateICE(updated.Impact, updated.Confidence, updated.Ease); err != nil {
			return engineError(err)
		}
		updated.ICEScore = domain.ComputeICEScore(updated.Impact, updated.Confidence, updated.Ease)
		updated.UpdatedAt = s.clock()

		if err := repos.Epics.Update(ctx, &updated); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to update epic", err.Error())
		}

		items, err := repos.WorkItems.FindByBoardID(ctx, updated.BoardID, repository.WorkItemFilter{EpicID: &updated.ID})
		if err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to load epic items", err.Error())
		}
		if updated.Info() != epic.Info() {
			info := updated.Info()
			relabeled := make([]domain.WorkItem, 0, len(items))
			for _, item := range items {
				c := item.Clone()
				c.EpicInfo = &info
				relabeled = append(relabeled, c)
			}
			if err := repos.WorkItems.SaveBatch(ctx, relabeled); err != nil {
				return response.NewAppError(response.ErrCodeInternal, "Failed to relabel epic items", err.Error())
			}
		}

		result = engine.ComputeProgress(updated, items)
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toEpicResponse(result)
	return &resp, nil
}

// UpdateEpicStatus changes an epic's status. DELETED goes through the
// delete flow so the epic's items are detached.
func (s *epicServiceImpl) UpdateEpicStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateEpicStatusRequest) (*dto.EpicResponse, error) {
	status := domain.EpicStatus(req.Status)
	if status == domain.EpicStatusDeleted {
		deleted, _, err := s.deleteEpic(ctx, id)
		if err != nil {
			return nil, err
		}
		resp := toEpicResponse(domain.EnrichedEpic{Epic: deleted})
		return &resp, nil
	}

	epic, err := s.repos.Epics.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Epic")
	}
	items, err := s.repos.WorkItems.FindByBoardID(ctx, epic.BoardID, repository.WorkItemFilter{EpicID: &epic.ID})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load epic items", err.Error())
	}

	updated, err := engine.UpdateEpicStatus(*epic, status, items, s.clock())
	if err != nil {
		return nil, engineError(err)
	}
	if updated.Status != epic.Status {
		if err := s.repos.Epics.Update(ctx, &updated); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update epic status", err.Error())
		}
	}

	resp := toEpicResponse(engine.ComputeProgress(updated, items))
	return &resp, nil
}

// DeleteEpic soft-deletes an epic and detaches its items in one transaction
func (s *epicServiceImpl) DeleteEpic(ctx context.Context, id uuid.UUID) (*dto.DeleteResponse, error) {
	_, result, err := s.deleteEpic(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.DeleteResponse{
		Undo:           toUndoResponse(result.Undo),
		AffectedItems:  len(result.Items),
		SkippedItemIDs: []uuid.UUID{},
	}, nil
}

func (s *epicServiceImpl) deleteEpic(ctx context.Context, id uuid.UUID) (domain.Epic, engine.EpicDeleteResult, error) {
	var result engine.EpicDeleteResult
	err := s.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		epic, err := repos.Epics.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "Epic")
		}
		items, err := repos.WorkItems.FindByBoardID(ctx, epic.BoardID, repository.WorkItemFilter{EpicID: &epic.ID})
		if err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to load epic items", err.Error())
		}

		result, err = engine.DeleteEpic(*epic, items, engine.ItemActionDetach, s.clock(), s.undoWindow)
		if err != nil {
			return engineError(err)
		}
		if err := repos.Epics.Update(ctx, &result.Epic); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to delete epic", err.Error())
		}
		if err := repos.WorkItems.SaveBatch(ctx, result.Items); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to detach epic items", err.Error())
		}
		return nil
	})
	if err != nil {
		return domain.Epic{}, engine.EpicDeleteResult{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordSoftDelete(engine.UndoEntityEpic, "delete")
	}
	s.logger.Info("Epic deleted",
		zap.String("epic_id", id.String()),
		zap.Int("detached_items", len(result.Items)),
	)
	return result.Epic, result, nil
}

// RestoreEpic brings a deleted epic back as ACTIVE
func (s *epicServiceImpl) RestoreEpic(ctx context.Context, id uuid.UUID) (*dto.EpicResponse, error) {
	epic, err := s.repos.Epics.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Epic")
	}
	restored, err := engine.RestoreEpic(*epic, s.clock())
	if err != nil {
		return nil, engineError(err)
	}
	if err := s.repos.Epics.Update(ctx, &restored); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to restore epic", err.Error())
	}
	if s.metrics != nil {
		s.metrics.RecordSoftDelete(engine.UndoEntityEpic, "restore")
	}

	resp := toEpicResponse(domain.EnrichedEpic{Epic: restored})
	return &resp, nil
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
