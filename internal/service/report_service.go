package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sprint-board-api/internal/domain"
	"sprint-board-api/internal/dto"
	"sprint-board-api/internal/engine"
	"sprint-board-api/internal/repository"
	"sprint-board-api/internal/response"
)

// ReportService defines the interface for board analytics
type ReportService interface {
	Velocity(ctx context.Context, boardID uuid.UUID) (*engine.VelocityReport, error)
	Burndown(ctx context.Context, sprintID uuid.UUID) (*engine.BurndownReport, error)
	Workload(ctx context.Context, boardID uuid.UUID) ([]engine.WorkloadRow, error)
	EpicProgress(ctx context.Context, boardID uuid.UUID) ([]dto.EpicProgressResponse, error)
}

// reportServiceImpl is the implementation of ReportService
type reportServiceImpl struct {
	repos    repository.Repositories
	wipLimit int
	logger   *zap.Logger
}

// NewReportService creates a new instance of ReportService
func NewReportService(repos repository.Repositories, wipLimit int, logger *zap.Logger) ReportService {
	return &reportServiceImpl{
		repos:    repos,
		wipLimit: wipLimit,
		logger:   logger,
	}
}

// Velocity credits done estimation to the sprint each item was completed in
func (s *reportServiceImpl) Velocity(ctx context.Context, boardID uuid.UUID) (*engine.VelocityReport, error) {
	items, err := s.boardItems(ctx, boardID)
	if err != nil {
		return nil, err
	}
	sprints, err := s.repos.Sprints.FindByBoardID(ctx, boardID, false)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load sprints", err.Error())
	}
	report := engine.Velocity(items, sprints)
	return &report, nil
}

// Burndown charts the remaining estimation of one sprint
func (s *reportServiceImpl) Burndown(ctx context.Context, sprintID uuid.UUID) (*engine.BurndownReport, error) {
	sprint, err := s.repos.Sprints.FindByID(ctx, sprintID)
	if err != nil {
		return nil, notFoundOr(err, "Sprint")
	}
	items, err := s.repos.WorkItems.FindByBoardID(ctx, sprint.BoardID, repository.WorkItemFilter{SprintID: &sprint.ID})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load sprint items", err.Error())
	}
	report := engine.Burndown(*sprint, items)
	return &report, nil
}

// Workload reports the open work of every board member
func (s *reportServiceImpl) Workload(ctx context.Context, boardID uuid.UUID) ([]engine.WorkloadRow, error) {
	members, err := s.repos.Boards.FindMembers(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load board members", err.Error())
	}
	userIDs := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}

	items, err := s.boardItems(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return engine.Workload(items, userIDs, s.wipLimit), nil
}

// EpicProgress lists live epics with their progress, best ICE score first
func (s *reportServiceImpl) EpicProgress(ctx context.Context, boardID uuid.UUID) ([]dto.EpicProgressResponse, error) {
	epics, err := s.repos.Epics.FindByBoardID(ctx, boardID, false)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load epics", err.Error())
	}
	items, err := s.boardItems(ctx, boardID)
	if err != nil {
		return nil, err
	}

	rows := engine.EpicProgressReport(engine.EnrichEpics(engine.ActiveEpics(epics), items))
	out := make([]dto.EpicProgressResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.EpicProgressResponse{
			Epic:            toEpicResponse(row.Epic),
			TotalItems:      row.TotalItems,
			DoneItems:       row.DoneItems,
			TotalEstimation: row.TotalEstimation,
			DoneEstimation:  row.DoneEstimation,
			Progress:        row.Progress,
		})
	}
	return out, nil
}

func (s *reportServiceImpl) boardItems(ctx context.Context, boardID uuid.UUID) ([]domain.WorkItem, error) {
	items, err := s.repos.WorkItems.FindByBoardID(ctx, boardID, repository.WorkItemFilter{})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load work items", err.Error())
	}
	return items, nil
}
