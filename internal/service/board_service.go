package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sprint-board-api/internal/domain"
	"sprint-board-api/internal/dto"
	"sprint-board-api/internal/metrics"
	"sprint-board-api/internal/repository"
	"sprint-board-api/internal/response"
)

// Resource kinds a board id can be resolved from
const (
	ResourceBoard    = "board"
	ResourceWorkItem = "work_item"
	ResourceEpic     = "epic"
	ResourceSprint   = "sprint"
)

// BoardService defines the interface for board business logic
type BoardService interface {
	CreateBoard(ctx context.Context, req *dto.CreateBoardRequest) (*dto.BoardResponse, error)
	GetBoard(ctx context.Context, boardID uuid.UUID) (*dto.BoardResponse, error)
	AddMember(ctx context.Context, boardID uuid.UUID, req *dto.AddMemberRequest) (*dto.BoardResponse, error)
	Can(ctx context.Context, boardID, userID uuid.UUID, permission string) (bool, error)
	ResolveBoardID(ctx context.Context, resource string, id uuid.UUID) (uuid.UUID, error)
}

// boardServiceImpl is the implementation of BoardService
type boardServiceImpl struct {
	repos   repository.Repositories
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewBoardService creates a new instance of BoardService
func NewBoardService(repos repository.Repositories, m *metrics.Metrics, logger *zap.Logger) BoardService {
	return &boardServiceImpl{
		repos:   repos,
		metrics: m,
		logger:  logger,
	}
}

// CreateBoard creates a board owned by the caller
func (s *boardServiceImpl) CreateBoard(ctx context.Context, req *dto.CreateBoardRequest) (*dto.BoardResponse, error) {
	ownerID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	board := &domain.Board{
		Name:    req.Name,
		OwnerID: ownerID,
		Members: []domain.BoardMember{{UserID: ownerID, Role: domain.RoleOwner}},
	}
	if err := s.repos.Boards.Create(ctx, board); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create board", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementBoardCreated()
	}
	s.logger.Info("Board created",
		zap.String("board_id", board.ID.String()),
		zap.String("owner_id", ownerID.String()),
	)
	return toBoardResponse(board), nil
}

// GetBoard retrieves a board with its members
func (s *boardServiceImpl) GetBoard(ctx context.Context, boardID uuid.UUID) (*dto.BoardResponse, error) {
	board, err := s.repos.Boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, notFoundOr(err, "Board")
	}
	return toBoardResponse(board), nil
}

// AddMember grants a user a role, replacing any role they already had
func (s *boardServiceImpl) AddMember(ctx context.Context, boardID uuid.UUID, req *dto.AddMemberRequest) (*dto.BoardResponse, error) {
	role := domain.Role(req.Role)
	if !role.IsValid() {
		return nil, response.NewValidationError("Invalid role", req.Role)
	}

	board, err := s.repos.Boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, notFoundOr(err, "Board")
	}
	if req.UserID == board.OwnerID && role != domain.RoleOwner {
		return nil, response.NewAppError(response.ErrCodeConflict, "The board owner cannot be demoted", "")
	}

	member := &domain.BoardMember{BoardID: boardID, UserID: req.UserID, Role: role}
	if err := s.repos.Boards.UpsertMember(ctx, member); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add member", err.Error())
	}

	members, err := s.repos.Boards.FindMembers(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load members", err.Error())
	}
	board.Members = board.Members[:0]
	for _, m := range members {
		board.Members = append(board.Members, *m)
	}
	return toBoardResponse(board), nil
}

// Can reports whether userID holds permission on boardID. Non-members hold nothing.
func (s *boardServiceImpl) Can(ctx context.Context, boardID, userID uuid.UUID, permission string) (bool, error) {
	member, err := s.repos.Boards.FindMember(ctx, boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return member.Role.Can(permission), nil
}

// ResolveBoardID finds the board a resource belongs to
func (s *boardServiceImpl) ResolveBoardID(ctx context.Context, resource string, id uuid.UUID) (uuid.UUID, error) {
	switch resource {
	case ResourceBoard:
		if _, err := s.repos.Boards.FindByID(ctx, id); err != nil {
			return uuid.Nil, notFoundOr(err, "Board")
		}
		return id, nil
	case ResourceWorkItem:
		item, err := s.repos.WorkItems.FindByID(ctx, id)
		if err != nil {
			return uuid.Nil, notFoundOr(err, "Work item")
		}
		return item.BoardID, nil
	case ResourceEpic:
		epic, err := s.repos.Epics.FindByID(ctx, id)
		if err != nil {
			return uuid.Nil, notFoundOr(err, "Epic")
		}
		return epic.BoardID, nil
	case ResourceSprint:
		sprint, err := s.repos.Sprints.FindByID(ctx, id)
		if err != nil {
			return uuid.Nil, notFoundOr(err, "Sprint")
		}
		return sprint.BoardID, nil
	}
	return uuid.Nil, response.NewValidationError("Unknown resource", resource)
}
