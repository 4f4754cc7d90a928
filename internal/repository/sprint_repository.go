package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sprint-board-api/internal/domain"
)

// SprintRepository defines the interface for sprint data access
type SprintRepository interface {
	Create(ctx context.Context, sprint *domain.Sprint) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Sprint, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]domain.Sprint, error)
	FindAll(ctx context.Context) ([]domain.Sprint, error)
	FindSchedulable(ctx context.Context) ([]domain.Sprint, error)
	CountByBoardID(ctx context.Context, boardID uuid.UUID) (int64, error)
	Update(ctx context.Context, sprint *domain.Sprint) error
	SaveBatch(ctx context.Context, sprints []domain.Sprint) error
}

// sprintRepositoryImpl is the GORM implementation of SprintRepository
type sprintRepositoryImpl struct {
	db *gorm.DB
}

// NewSprintRepository creates a new instance of SprintRepository
func NewSprintRepository(db *gorm.DB) SprintRepository {
	return &sprintRepositoryImpl{db: db}
}

// Create creates a new sprint
func (r *sprintRepositoryImpl) Create(ctx context.Context, sprint *domain.Sprint) error {
	if err := r.db.WithContext(ctx).Create(sprint).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a sprint by ID, deleted or not
func (r *sprintRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sprint, error) {
	var sprint domain.Sprint
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sprint).Error; err != nil {
		return nil, err
	}
	return &sprint, nil
}

// FindByBoardID lists a board's sprints by number
func (r *sprintRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]domain.Sprint, error) {
	query := r.db.WithContext(ctx).Where("board_id = ?", boardID)
	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}

	var sprints []domain.Sprint
	if err := query.Order("number ASC").Find(&sprints).Error; err != nil {
		return nil, err
	}
	return sprints, nil
}

// FindAll returns every sprint across boards
func (r *sprintRepositoryImpl) FindAll(ctx context.Context) ([]domain.Sprint, error) {
	var sprints []domain.Sprint
	if err := r.db.WithContext(ctx).Order("board_id ASC, number ASC").Find(&sprints).Error; err != nil {
		return nil, err
	}
	return sprints, nil
}

// FindSchedulable returns sprints the scheduler may still move: not closed
// and not deleted
func (r *sprintRepositoryImpl) FindSchedulable(ctx context.Context) ([]domain.Sprint, error) {
	var sprints []domain.Sprint
	if err := r.db.WithContext(ctx).
		Where("state <> ? AND deleted_at IS NULL", domain.SprintStateClosed).
		Order("board_id ASC, number ASC").
		Find(&sprints).Error; err != nil {
		return nil, err
	}
	return sprints, nil
}

// CountByBoardID counts every sprint ever created on a board, deleted included
func (r *sprintRepositoryImpl) CountByBoardID(ctx context.Context, boardID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Sprint{}).
		Where("board_id = ?", boardID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update saves every column of sprint
func (r *sprintRepositoryImpl) Update(ctx context.Context, sprint *domain.Sprint) error {
	if err := r.db.WithContext(ctx).Save(sprint).Error; err != nil {
		return err
	}
	return nil
}

// SaveBatch saves each sprint
func (r *sprintRepositoryImpl) SaveBatch(ctx context.Context, sprints []domain.Sprint) error {
	for i := range sprints {
		if err := r.db.WithContext(ctx).Save(&sprints[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
