package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sprint-board-api/internal/domain"
)

// EpicRepository defines the interface for epic data access
type EpicRepository interface {
	Create(ctx context.Context, epic *domain.Epic) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Epic, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]domain.Epic, error)
	CountByBoardID(ctx context.Context, boardID uuid.UUID) (int64, error)
	Update(ctx context.Context, epic *domain.Epic) error
}

// epicRepositoryImpl is the GORM implementation of EpicRepository
type epicRepositoryImpl struct {
	db *gorm.DB
}

// NewEpicRepository creates a new instance of EpicRepository
func NewEpicRepository(db *gorm.DB) EpicRepository {
	return &epicRepositoryImpl{db: db}
}

// Create creates a new epic
func (r *epicRepositoryImpl) Create(ctx context.Context, epic *domain.Epic) error {
	if err := r.db.WithContext(ctx).Create(epic).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds an epic by ID, deleted or not
func (r *epicRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Epic, error) {
	var epic domain.Epic
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&epic).Error; err != nil {
		return nil, err
	}
	return &epic, nil
}

// FindByBoardID lists a board's epics in creation order
func (r *epicRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID, includeDeleted bool) ([]domain.Epic, error) {
	query := r.db.WithContext(ctx).Where("board_id = ?", boardID)
	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}

	var epics []domain.Epic
	if err := query.Order("created_at ASC").Find(&epics).Error; err != nil {
		return nil, err
	}
	return epics, nil
}

// CountByBoardID counts every epic ever created on a board
func (r *epicRepositoryImpl) CountByBoardID(ctx context.Context, boardID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Epic{}).
		Where("board_id = ?", boardID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update saves every column of epic
func (r *epicRepositoryImpl) Update(ctx context.Context, epic *domain.Epic) error {
	if err := r.db.WithContext(ctx).Save(epic).Error; err != nil {
		return err
	}
	return nil
}
