package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sprint-board-api/internal/domain"
)

// WorkItemFilter narrows a board's work item listing
type WorkItemFilter struct {
	SprintID *uuid.UUID
	EpicID   *uuid.UUID
	Status   *domain.Status
}

// WorkItemRepository defines the interface for work item data access
type WorkItemRepository interface {
	Create(ctx context.Context, item *domain.WorkItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.WorkItem, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID, filter WorkItemFilter) ([]domain.WorkItem, error)
	FindAll(ctx context.Context) ([]domain.WorkItem, error)
	Update(ctx context.Context, item *domain.WorkItem) error
	SaveBatch(ctx context.Context, items []domain.WorkItem) error
}

// workItemRepositoryImpl is the GORM implementation of WorkItemRepository
type workItemRepositoryImpl struct {
	db *gorm.DB
}

// NewWorkItemRepository creates a new instance of WorkItemRepository
func NewWorkItemRepository(db *gorm.DB) WorkItemRepository {
	return &workItemRepositoryImpl{db: db}
}

// Create creates a new work item
func (r *workItemRepositoryImpl) Create(ctx context.Context, item *domain.WorkItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a work item by ID
func (r *workItemRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.WorkItem, error) {
	var item domain.WorkItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByBoardID lists a board's work items, oldest first
func (r *workItemRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID, filter WorkItemFilter) ([]domain.WorkItem, error) {
	query := r.db.WithContext(ctx).Where("board_id = ?", boardID)
	if filter.SprintID != nil {
		query = query.Where("sprint_id = ?", *filter.SprintID)
	}
	if filter.EpicID != nil {
		query = query.Where("epic_id = ?", *filter.EpicID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var items []domain.WorkItem
	if err := query.Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll returns every work item across boards
func (r *workItemRepositoryImpl) FindAll(ctx context.Context) ([]domain.WorkItem, error) {
	var items []domain.WorkItem
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update saves every column of item
func (r *workItemRepositoryImpl) Update(ctx context.Context, item *domain.WorkItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return err
	}
	return nil
}

// SaveBatch saves each item. Callers wrap it in a transaction when the
// batch must apply atomically.
func (r *workItemRepositoryImpl) SaveBatch(ctx context.Context, items []domain.WorkItem) error {
	for i := range items {
		if err := r.db.WithContext(ctx).Save(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
