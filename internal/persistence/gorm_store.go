package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sprint-board-api/internal/domain"
)

// GormStore keeps envelopes in the snapshots table
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, key string) (Envelope, error) {
	var snap domain.Snapshot
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&snap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Envelope{}, ErrNotFound
		}
		return Envelope{}, err
	}
	return Envelope{V: snap.Version, Data: []byte(snap.Data)}, nil
}

func (s *GormStore) Put(ctx context.Context, key string, env Envelope) error {
	snap := domain.Snapshot{
		Key:       key,
		Version:   env.V,
		Data:      datatypes.JSON(env.Data),
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "data", "updated_at"}),
	}).Create(&snap).Error
}
