package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"sprint-board-api/internal/engine"
)

// SpotlightStore keeps the single spotlight slot of each board
type SpotlightStore interface {
	Get(ctx context.Context, boardID uuid.UUID) (engine.Spotlight, error)
	Set(ctx context.Context, boardID uuid.UUID, spotlight engine.Spotlight) error
}

type redisSpotlightStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSpotlightStore stores spotlights under spotlight:board:<id>
func NewRedisSpotlightStore(client *redis.Client, ttl time.Duration) SpotlightStore {
	return &redisSpotlightStore{client: client, ttl: ttl}
}

func spotlightKey(boardID uuid.UUID) string {
	return fmt.Sprintf("spotlight:board:%s", boardID.String())
}

func (s *redisSpotlightStore) Get(ctx context.Context, boardID uuid.UUID) (engine.Spotlight, error) {
	data, err := s.client.Get(ctx, spotlightKey(boardID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return engine.Spotlight{}, nil
		}
		return engine.Spotlight{}, err
	}
	var spotlight engine.Spotlight
	if err := json.Unmarshal(data, &spotlight); err != nil {
		return engine.Spotlight{}, err
	}
	return spotlight, nil
}

func (s *redisSpotlightStore) Set(ctx context.Context, boardID uuid.UUID, spotlight engine.Spotlight) error {
	data, err := json.Marshal(spotlight)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, spotlightKey(boardID), data, s.ttl).Err()
}

type memorySpotlightStore struct {
	mu    sync.RWMutex
	slots map[uuid.UUID]engine.Spotlight
}

// NewMemorySpotlightStore keeps spotlights in process memory
func NewMemorySpotlightStore() SpotlightStore {
	return &memorySpotlightStore{slots: make(map[uuid.UUID]engine.Spotlight)}
}

func (s *memorySpotlightStore) Get(ctx context.Context, boardID uuid.UUID) (engine.Spotlight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[boardID], nil
}

func (s *memorySpotlightStore) Set(ctx context.Context, boardID uuid.UUID, spotlight engine.Spotlight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[boardID] = spotlight
	return nil
}
