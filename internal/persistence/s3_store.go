package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"sprint-board-api/internal/client"
)

// S3Store keeps each envelope as a JSON object
type S3Store struct {
	s3 client.S3ClientInterface
}

// NewS3Store creates an S3Store
func NewS3Store(s3 client.S3ClientInterface) *S3Store {
	return &S3Store{s3: s3}
}

func objectName(key string) string {
	return key + ".json"
}

func (s *S3Store) Get(ctx context.Context, key string) (Envelope, error) {
	data, err := s.s3.GetObject(ctx, objectName(key))
	if err != nil {
		if errors.Is(err, client.ErrObjectNotFound) {
			return Envelope{}, ErrNotFound
		}
		return Envelope{}, err
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

func (s *S3Store) Put(ctx context.Context, key string, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.s3.PutObject(ctx, objectName(key), data, "application/json")
}

// MirrorStore reads from Primary and writes to both stores. A failed write
// to Secondary is logged and does not fail the save.
type MirrorStore struct {
	Primary   Store
	Secondary Store
	Logger    *zap.Logger
}

func (m MirrorStore) Get(ctx context.Context, key string) (Envelope, error) {
	return m.Primary.Get(ctx, key)
}

func (m MirrorStore) Put(ctx context.Context, key string, env Envelope) error {
	if err := m.Primary.Put(ctx, key, env); err != nil {
		return err
	}
	if m.Secondary == nil {
		return nil
	}
	if err := m.Secondary.Put(ctx, key, env); err != nil && m.Logger != nil {
		m.Logger.Warn("failed to mirror snapshot", zap.String("key", key), zap.Error(err))
	}
	return nil
}
