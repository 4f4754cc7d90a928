package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

const (
	// Namespace prefixes every stored key
	Namespace = "so."
	// Version is the envelope version Load accepts
	Version = 1
)

// ErrNotFound is returned by a Store when nothing is stored under a key
var ErrNotFound = errors.New("snapshot not found")

// Envelope wraps stored data with its format version
type Envelope struct {
	V    int             `json:"v"`
	Data json.RawMessage `json:"data"`
}

// Store keeps envelopes by fully namespaced key
type Store interface {
	Get(ctx context.Context, key string) (Envelope, error)
	Put(ctx context.Context, key string, env Envelope) error
}

// Key returns the namespaced form of key
func Key(key string) string {
	return Namespace + key
}

// Load reads key and decodes it into T. A missing record, a version other
// than Version, or any read or decode failure yields def.
func Load[T any](ctx context.Context, store Store, key string, def T) T {
	env, err := store.Get(ctx, Key(key))
	if err != nil || env.V != Version {
		return def
	}
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return def
	}
	return out
}

// Save encodes data under key with the current version
func Save[T any](ctx context.Context, store Store, key string, data T) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Put(ctx, Key(key), Envelope{V: Version, Data: raw}); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// MemoryStore is a Store held in process memory
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Envelope
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]Envelope)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	env, ok := s.data[key]
	if !ok {
		return Envelope{}, ErrNotFound
	}
	return env, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = env
	return nil
}
