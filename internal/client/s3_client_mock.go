package client

import (
	"context"
	"fmt"
	"sync"
)

// MockS3Client implements S3ClientInterface in memory for tests and local runs
type MockS3Client struct {
	Bucket string

	mu      sync.Mutex
	objects map[string][]byte

	// Optional function overrides for custom test behavior
	PutObjectFunc    func(ctx context.Context, key string, body []byte, contentType string) error
	GetObjectFunc    func(ctx context.Context, key string) ([]byte, error)
	DeleteObjectFunc func(ctx context.Context, key string) error
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket:  "test-bucket",
		objects: make(map[string][]byte),
	}
}

func (m *MockS3Client) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, key, body, contentType)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), body...)
	return nil
}

func (m *MockS3Client) GetObject(ctx context.Context, key string) ([]byte, error) {
	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MockS3Client) DeleteObject(ctx context.Context, key string) error {
	if m.DeleteObjectFunc != nil {
		return m.DeleteObjectFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MockS3Client) GetObjectURL(key string) string {
	return fmt.Sprintf("mem://%s/%s", m.Bucket, key)
}
