package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sprint-board-api/internal/client"
	"sprint-board-api/internal/domain"
)

type settings struct {
	Theme    string    `json:"theme"`
	WIPLimit int       `json:"wip_limit"`
	SavedAt  time.Time `json:"saved_at"`
}

func setupGormStore(t *testing.T) *GormStore {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Snapshot{}))
	return NewGormStore(db)
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"gorm":   setupGormStore(t),
		"s3":     NewS3Store(client.NewMockS3Client()),
	}
}

func TestLoadSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	want := settings{Theme: "dark", WIPLimit: 3, SavedAt: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)}

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Save(ctx, store, "settings", want))
			got := Load(ctx, store, "settings", settings{})
			assert.Equal(t, want.Theme, got.Theme)
			assert.Equal(t, want.WIPLimit, got.WIPLimit)
			assert.True(t, want.SavedAt.Equal(got.SavedAt))

			// overwrite in place
			want.WIPLimit = 5
			require.NoError(t, Save(ctx, store, "settings", want))
			assert.Equal(t, 5, Load(ctx, store, "settings", settings{}).WIPLimit)
		})
	}
}

func TestLoad_FallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	def := settings{Theme: "light"}

	tests := []struct {
		name  string
		setup func(s Store)
	}{
		{
			name:  "키 없음",
			setup: func(s Store) {},
		},
		{
			name: "버전 불일치",
			setup: func(s Store) {
				_ = s.Put(ctx, Key("settings"), Envelope{V: 2, Data: json.RawMessage(`{"theme":"dark"}`)})
			},
		},
		{
			name: "디코딩 실패",
			setup: func(s Store) {
				_ = s.Put(ctx, Key("settings"), Envelope{V: 1, Data: json.RawMessage(`"not an object"`)})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			tt.setup(store)
			assert.Equal(t, def, Load(ctx, store, "settings", def))
		})
	}
}

func TestSave_UsesNamespaceAndEnvelope(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, Save(ctx, store, "epics", []string{"a"}))

	env, err := store.Get(ctx, "so.epics")
	require.NoError(t, err)
	assert.Equal(t, 1, env.V)
	assert.JSONEq(t, `["a"]`, string(env.Data))

	_, err = store.Get(ctx, "epics")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Store_ReadErrorYieldsDefault(t *testing.T) {
	mock := client.NewMockS3Client()
	mock.GetObjectFunc = func(ctx context.Context, key string) ([]byte, error) {
		return nil, errors.New("access denied")
	}
	store := NewS3Store(mock)

	got := Load(context.Background(), store, "settings", settings{Theme: "fallback"})
	assert.Equal(t, "fallback", got.Theme)
}

func TestMirrorStore(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	mock := client.NewMockS3Client()
	secondary := NewS3Store(mock)
	mirror := MirrorStore{Primary: primary, Secondary: secondary, Logger: zap.NewNop()}

	require.NoError(t, Save(ctx, mirror, "board", map[string]int{"n": 1}))

	_, err := primary.Get(ctx, "so.board")
	assert.NoError(t, err)
	_, err = mock.GetObject(ctx, "so.board.json")
	assert.NoError(t, err)

	mock.PutObjectFunc = func(ctx context.Context, key string, body []byte, contentType string) error {
		return errors.New("bucket unavailable")
	}
	assert.NoError(t, Save(ctx, mirror, "board", map[string]int{"n": 2}))
	assert.Equal(t, 2, Load(ctx, mirror, "board", map[string]int{})["n"])
}
