package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sprint-board-api/internal/domain"
)

// mockMetricsRecorder is a mock implementation of MetricsRecorder for testing
type mockMetricsRecorder struct {
	queries []queryRecord
	dbStats []sql.DBStats
}

type queryRecord struct {
	operation string
	table     string
	duration  time.Duration
	err       error
}

func (m *mockMetricsRecorder) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.queries = append(m.queries, queryRecord{operation: operation, table: table, duration: duration, err: err})
}

func (m *mockMetricsRecorder) UpdateDBStats(stats interface{}) {
	if dbStats, ok := stats.(sql.DBStats); ok {
		m.dbStats = append(m.dbStats, dbStats)
	}
}

func (m *mockMetricsRecorder) operations() []string {
	ops := make([]string, 0, len(m.queries))
	for _, q := range m.queries {
		ops = append(ops, q.operation)
	}
	return ops
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, AutoMigrate(db))
	return db
}

// **Feature: sprint-board-prometheus-metrics, Property 5: GORM 쿼리 메트릭 기록**
func TestRegisterMetricsCallbacks_RecordsEveryOperation(t *testing.T) {
	db := setupTestDB(t)
	recorder := &mockMetricsRecorder{}
	RegisterMetricsCallbacks(db, recorder)

	epic := domain.Epic{BoardID: uuid.New(), Name: "Search", Status: domain.EpicStatusActive, Impact: 5, Confidence: 5, Ease: 5}
	require.NoError(t, db.Create(&epic).Error)

	var found domain.Epic
	require.NoError(t, db.First(&found, "id = ?", epic.ID).Error)

	require.NoError(t, db.Model(&found).Update("name", "Search v2").Error)
	require.NoError(t, db.Delete(&found).Error)

	assert.Equal(t, []string{"insert", "select", "update", "delete"}, recorder.operations())
	for _, q := range recorder.queries {
		assert.Equal(t, "epics", q.table)
		assert.NoError(t, q.err)
		assert.GreaterOrEqual(t, q.duration, time.Duration(0))
	}
}

func TestRegisterMetricsCallbacks_RecordsErrors(t *testing.T) {
	db := setupTestDB(t)
	recorder := &mockMetricsRecorder{}
	RegisterMetricsCallbacks(db, recorder)

	var missing domain.Epic
	err := db.First(&missing, "id = ?", uuid.New()).Error

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.Len(t, recorder.queries, 1)
	assert.ErrorIs(t, recorder.queries[0].err, gorm.ErrRecordNotFound)
}

func TestNew_SQLite(t *testing.T) {
	db, err := New(Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, IsConnected(db))
	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable(&domain.WorkItem{}))
	assert.True(t, db.Migrator().HasTable(&domain.Snapshot{}))
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(Config{Driver: "oracle"})

	assert.Error(t, err)
}
