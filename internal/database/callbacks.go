package database

import (
	"time"

	"gorm.io/gorm"
)

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

const queryStartKey = "metrics:query_start_time"

type registerFunc func(name string, fn func(*gorm.DB)) error

// RegisterMetricsCallbacks times every select, insert, update and delete
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) {
	cb := db.Callback()
	register(cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register, "select", recorder)
	register(cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register, "insert", recorder)
	register(cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register, "update", recorder)
	register(cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register, "delete", recorder)
}

func register(before, after registerFunc, operation string, recorder MetricsRecorder) {
	_ = before("metrics:"+operation+"_before", func(db *gorm.DB) {
		db.InstanceSet(queryStartKey, time.Now())
	})

	_ = after("metrics:"+operation+"_after", func(db *gorm.DB) {
		start, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		recorder.RecordDBQuery(operation, table, time.Since(start.(time.Time)), db.Error)
	})
}
