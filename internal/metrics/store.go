package metrics

import (
	"context"
	"database/sql"
	"time"

	"meal-shopping-planner/internal/metrics/metrics_db"
)

// Operations recorded by the application.
const (
	OpGenerate  = "generate"
	OpReconcile = "reconcile"
	OpPopulate  = "populate"
)

// ExecutionMetric records metadata for a single list or plan operation.
type ExecutionMetric struct {
	Operation string
	ListID    string
	Items     int
	LatencyMS int64
	Timestamp time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
	db      *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
		db:      db,
	}
}

// Record saves a metric to the database.
func (s *Store) Record(m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	return s.queries.InsertExecutionMetric(context.Background(), metricsdb.InsertExecutionMetricParams{
		Operation: m.Operation,
		ListID:    m.ListID,
		Items:     int64(m.Items),
		LatencyMs: m.LatencyMS,
		Timestamp: ts,
	})
}

// Measure builds a metric for an operation that started at start.
func Measure(operation, listID string, items int, start time.Time) ExecutionMetric {
	return ExecutionMetric{
		Operation: operation,
		ListID:    listID,
		Items:     items,
		LatencyMS: time.Since(start).Milliseconds(),
		Timestamp: time.Now().UTC(),
	}
}

// DailyActivity summarizes one operation on a single day.
type DailyActivity struct {
	Date         string
	Operation    string
	Runs         int
	Items        int
	AvgLatencyMS int64
}

// GetDailyActivity retrieves activity for the last N days, newest first.
func (s *Store) GetDailyActivity(days int) ([]DailyActivity, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.queries.GetDailyActivity(context.Background(), since)
	if err != nil {
		return nil, err
	}

	var results []DailyActivity
	for _, r := range rows {
		a := DailyActivity{
			Operation: r.Operation,
			Runs:      int(r.Runs),
		}

		if day, ok := r.Day.(string); ok {
			a.Date = day
		} else {
			a.Date = "Unknown"
		}

		if r.Sum.Valid {
			a.Items = int(r.Sum.Float64)
		}
		if r.Avg.Valid {
			a.AvgLatencyMS = int64(r.Avg.Float64)
		}

		results = append(results, a)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	return s.queries.CleanupExecutionMetrics(context.Background(), threshold)
}
