package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pomodoro/internal/core/model"
)

// Record is one completed interval.
type Record struct {
	ID             int64
	Interval       model.IntervalType
	PlannedSeconds int
	StartedAt      time.Time
	CompletedAt    time.Time
}

// History stores completed intervals in SQLite.
type History struct {
	db *sql.DB
}

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string) (*History, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// A single connection keeps :memory: databases alive across queries.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history: %w", err)
	}

	history := &History{db: db}
	if err := history.initTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return history, nil
}

func (history *History) initTables() error {
	_, err := history.db.Exec(`
        CREATE TABLE IF NOT EXISTS completed_intervals (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            interval_type TEXT NOT NULL,
            planned_seconds INTEGER NOT NULL,
            started_at INTEGER NOT NULL,
            completed_at INTEGER NOT NULL
        )
    `)
	if err != nil {
		return fmt.Errorf("create completed_intervals: %w", err)
	}

	_, err = history.db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_completed_intervals_completed_at
        ON completed_intervals (completed_at)
    `)
	if err != nil {
		return fmt.Errorf("create completed_at index: %w", err)
	}
	return nil
}

// Add stores a completed interval and sets its ID.
func (history *History) Add(ctx context.Context, record *Record) error {
	result, err := history.db.ExecContext(ctx, `
        INSERT INTO completed_intervals (interval_type, planned_seconds, started_at, completed_at)
        VALUES (?, ?, ?, ?)
    `, string(record.Interval), record.PlannedSeconds, record.StartedAt.UnixMilli(), record.CompletedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert completed interval: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("completed interval id: %w", err)
	}
	record.ID = id
	return nil
}

// CountSince returns the number of completed intervals per type since the
// given instant.
func (history *History) CountSince(ctx context.Context, since time.Time) (map[model.IntervalType]int, error) {
	rows, err := history.db.QueryContext(ctx, `
        SELECT interval_type, COUNT(*)
        FROM completed_intervals
        WHERE completed_at >= ?
        GROUP BY interval_type
    `, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("count completed intervals: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.IntervalType]int)
	for rows.Next() {
		var intervalType string
		var count int
		if err := rows.Scan(&intervalType, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[model.IntervalType(intervalType)] = count
	}
	return counts, rows.Err()
}

// Recent returns up to limit completed intervals, newest first.
func (history *History) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := history.db.QueryContext(ctx, `
        SELECT id, interval_type, planned_seconds, started_at, completed_at
        FROM completed_intervals
        ORDER BY completed_at DESC, id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent intervals: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		var intervalType string
		var startedAt, completedAt int64
		if err := rows.Scan(&record.ID, &intervalType, &record.PlannedSeconds, &startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}
		record.Interval = model.IntervalType(intervalType)
		record.StartedAt = time.UnixMilli(startedAt)
		record.CompletedAt = time.UnixMilli(completedAt)
		records = append(records, record)
	}
	return records, rows.Err()
}

// Close releases the database.
func (history *History) Close() error {
	return history.db.Close()
}
