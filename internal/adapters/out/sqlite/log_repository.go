package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/ports"
)

var logSchema = []string{
	`CREATE TABLE IF NOT EXISTS logs (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		source    TEXT NOT NULL,
		action    TEXT NOT NULL,
		level     TEXT NOT NULL,
		parcel_id TEXT,
		detail    TEXT NOT NULL,
		timestamp TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_parcel_id ON logs (parcel_id)`,
}

// LogRepository implements ports.LogRepository on SQLite. AUTOINCREMENT
// keeps ids increasing even after rows are deleted.
type LogRepository struct {
	db *sql.DB
}

var _ ports.LogRepository = (*LogRepository)(nil)

// NewLogRepository creates the logs table if it is missing.
func NewLogRepository(ctx context.Context, db *sql.DB) (*LogRepository, error) {
	if err := initSchema(ctx, db, logSchema); err != nil {
		return nil, fmt.Errorf("sqlite log repository: %w", err)
	}
	return &LogRepository{db: db}, nil
}

func (r *LogRepository) Append(ctx context.Context, entry *logentry.Entry) (*logentry.Entry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	detail, err := json.Marshal(entry.Detail())
	if err != nil {
		return nil, fmt.Errorf("append log: encode detail: %w", err)
	}

	var parcelID sql.NullString
	if id, ok := entry.ParcelID(); ok {
		parcelID = sql.NullString{String: id, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO logs (source, action, level, parcel_id, detail, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Source(), entry.Action(), entry.Level().String(), parcelID, string(detail), formatTime(entry.Timestamp()))
	if err != nil {
		return nil, fmt.Errorf("append log: insert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("append log: last insert id: %w", err)
	}
	return entry.WithID(id), nil
}

// List returns entries newest first.
func (r *LogRepository) List(ctx context.Context, filter ports.LogFilter) ([]*logentry.Entry, error) {
	query := `SELECT id, source, action, level, detail, timestamp FROM logs`
	var args []any
	if filter.ParcelID != "" {
		query += ` WHERE parcel_id = ?`
		args = append(args, filter.ParcelID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list logs: query: %w", err)
	}
	defer rows.Close()

	var entries []*logentry.Entry
	for rows.Next() {
		var (
			id                                         int64
			source, action, rawLevel, rawDetail, rawTS string
		)
		if err := rows.Scan(&id, &source, &action, &rawLevel, &rawDetail, &rawTS); err != nil {
			return nil, fmt.Errorf("list logs: scan row: %w", err)
		}

		level, err := logentry.ParseLevel(rawLevel)
		if err != nil {
			return nil, err
		}
		var detail map[string]any
		if err := json.Unmarshal([]byte(rawDetail), &detail); err != nil {
			return nil, fmt.Errorf("list logs: decode detail of entry %d: %w", id, err)
		}
		ts, err := parseTime(rawTS)
		if err != nil {
			return nil, err
		}

		e, err := logentry.RestoreEntry(id, source, action, level, detail, ts)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list logs: row iteration: %w", err)
	}
	return entries, nil
}
