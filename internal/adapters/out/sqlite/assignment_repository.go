package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/pkg/errs"
)

var assignmentSchema = []string{
	`CREATE TABLE IF NOT EXISTS assignments (
		parcel_id  TEXT PRIMARY KEY,
		vehicle_id TEXT,
		status     TEXT NOT NULL,
		metadata   TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_status_created ON assignments (status, created_at)`,
}

const assignmentColumns = `parcel_id, vehicle_id, status, metadata, created_at, updated_at`

// AssignmentRepository implements ports.AssignmentRepository on SQLite.
type AssignmentRepository struct {
	db *sql.DB
}

var _ ports.AssignmentRepository = (*AssignmentRepository)(nil)

// NewAssignmentRepository creates the assignments table if it is missing.
func NewAssignmentRepository(ctx context.Context, db *sql.DB) (*AssignmentRepository, error) {
	if err := initSchema(ctx, db, assignmentSchema); err != nil {
		return nil, fmt.Errorf("sqlite assignment repository: %w", err)
	}
	return &AssignmentRepository{db: db}, nil
}

func (r *AssignmentRepository) CreateIfAbsent(ctx context.Context, a *assignment.Assignment) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}

	args, err := assignmentArgs(a)
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO assignments (`+assignmentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return false, fmt.Errorf("create assignment %s: %w", a.ParcelID(), err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create assignment %s: rows affected: %w", a.ParcelID(), err)
	}
	return n == 1, nil
}

func (r *AssignmentRepository) Save(ctx context.Context, a *assignment.Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	args, err := assignmentArgs(a)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO assignments (`+assignmentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`, args...); err != nil {
		return fmt.Errorf("save assignment %s: %w", a.ParcelID(), err)
	}
	return nil
}

func (r *AssignmentRepository) Get(ctx context.Context, parcelID kernel.ParcelID) (*assignment.Assignment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE parcel_id = ?`, parcelID.String())

	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("parcel_id", parcelID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment %s: %w", parcelID, err)
	}
	return a, nil
}

func (r *AssignmentRepository) ListPendingBefore(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*assignment.Assignment, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments
		WHERE status = ? AND created_at < ?
		ORDER BY created_at, parcel_id
		LIMIT ?`,
		assignment.Pending.String(), formatTime(cutoff), limit)
	if err != nil {
		return nil, fmt.Errorf("list pending assignments: query: %w", err)
	}
	defer rows.Close()

	var result []*assignment.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("list pending assignments: scan row: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending assignments: row iteration: %w", err)
	}
	return result, nil
}

func assignmentArgs(a *assignment.Assignment) ([]any, error) {
	metadata, err := json.Marshal(a.Metadata())
	if err != nil {
		return nil, fmt.Errorf("encode metadata of parcel %s: %w", a.ParcelID(), err)
	}

	var vehicleID sql.NullString
	if v := a.VehicleID(); v != nil {
		vehicleID = sql.NullString{String: v.String(), Valid: true}
	}

	return []any{
		a.ParcelID().String(),
		vehicleID,
		a.Status().String(),
		string(metadata),
		formatTime(a.CreatedAt()),
		formatTime(a.UpdatedAt()),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*assignment.Assignment, error) {
	var (
		rawParcelID, rawStatus, rawMetadata, rawCreated, rawUpdated string
		rawVehicleID                                                sql.NullString
	)
	if err := row.Scan(&rawParcelID, &rawVehicleID, &rawStatus, &rawMetadata, &rawCreated, &rawUpdated); err != nil {
		return nil, err
	}

	parcelID, err := kernel.ParcelIDFromString(rawParcelID)
	if err != nil {
		return nil, err
	}

	var vehicleID *kernel.VehicleID
	if rawVehicleID.Valid {
		v, err := kernel.VehicleIDFromString(rawVehicleID.String)
		if err != nil {
			return nil, err
		}
		vehicleID = &v
	}

	status, err := assignment.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	var metadata assignment.Metadata
	if err := json.Unmarshal([]byte(rawMetadata), &metadata); err != nil {
		return nil, fmt.Errorf("decode metadata of parcel %s: %w", rawParcelID, err)
	}

	createdAt, err := parseTime(rawCreated)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(rawUpdated)
	if err != nil {
		return nil, err
	}

	return assignment.RestoreAssignment(parcelID, vehicleID, status, metadata, createdAt, updatedAt)
}
