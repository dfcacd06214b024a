// Package logrepo stores event log entries in the postgres "event_logs"
// table. Ids come from the table's identity column, so they increase in
// append order.
package logrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"parcel-dispatch/internal/core/domain/model/logentry"
)

// LogEntryDTO is the row shape of a log entry. ParcelID duplicates
// detail.parcel_id so entries can be filtered by parcel with an index.
type LogEntryDTO struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Source    string    `gorm:"column:source;size:64;not null"`
	Action    string    `gorm:"column:action;size:128;not null"`
	Level     string    `gorm:"column:level;size:16;not null"`
	ParcelID  *string   `gorm:"column:parcel_id;size:128;index"`
	Detail    string    `gorm:"column:detail;type:jsonb;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
}

func (LogEntryDTO) TableName() string {
	return "event_logs"
}

func fromDomain(e *logentry.Entry) (LogEntryDTO, error) {
	detail, err := json.Marshal(e.Detail())
	if err != nil {
		return LogEntryDTO{}, fmt.Errorf("encode detail of %s/%s: %w", e.Source(), e.Action(), err)
	}

	dto := LogEntryDTO{
		Source:    e.Source(),
		Action:    e.Action(),
		Level:     e.Level().String(),
		Detail:    string(detail),
		Timestamp: e.Timestamp().UTC(),
	}
	if parcelID, ok := e.ParcelID(); ok {
		dto.ParcelID = &parcelID
	}
	return dto, nil
}

func toDomain(dto LogEntryDTO) (*logentry.Entry, error) {
	level, err := logentry.ParseLevel(dto.Level)
	if err != nil {
		return nil, err
	}

	var detail map[string]any
	if err := json.Unmarshal([]byte(dto.Detail), &detail); err != nil {
		return nil, fmt.Errorf("decode detail of log entry %d: %w", dto.ID, err)
	}

	return logentry.RestoreEntry(dto.ID, dto.Source, dto.Action, level, detail, dto.Timestamp.UTC())
}
