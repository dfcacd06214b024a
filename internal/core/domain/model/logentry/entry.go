// Package logentry models the append-only records of the event log.
package logentry

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"parcel-dispatch/internal/pkg/errs"
	"parcel-dispatch/internal/pkg/guard"
)

// ErrEntryIsNotConstructed is returned when using an Entry that was not built
// by NewEntry or RestoreEntry.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry")

// ParcelIDKey is the detail key used to correlate entries with a parcel.
const ParcelIDKey = "parcel_id"

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// ParseLevel accepts "info" and "error"; an empty string means info.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case "", LevelInfo:
		return LevelInfo, nil
	case LevelError:
		return LevelError, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("level", fmt.Errorf("%q is not a known level", s))
	}
}

func (l Level) String() string {
	return string(l)
}

// Entry is one immutable event log record. The id is assigned by the
// repository on append and is zero before that.
type Entry struct {
	id        int64
	source    string
	action    string
	level     Level
	detail    map[string]any
	timestamp time.Time

	guard guard.ConstructorGuard
}

// NewEntry builds an entry ready to be appended.
//
// Example:
//
//	entry, err := logentry.NewEntry("Orchestrator", "acquire_vehicle", logentry.LevelInfo,
//	    map[string]any{"parcel_id": "P-1", "vehicle_id": "V-1"}, time.Now())
func NewEntry(source, action string, level Level, detail map[string]any, timestamp time.Time) (*Entry, error) {
	return RestoreEntry(0, source, action, level, detail, timestamp)
}

// RestoreEntry rebuilds an entry read back from storage.
func RestoreEntry(
	id int64,
	source, action string,
	level Level,
	detail map[string]any,
	timestamp time.Time,
) (*Entry, error) {
	var validationErrs []error
	if strings.TrimSpace(source) == "" {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredError("source"))
	}
	if strings.TrimSpace(action) == "" {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredError("action"))
	}
	if level != LevelInfo && level != LevelError {
		validationErrs = append(validationErrs,
			errs.NewValueIsInvalidErrorWithCause("level", fmt.Errorf("%q is not a known level", level)))
	}
	if timestamp.IsZero() {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredError("timestamp"))
	}
	if err := errors.Join(validationErrs...); err != nil {
		return nil, err
	}

	d := make(map[string]any, len(detail))
	maps.Copy(d, detail)

	return &Entry{
		id:        id,
		source:    source,
		action:    action,
		level:     level,
		detail:    d,
		timestamp: timestamp,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

func (e *Entry) ID() int64 {
	return e.id
}

func (e *Entry) Source() string {
	return e.source
}

func (e *Entry) Action() string {
	return e.action
}

func (e *Entry) Level() Level {
	return e.level
}

// Detail returns a shallow copy of the payload.
func (e *Entry) Detail() map[string]any {
	d := make(map[string]any, len(e.detail))
	maps.Copy(d, e.detail)
	return d
}

func (e *Entry) Timestamp() time.Time {
	return e.timestamp
}

// ParcelID returns the correlated parcel id, if the detail carries one.
func (e *Entry) ParcelID() (string, bool) {
	v, ok := e.detail[ParcelIDKey]
	if !ok || v == nil {
		return "", false
	}
	s := fmt.Sprint(v)
	return s, s != ""
}

// WithID returns a copy carrying the id assigned by storage.
func (e *Entry) WithID(id int64) *Entry {
	c := *e
	c.id = id
	c.detail = e.Detail()
	return &c
}
