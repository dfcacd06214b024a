package commands

import (
	"errors"
	"maps"

	"parcel-dispatch/internal/core/domain/model/assignment"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/pkg/guard"
)

var ErrReportUpdateCommandIsNotConstructed = errors.New(
	"ReportUpdateCommand must be created via NewReportUpdateCommand constructor",
)

// ReportUpdateCommand carries a status reported by the vehicle side.
type ReportUpdateCommand struct {
	parcelID kernel.ParcelID
	status   assignment.Status
	detail   map[string]any

	guard guard.ConstructorGuard
}

func NewReportUpdateCommand(parcelID, status string, detail map[string]any) (ReportUpdateCommand, error) {
	cmd := ReportUpdateCommand{
		detail: maps.Clone(detail),
		guard:  guard.NewConstructorGuard(),
	}
	if cmd.detail == nil {
		cmd.detail = map[string]any{}
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setStatus(status),
	); err != nil {
		return ReportUpdateCommand{}, err
	}

	return cmd, nil
}

func (c ReportUpdateCommand) Validate() error {
	return c.guard.Validate(ErrReportUpdateCommandIsNotConstructed)
}

func (c ReportUpdateCommand) ParcelID() kernel.ParcelID {
	return c.parcelID
}

func (c ReportUpdateCommand) Status() assignment.Status {
	return c.status
}

func (c ReportUpdateCommand) Detail() map[string]any {
	return maps.Clone(c.detail)
}

func (c *ReportUpdateCommand) setParcelID(s string) error {
	id, err := kernel.ParcelIDFromString(s)
	if err != nil {
		return err
	}
	c.parcelID = id
	return nil
}

func (c *ReportUpdateCommand) setStatus(s string) error {
	status, err := assignment.ParseStatus(s)
	if err != nil {
		return err
	}
	c.status = status
	return nil
}
