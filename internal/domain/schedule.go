package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// OperatingHours is the weekly row of a business schedule for one weekday
type OperatingHours struct {
	ID         int64
	BusinessID int64
	DayOfWeek  time.Weekday
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	BreakStart types.TimeString
	BreakEnd   types.TimeString
	IsClosed   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ToWindow converts the row into the slot engine's operating window
func (h *OperatingHours) ToWindow() slotengine.OperatingWindow {
	return slotengine.OperatingWindow{
		DayOfWeek:  h.DayOfWeek,
		OpenTime:   h.OpenTime,
		CloseTime:  h.CloseTime,
		BreakStart: h.BreakStart,
		BreakEnd:   h.BreakEnd,
		IsClosed:   h.IsClosed,
	}
}

// ScheduleOverride replaces the weekly hours on one date (holiday, short day)
type ScheduleOverride struct {
	ID         int64
	BusinessID int64
	Date       time.Time
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	IsClosed   bool
	Reason     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ToEngine converts the override into the slot engine representation
func (o *ScheduleOverride) ToEngine() slotengine.ScheduleOverride {
	return slotengine.ScheduleOverride{
		Date:      o.Date,
		OpenTime:  o.OpenTime,
		CloseTime: o.CloseTime,
		IsClosed:  o.IsClosed,
		Reason:    ptr.Deref(o.Reason, ""),
	}
}

// Schedule weekly hours of a business together with its date overrides
type Schedule struct {
	BusinessID int64
	Hours      []OperatingHours
	Overrides  []ScheduleOverride
}
