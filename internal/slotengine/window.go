package slotengine

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ErrInvalidWindow is returned by OperatingWindow.Validate and ScheduleOverride.Validate
var ErrInvalidWindow = errors.New("slotengine: invalid operating window")

// OperatingWindow is the open/close time of a business for one day of the week,
// with an optional break. Empty clock values mean "not set".
type OperatingWindow struct {
	DayOfWeek  time.Weekday
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	BreakStart types.TimeString
	BreakEnd   types.TimeString
	IsClosed   bool
}

// ScheduleOverride replaces the weekly window on one calendar date.
type ScheduleOverride struct {
	Date      time.Time
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsClosed  bool
	Reason    string
}

// ClosedWindow returns a window with no bookable hours for the weekday.
func ClosedWindow(day time.Weekday) OperatingWindow {
	return OperatingWindow{DayOfWeek: day, IsClosed: true}
}

// HasHours reports whether the window has any bookable time at all.
func (w OperatingWindow) HasHours() bool {
	_, ok := w.bounds()
	return ok
}

// HasBreak reports whether a break is configured.
func (w OperatingWindow) HasBreak() bool {
	return !w.BreakStart.IsZero() && !w.BreakEnd.IsZero()
}

// Validate checks the window invariants: open < close, and when a break is
// set, open <= breakStart < breakEnd < close. Times of a closed window are ignored.
func (w OperatingWindow) Validate() error {
	if w.DayOfWeek < time.Sunday || w.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day of week %d out of range", ErrInvalidWindow, w.DayOfWeek)
	}
	if w.IsClosed {
		return nil
	}

	open, closing, err := parseHours(w.OpenTime, w.CloseTime)
	if err != nil {
		return err
	}

	if w.BreakStart.IsZero() != w.BreakEnd.IsZero() {
		return fmt.Errorf("%w: break start and end must be set together", ErrInvalidWindow)
	}
	if !w.HasBreak() {
		return nil
	}

	breakStart, err := w.BreakStart.Minutes()
	if err != nil {
		return fmt.Errorf("%w: break start: %v", ErrInvalidWindow, err)
	}
	breakEnd, err := w.BreakEnd.Minutes()
	if err != nil {
		return fmt.Errorf("%w: break end: %v", ErrInvalidWindow, err)
	}
	if breakStart >= breakEnd {
		return fmt.Errorf("%w: break start %s must be before break end %s", ErrInvalidWindow, w.BreakStart, w.BreakEnd)
	}
	if breakStart < open || breakEnd >= closing {
		return fmt.Errorf("%w: break %s-%s must lie within working hours %s-%s",
			ErrInvalidWindow, w.BreakStart, w.BreakEnd, w.OpenTime, w.CloseTime)
	}

	return nil
}

// Validate checks that an open override has well-formed hours.
func (o ScheduleOverride) Validate() error {
	if o.Date.IsZero() {
		return fmt.Errorf("%w: override date is required", ErrInvalidWindow)
	}
	if o.IsClosed {
		return nil
	}
	_, _, err := parseHours(o.OpenTime, o.CloseTime)
	return err
}

// EffectiveWindow merges the weekly window with a date override.
// An override, when present, fully supersedes the weekly window, break included.
func EffectiveWindow(weekly OperatingWindow, override *ScheduleOverride) OperatingWindow {
	if override == nil {
		return weekly
	}
	return OperatingWindow{
		DayOfWeek: weekly.DayOfWeek,
		OpenTime:  override.OpenTime,
		CloseTime: override.CloseTime,
		IsClosed:  override.IsClosed,
	}
}

func parseHours(openTime, closeTime types.TimeString) (int, int, error) {
	if openTime.IsZero() || closeTime.IsZero() {
		return 0, 0, fmt.Errorf("%w: open and close time are required for an open day", ErrInvalidWindow)
	}
	open, err := openTime.Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: open time: %v", ErrInvalidWindow, err)
	}
	closing, err := closeTime.Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: close time: %v", ErrInvalidWindow, err)
	}
	if open >= closing {
		return 0, 0, fmt.Errorf("%w: open time %s must be before close time %s", ErrInvalidWindow, openTime, closeTime)
	}
	return open, closing, nil
}

// bounds is a window converted to minutes since midnight.
type bounds struct {
	open       int
	close      int
	breakStart int
	breakEnd   int
	hasBreak   bool
}

// bounds converts the window; ok is false for a closed day, missing hours,
// or values that would not pass Validate.
func (w OperatingWindow) bounds() (bounds, bool) {
	if w.IsClosed {
		return bounds{}, false
	}
	open, closing, err := parseHours(w.OpenTime, w.CloseTime)
	if err != nil {
		return bounds{}, false
	}

	b := bounds{open: open, close: closing}
	if w.HasBreak() {
		breakStart, errStart := w.BreakStart.Minutes()
		breakEnd, errEnd := w.BreakEnd.Minutes()
		if errStart != nil || errEnd != nil || breakStart >= breakEnd {
			return bounds{}, false
		}
		b.breakStart, b.breakEnd, b.hasBreak = breakStart, breakEnd, true
	}
	return b, true
}

func (b bounds) inBreak(minute int) bool {
	return b.hasBreak && minute >= b.breakStart && minute < b.breakEnd
}
