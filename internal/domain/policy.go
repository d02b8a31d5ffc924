package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// DateCheck result of checking a booking date against the policy
type DateCheck int

const (
	DateOK DateCheck = iota
	DateInPast
	DateTooFar
)

// BookingPolicy platform-wide booking rules applied on top of the slot engine
type BookingPolicy struct {
	// AdvanceBookingDays how many days ahead of today a date may be booked
	AdvanceBookingDays int
	// MinNoticeMinutes minimal gap between now and the start of an appointment
	MinNoticeMinutes int
	// EnforceAlignment accept only starts on the slot grid
	EnforceAlignment bool
	// Location business-local time zone; nil means UTC
	Location *time.Location
}

func (p BookingPolicy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Today returns the current business-local date at midnight UTC,
// the same representation dates parsed from DateFormat have.
func (p BookingPolicy) Today(now time.Time) time.Time {
	return DateOnly(now.In(p.location()))
}

// CheckDate checks that date is neither in the past nor beyond the advance booking limit
func (p BookingPolicy) CheckDate(date, now time.Time) DateCheck {
	today := p.Today(now)
	day := DateOnly(date)

	if day.Before(today) {
		return DateInPast
	}
	if p.AdvanceBookingDays > 0 && day.After(today.AddDate(0, 0, p.AdvanceBookingDays)) {
		return DateTooFar
	}
	return DateOK
}

// EarliestStart returns the earliest start time allowed on date by the notice period.
// ok is false when the notice period does not restrict the date at all.
// "24:00" means nothing on the date can be booked anymore.
func (p BookingPolicy) EarliestStart(date, now time.Time) (types.TimeString, bool) {
	local := now.In(p.location())
	nowMinutes := local.Hour()*60 + local.Minute()
	if local.Second() > 0 || local.Nanosecond() > 0 {
		nowMinutes++
	}

	daysAhead := int(DateOnly(date).Sub(p.Today(now)).Hours() / 24)
	earliest := nowMinutes + p.MinNoticeMinutes - daysAhead*types.MinutesPerDay
	if earliest <= 0 {
		return "", false
	}
	if earliest > types.MinutesPerDay {
		earliest = types.MinutesPerDay
	}

	start, err := types.NewTimeStringFromMinutes(earliest)
	if err != nil {
		return "", false
	}
	return start, true
}

// DateOnly drops the clock part and the zone, keeping the calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
