package slotengine

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ValidateBookingRequest checks a requested start against the window, the
// break and the existing bookings, and returns the computed end time.
//
// Rejections are returned as a RejectionReason error, checked in this order:
// ReasonClosedDay, ReasonOutsideHours, ReasonOverrunsClosing,
// ReasonDuringBreak, ReasonConflict. Malformed input yields ErrInvalidInput.
//
// The start does not have to be aligned to the granularity; see IsAligned.
func ValidateBookingRequest(
	window OperatingWindow,
	granularityMinutes int,
	serviceDurationMinutes int,
	booked []BookedInterval,
	requestedStart types.TimeString,
) (types.TimeString, error) {
	if granularityMinutes <= 0 {
		return "", fmt.Errorf("%w: granularity must be positive, got %d", ErrInvalidInput, granularityMinutes)
	}
	if serviceDurationMinutes <= 0 {
		return "", fmt.Errorf("%w: service duration must be positive, got %d", ErrInvalidInput, serviceDurationMinutes)
	}
	start, err := requestedStart.Minutes()
	if err != nil {
		return "", fmt.Errorf("%w: requested start: %v", ErrInvalidInput, err)
	}

	b, ok := window.bounds()
	if !ok {
		return "", ReasonClosedDay
	}
	if start < b.open || start >= b.close {
		return "", ReasonOutsideHours
	}

	end := start + serviceDurationMinutes
	if reason := evaluate(b, toSpans(booked), start, end); reason != "" {
		return "", reason
	}

	// end <= close <= 24:00 here, so the conversion cannot fail
	return clock(end), nil
}

// IsAligned reports whether start lies on the window's granularity grid
// (openTime + k*granularity, k >= 0). A window without hours aligns nothing.
func IsAligned(window OperatingWindow, granularityMinutes int, start types.TimeString) bool {
	b, ok := window.bounds()
	if !ok || granularityMinutes <= 0 {
		return false
	}
	minute, err := start.Minutes()
	if err != nil || minute < b.open {
		return false
	}
	return (minute-b.open)%granularityMinutes == 0
}
