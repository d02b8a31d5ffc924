package slotengine

import (
	"errors"
)

// RejectionReason names the rule a candidate booking violates.
// It implements error so validation results compose with errors.Is / errors.As.
type RejectionReason string

const (
	// ReasonClosedDay the business does not operate on the date
	ReasonClosedDay RejectionReason = "closed_day"
	// ReasonOutsideHours the start is before opening or at/after closing
	ReasonOutsideHours RejectionReason = "outside_hours"
	// ReasonOverrunsClosing the service would end after closing time
	ReasonOverrunsClosing RejectionReason = "overruns_closing"
	// ReasonDuringBreak the occupied interval intersects the break window
	ReasonDuringBreak RejectionReason = "during_break"
	// ReasonConflict the occupied interval overlaps an existing booking
	ReasonConflict RejectionReason = "conflict"
	// ReasonTooSoon the start is earlier than the caller's notice period allows.
	// Only ApplyNotice produces it.
	ReasonTooSoon RejectionReason = "too_soon"
	// ReasonMisalignedStart the start is not on the granularity grid.
	// Produced by callers that enforce alignment, see IsAligned.
	ReasonMisalignedStart RejectionReason = "misaligned_start"
)

// ErrInvalidInput is returned for malformed engine input (non-positive
// durations, unparsable clock values). It is a programming error on the
// caller's side, not a rejection.
var ErrInvalidInput = errors.New("slotengine: invalid input")

func (r RejectionReason) Error() string {
	return "slotengine: rejected: " + string(r)
}

// String implements fmt.Stringer
func (r RejectionReason) String() string {
	return string(r)
}

// ReasonOf extracts the rejection reason from err, if any.
func ReasonOf(err error) (RejectionReason, bool) {
	var reason RejectionReason
	if errors.As(err, &reason) {
		return reason, true
	}
	return "", false
}
