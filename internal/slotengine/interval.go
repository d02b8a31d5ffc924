package slotengine

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// BookedInterval is the time occupied by an existing, non-cancelled appointment.
type BookedInterval struct {
	Start types.TimeString
	End   types.TimeString
}

// Overlaps is the strict half-open overlap test: [aStart, aEnd) and
// [bStart, bEnd) overlap only if each starts before the other ends.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

type span struct {
	start int
	end   int
}

// toSpans converts booked intervals to minutes. Unparsable or empty
// intervals occupy no time and are dropped.
func toSpans(booked []BookedInterval) []span {
	spans := make([]span, 0, len(booked))
	for _, b := range booked {
		start, err := b.Start.Minutes()
		if err != nil {
			continue
		}
		end, err := b.End.Minutes()
		if err != nil || end <= start {
			continue
		}
		spans = append(spans, span{start: start, end: end})
	}
	return spans
}

// evaluate applies the occupancy rules in a fixed order shared by
// GenerateSlots and ValidateBookingRequest: closing, break, bookings.
func evaluate(b bounds, spans []span, start, end int) RejectionReason {
	if end > b.close {
		return ReasonOverrunsClosing
	}
	if b.hasBreak && Overlaps(start, end, b.breakStart, b.breakEnd) {
		return ReasonDuringBreak
	}
	for _, s := range spans {
		if Overlaps(start, end, s.start, s.end) {
			return ReasonConflict
		}
	}
	return ""
}
