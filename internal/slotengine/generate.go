package slotengine

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// Slot is a candidate start time with its availability.
type Slot struct {
	StartTime types.TimeString
	// EndTime is StartTime plus the service duration. It is empty when the
	// service would run past midnight (such a slot always overruns closing).
	EndTime   types.TimeString
	Available bool
	// Reason is empty for available slots and names the first violated rule otherwise.
	Reason RejectionReason
}

// GenerateSlots returns the candidate start times of one day in ascending
// order: openTime, openTime+granularity, ... while start < closeTime.
//
// Starts falling inside the break are not emitted. Every other candidate is
// emitted and marked unavailable when the service would overrun closing,
// run into the break, or overlap a booked interval.
//
// A closed window, a window without hours, or non-positive granularity or
// duration yields an empty slice.
func GenerateSlots(window OperatingWindow, granularityMinutes, serviceDurationMinutes int, booked []BookedInterval) []Slot {
	b, ok := window.bounds()
	if !ok || granularityMinutes <= 0 || serviceDurationMinutes <= 0 {
		return []Slot{}
	}

	spans := toSpans(booked)
	slots := make([]Slot, 0, (b.close-b.open)/granularityMinutes+1)

	for start := b.open; start < b.close; start += granularityMinutes {
		if b.inBreak(start) {
			continue
		}

		end := start + serviceDurationMinutes
		reason := evaluate(b, spans, start, end)

		slots = append(slots, Slot{
			StartTime: clock(start),
			EndTime:   clock(end),
			Available: reason == "",
			Reason:    reason,
		})
	}

	return slots
}

// AvailableOnly filters slots down to the bookable ones.
func AvailableOnly(slots []Slot) []Slot {
	result := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Available {
			result = append(result, s)
		}
	}
	return result
}

// ApplyNotice marks available slots starting before earliest as unavailable
// with ReasonTooSoon. An empty earliest leaves slots untouched. The input is
// not modified.
func ApplyNotice(slots []Slot, earliest types.TimeString) []Slot {
	result := make([]Slot, len(slots))
	copy(result, slots)
	if earliest.IsZero() {
		return result
	}

	for i := range result {
		if result[i].Available && result[i].StartTime.IsBefore(earliest) {
			result[i].Available = false
			result[i].Reason = ReasonTooSoon
		}
	}
	return result
}

// clock formats minutes since midnight; values past the end of the day
// have no clock representation and become empty.
func clock(minutes int) types.TimeString {
	ts, err := types.NewTimeStringFromMinutes(minutes)
	if err != nil {
		return ""
	}
	return ts
}
