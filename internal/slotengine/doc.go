// Package slotengine computes bookable appointment start times for a single
// business day and validates booking requests against the same rules.
//
// The package is pure: it performs no I/O and holds no state, so every
// function is safe for concurrent use. Clock values are local wall-clock
// times of the business (types.TimeString), dates carry no time zone.
//
// Intervals are half-open: [start, end). Two intervals that only touch at an
// endpoint never conflict, for bookings and for the break window alike.
package slotengine
