// Package clock samples monotonic-family clocks and tags each reading with
// a descriptor of the clock that produced it.
//
// Wall clocks answer "what time is it?" but move under NTP adjustment,
// manual changes, and suspend/resume. Elapsed-time questions need a clock
// that only moves forward. This package selects the best such clock
// available, in priority order:
//
//  1. CLOCK_BOOTTIME — monotonic and keeps counting across system suspend.
//  2. CLOCK_MONOTONIC_RAW — monotonic, free of NTP frequency slewing.
//  3. The Go runtime's monotonic reading — guaranteed everywhere, though
//     whether it advances during suspend is platform-dependent.
//
// Two Time samples may only be subtracted or compared when their Clock
// descriptors are identical. A sample from CLOCK_BOOTTIME and a sample
// from CLOCK_MONOTONIC_RAW count from different origins at slightly
// different rates; mixing them silently would produce garbage intervals,
// so every combining operation checks descriptors and returns
// ErrClockMismatch on disagreement.
package clock

import (
	"errors"
	"fmt"
	"time"
)

// ErrClockMismatch is returned when an operation combines samples taken
// from different clock descriptors.
var ErrClockMismatch = errors.New("clock samples come from different clocks")

// NoClockID marks a descriptor without a native clockid_t.
const NoClockID int32 = -1

// Descriptor identifies a clock precisely enough to decide whether two
// samples are comparable. Descriptors compare by value: two samples are on
// the same clock iff their descriptors are ==.
type Descriptor struct {
	// Name is a short identifier such as "boottime", "monotonic_raw" or
	// "go_monotonic". NTP descriptors use "server:kind".
	Name string `json:"name"`

	// ClockID is the native clockid_t, or NoClockID if the clock is not
	// backed by clock_gettime.
	ClockID int32 `json:"clock_id"`

	// Adjustable reports whether the clock can be stepped or slewed by
	// the operating system or an external time source.
	Adjustable bool `json:"adjustable"`

	// Implementation names the mechanism behind the clock, e.g.
	// "clock_gettime", "runtime", or "ntp:3" for NTP with the stratum.
	Implementation string `json:"implementation"`

	// Monotonic reports whether the clock is guaranteed non-decreasing.
	Monotonic bool `json:"monotonic"`

	// ResolutionNanos is the reported clock resolution, or 0 if unknown.
	ResolutionNanos int64 `json:"resolution_nanos"`

	// IsNTP marks clocks whose samples came from a network time query.
	IsNTP bool `json:"is_ntp"`

	// Server is the NTP server the sample came from, or "".
	Server string `json:"server,omitempty"`

	// IsEpoch reports whether ticks count from the Unix epoch rather
	// than from an arbitrary origin such as boot.
	IsEpoch bool `json:"is_epoch"`
}

// Time is a single clock sample: a tick count in nanoseconds plus the
// descriptor of the clock that produced it.
type Time struct {
	Nanos int64      `json:"nanos"`
	Clock Descriptor `json:"clock"`
}

// DeltaNanos returns t.Nanos - earlier.Nanos. It fails with
// ErrClockMismatch unless both samples carry the same descriptor.
func (t Time) DeltaNanos(earlier Time) (int64, error) {
	if t.Clock != earlier.Clock {
		return 0, fmt.Errorf("%w: %q vs %q", ErrClockMismatch, t.Clock.Name, earlier.Clock.Name)
	}
	return t.Nanos - earlier.Nanos, nil
}

// SameClock reports whether both samples were taken on the same clock.
func (t Time) SameClock(other Time) bool { return t.Clock == other.Clock }

// processStart anchors the portable fallback clock. time.Since reads the
// runtime's monotonic clock, so the resulting ticks never move backwards
// even when the wall clock is adjusted.
var processStart = time.Now()

// goMonotonic is the guaranteed-available fallback descriptor.
var goMonotonic = Descriptor{
	Name:           "go_monotonic",
	ClockID:        NoClockID,
	Adjustable:     false,
	Implementation: "runtime",
	Monotonic:      true,
}

// Now samples the best available monotonic clock.
func Now() (Time, error) {
	return now()
}

// fallbackNow samples the Go runtime's monotonic clock. Ticks count from
// process start.
func fallbackNow() Time {
	return Time{Nanos: time.Since(processStart).Nanoseconds(), Clock: goMonotonic}
}
