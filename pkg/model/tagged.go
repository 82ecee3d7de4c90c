package model

import (
	"fmt"
	"time"

	"github.com/suretime/suretime/pkg/clock"
)

// TaggedDatetime is a zoned wall-clock reading tagged with the clock
// sample taken alongside it. The wall side is for display and calendar
// math; the sample is the authoritative handle for elapsed time.
type TaggedDatetime struct {
	ZonedDatetime
	Clock clock.Time `json:"clock"`
}

// NewTagged tags a zoned reading with a clock sample.
func NewTagged(z ZonedDatetime, c clock.Time) TaggedDatetime {
	return TaggedDatetime{ZonedDatetime: z, Clock: c}
}

// Before orders by UTC instant first, clock ticks second.
func (t TaggedDatetime) Before(other TaggedDatetime) bool {
	if !t.Time.Equal(other.Time) {
		return t.Time.Before(other.Time)
	}
	return t.Clock.Nanos < other.Clock.Nanos
}

// IsIdenticalTo additionally requires the clock samples to match.
func (t TaggedDatetime) IsIdenticalTo(other TaggedDatetime) bool {
	return t.ZonedDatetime.IsIdenticalTo(other.ZonedDatetime) && t.Clock == other.Clock
}

// AtClock derives the reading this tag would have had at another sample
// of the same clock: the wall side shifts by the tick delta.
func (t TaggedDatetime) AtClock(sample clock.Time) (TaggedDatetime, error) {
	delta, err := sample.DeltaNanos(t.Clock)
	if err != nil {
		return TaggedDatetime{}, err
	}
	return TaggedDatetime{
		ZonedDatetime: t.ZonedDatetime.Add(time.Duration(delta)),
		Clock:         sample,
	}, nil
}

// AtTicks is AtClock with a bare tick count. The descriptor must be the
// one that produced the ticks; clock.ErrClockMismatch otherwise.
func (t TaggedDatetime) AtTicks(ticks int64, d clock.Descriptor) (TaggedDatetime, error) {
	return t.AtClock(clock.Time{Nanos: ticks, Clock: d})
}

// TaggedInterval is a pair of tagged datetimes on the same clock, end not
// before start by either measure.
type TaggedInterval struct {
	Start TaggedDatetime `json:"start"`
	End   TaggedDatetime `json:"end"`
}

// NewInterval validates the interval invariants: both endpoints on one
// clock, and end >= start by UTC instant and by clock ticks. A tick
// reversal with a forward wall delta is the signature of a clock reset
// (reboot, clock source change) and fails construction rather than
// producing a negative elapsed time.
func NewInterval(start, end TaggedDatetime) (TaggedInterval, error) {
	ticks, err := end.Clock.DeltaNanos(start.Clock)
	if err != nil {
		return TaggedInterval{}, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	if end.UTC().Before(start.UTC()) {
		return TaggedInterval{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidInterval, start, end)
	}
	if ticks < 0 {
		return TaggedInterval{}, fmt.Errorf(
			"%w: clock ticks reversed (%d > %d), likely a clock reset",
			ErrInvalidInterval, start.Clock.Nanos, end.Clock.Nanos)
	}
	return TaggedInterval{Start: start, End: end}, nil
}

// RealNanos is the elapsed time by clock ticks — the authoritative
// answer, immune to wall-clock adjustments.
func (i TaggedInterval) RealNanos() int64 {
	return i.End.Clock.Nanos - i.Start.Clock.Nanos
}

// RealMicros is RealNanos in whole microseconds, rounded half away from
// zero.
func (i TaggedInterval) RealMicros() int64 {
	return (i.RealNanos() + 500) / 1000
}

// RealDelta is RealNanos as a duration.
func (i TaggedInterval) RealDelta() time.Duration {
	return time.Duration(i.RealNanos())
}

// WallNanos is the elapsed time by UTC instants — calendar-accurate but
// sensitive to clock adjustments between the samples.
func (i TaggedInterval) WallNanos() int64 {
	return i.End.UTC().Sub(i.Start.UTC()).Nanoseconds()
}

// WallDelta is WallNanos as a duration.
func (i TaggedInterval) WallDelta() time.Duration {
	return i.End.UTC().Sub(i.Start.UTC())
}

func (i TaggedInterval) String() string {
	return fmt.Sprintf("%s to %s (%d ns)", i.Start.ISOWithZone(), i.End.ISOWithZone(), i.RealNanos())
}
