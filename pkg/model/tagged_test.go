package model

import (
	"errors"
	"testing"
	"time"

	"github.com/suretime/suretime/pkg/clock"
)

var testClock = clock.Descriptor{Name: "test", ClockID: clock.NoClockID, Monotonic: true}

func taggedAt(t *testing.T, instant time.Time, ticks int64) TaggedDatetime {
	t.Helper()
	return NewTagged(NewUTC(instant), clock.Time{Nanos: ticks, Clock: testClock})
}

func TestIntervalRealAndWall(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	start := taggedAt(t, base, 0)
	end := taggedAt(t, base.Add(15*time.Microsecond), 1000)

	iv, err := NewInterval(start, end)
	if err != nil {
		t.Fatalf("NewInterval: %v", err)
	}
	if iv.RealNanos() != 1000 {
		t.Fatalf("RealNanos: got %d, want 1000", iv.RealNanos())
	}
	if iv.WallNanos() != 15000 {
		t.Fatalf("WallNanos: got %d, want 15000", iv.WallNanos())
	}
	if iv.WallDelta() != 15*time.Microsecond {
		t.Fatalf("WallDelta: %v", iv.WallDelta())
	}
	if iv.RealDelta() != time.Microsecond {
		t.Fatalf("RealDelta: %v", iv.RealDelta())
	}
}

func TestIntervalFifteenThousandTicks(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	start := taggedAt(t, base, 1_000_000)
	end := taggedAt(t, base.Add(time.Millisecond), 1_015_000)

	iv, err := NewInterval(start, end)
	if err != nil {
		t.Fatalf("NewInterval: %v", err)
	}
	if iv.RealNanos() != 15000 {
		t.Fatalf("RealNanos: got %d, want 15000", iv.RealNanos())
	}
	if iv.RealNanos() < 0 {
		t.Fatal("RealNanos must be >= 0 for any valid interval")
	}
	if iv.RealMicros() != 15 {
		t.Fatalf("RealMicros: got %d, want 15", iv.RealMicros())
	}
}

func TestIntervalRejectsWallReversal(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	start := taggedAt(t, base.Add(time.Second), 0)
	end := taggedAt(t, base, 1000)

	_, err := NewInterval(start, end)
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("got %v, want ErrInvalidInterval", err)
	}
}

func TestIntervalRejectsTickReversal(t *testing.T) {
	// Wall time moved forward but the clock went backwards: the
	// signature of a clock reset across suspend/reboot.
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	start := taggedAt(t, base, 5000)
	end := taggedAt(t, base.Add(time.Second), 100)

	_, err := NewInterval(start, end)
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("got %v, want ErrInvalidInterval", err)
	}
}

func TestIntervalRejectsClockMix(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	start := taggedAt(t, base, 0)
	other := clock.Descriptor{Name: "other", ClockID: clock.NoClockID, Monotonic: true}
	end := NewTagged(NewUTC(base.Add(time.Second)), clock.Time{Nanos: 10, Clock: other})

	_, err := NewInterval(start, end)
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("got %v, want ErrInvalidInterval", err)
	}
	if !errors.Is(err, clock.ErrClockMismatch) {
		t.Fatalf("got %v, want wrapped ErrClockMismatch", err)
	}
}

func TestAtClockShiftsWall(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	tag := taggedAt(t, base, 1000)

	later, err := tag.AtClock(clock.Time{Nanos: 2500, Clock: testClock})
	if err != nil {
		t.Fatalf("AtClock: %v", err)
	}
	if want := base.Add(1500 * time.Nanosecond); !later.Time.Equal(want) {
		t.Fatalf("wall: got %v, want %v", later.Time, want)
	}
	if later.Clock.Nanos != 2500 {
		t.Fatalf("ticks: got %d", later.Clock.Nanos)
	}

	// Backwards is fine for AtClock (it is not an interval).
	earlier, err := tag.AtTicks(400, testClock)
	if err != nil {
		t.Fatalf("AtTicks: %v", err)
	}
	if want := base.Add(-600 * time.Nanosecond); !earlier.Time.Equal(want) {
		t.Fatalf("wall: got %v, want %v", earlier.Time, want)
	}
}

func TestAtClockMismatch(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	tag := taggedAt(t, base, 1000)
	other := clock.Descriptor{Name: "other", ClockID: clock.NoClockID, Monotonic: true}

	if _, err := tag.AtClock(clock.Time{Nanos: 2000, Clock: other}); !errors.Is(err, clock.ErrClockMismatch) {
		t.Fatalf("AtClock: got %v, want ErrClockMismatch", err)
	}
	if _, err := tag.AtTicks(2000, other); !errors.Is(err, clock.ErrClockMismatch) {
		t.Fatalf("AtTicks: got %v, want ErrClockMismatch", err)
	}
}

func TestTaggedOrdering(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	a := taggedAt(t, base, 100)
	b := taggedAt(t, base, 200) // same instant, later ticks
	c := taggedAt(t, base.Add(time.Second), 50)

	if !a.Before(b) {
		t.Fatal("equal instants should order by ticks")
	}
	if !b.Before(c) {
		t.Fatal("instant ordering should dominate ticks")
	}
	if a.IsIdenticalTo(b) {
		t.Fatal("different ticks should not be identical")
	}
}
