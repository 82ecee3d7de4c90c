package clock

import (
	"errors"
	"testing"
)

func TestNowMonotone(t *testing.T) {
	a, err := Now()
	if err != nil {
		t.Fatalf("Now: %v", err)
	}
	b, err := Now()
	if err != nil {
		t.Fatalf("Now: %v", err)
	}
	if b.Nanos < a.Nanos {
		t.Fatalf("clock moved backwards: %d then %d", a.Nanos, b.Nanos)
	}
}

func TestNowSameDescriptor(t *testing.T) {
	a, _ := Now()
	b, _ := Now()
	if a.Clock != b.Clock {
		t.Fatalf("descriptor changed between samples: %+v vs %+v", a.Clock, b.Clock)
	}
	if !a.SameClock(b) {
		t.Fatal("SameClock should be true for consecutive samples")
	}
}

func TestNowDescriptorIsMonotonic(t *testing.T) {
	s, err := Now()
	if err != nil {
		t.Fatalf("Now: %v", err)
	}
	if !s.Clock.Monotonic {
		t.Fatalf("selected clock %q is not monotonic", s.Clock.Name)
	}
	if s.Clock.IsNTP || s.Clock.IsEpoch {
		t.Fatalf("system clock descriptor should not be NTP or epoch: %+v", s.Clock)
	}
}

func TestDeltaNanos(t *testing.T) {
	d := Descriptor{Name: "test", ClockID: NoClockID, Monotonic: true}
	a := Time{Nanos: 1000, Clock: d}
	b := Time{Nanos: 16000, Clock: d}

	got, err := b.DeltaNanos(a)
	if err != nil {
		t.Fatalf("DeltaNanos: %v", err)
	}
	if got != 15000 {
		t.Fatalf("got %d, want 15000", got)
	}
}

func TestDeltaNanosMismatch(t *testing.T) {
	a := Time{Nanos: 1, Clock: Descriptor{Name: "one", ClockID: NoClockID}}
	b := Time{Nanos: 2, Clock: Descriptor{Name: "two", ClockID: NoClockID}}

	_, err := b.DeltaNanos(a)
	if !errors.Is(err, ErrClockMismatch) {
		t.Fatalf("got %v, want ErrClockMismatch", err)
	}
}

func TestDeltaNanosMismatchOnServer(t *testing.T) {
	// Identical except for the server: still a different clock.
	a := Time{Clock: Descriptor{Name: "ntp", IsNTP: true, Server: "a.pool.ntp.org"}}
	b := Time{Clock: Descriptor{Name: "ntp", IsNTP: true, Server: "b.pool.ntp.org"}}
	if _, err := b.DeltaNanos(a); !errors.Is(err, ErrClockMismatch) {
		t.Fatalf("got %v, want ErrClockMismatch", err)
	}
}

func TestFallbackNow(t *testing.T) {
	s := fallbackNow()
	if s.Clock != goMonotonic {
		t.Fatalf("fallback descriptor: %+v", s.Clock)
	}
	if s.Nanos < 0 {
		t.Fatalf("fallback ticks negative: %d", s.Nanos)
	}
}
