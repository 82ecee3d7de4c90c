//go:build linux

package clock

import (
	"sync"

	"golang.org/x/sys/unix"
)

// candidate clocks in priority order. CLOCK_BOOTTIME survives suspend;
// CLOCK_MONOTONIC_RAW avoids NTP slewing.
var candidates = []struct {
	name string
	id   int32
}{
	{"boottime", unix.CLOCK_BOOTTIME},
	{"monotonic_raw", unix.CLOCK_MONOTONIC_RAW},
}

var (
	selectOnce sync.Once
	selected   Descriptor
	selectedOK bool
)

// selectClock probes the candidate clocks once and caches the first one
// the kernel actually supports.
func selectClock() (Descriptor, bool) {
	selectOnce.Do(func() {
		for _, c := range candidates {
			var ts unix.Timespec
			if err := unix.ClockGettime(c.id, &ts); err != nil {
				continue
			}
			d := Descriptor{
				Name:           c.name,
				ClockID:        c.id,
				Adjustable:     false,
				Implementation: "clock_gettime",
				Monotonic:      true,
			}
			var res unix.Timespec
			if err := unix.ClockGetres(c.id, &res); err == nil {
				d.ResolutionNanos = res.Sec*1e9 + res.Nsec
			}
			selected = d
			selectedOK = true
			return
		}
	})
	return selected, selectedOK
}

func now() (Time, error) {
	d, ok := selectClock()
	if !ok {
		return fallbackNow(), nil
	}
	var ts unix.Timespec
	if err := unix.ClockGettime(d.ClockID, &ts); err != nil {
		// The clock probed fine at selection time; treat a later failure
		// as transient and fall back rather than erroring the sample.
		return fallbackNow(), nil
	}
	return Time{Nanos: ts.Sec*1e9 + ts.Nsec, Clock: d}, nil
}
