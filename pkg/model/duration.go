package model

import (
	"fmt"
	"strings"
	"time"
)

// Ymdhmsun is a calendar-field decomposition. Fields are independent
// differences, not a normalized quantity: 2021-03-01 minus 2021-02-28
// has Months=1 and Days=-27, and no borrowing reconciles them. It is
// meant for display; use Duration.Delta for arithmetic.
type Ymdhmsun struct {
	Years   int `json:"years"`
	Months  int `json:"months"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
	Nanos   int `json:"nanos"`
}

// IsZero reports whether every field is zero.
func (y Ymdhmsun) IsZero() bool { return y == Ymdhmsun{} }

// Scale multiplies every field by n.
func (y Ymdhmsun) Scale(n int) Ymdhmsun {
	return Ymdhmsun{
		Years:   y.Years * n,
		Months:  y.Months * n,
		Days:    y.Days * n,
		Hours:   y.Hours * n,
		Minutes: y.Minutes * n,
		Seconds: y.Seconds * n,
		Nanos:   y.Nanos * n,
	}
}

// String renders an ISO-8601-flavoured designator form with signed
// fields, e.g. "P1Y-27DT4H". The zero value renders as "PT0S".
func (y Ymdhmsun) String() string {
	var b strings.Builder
	b.WriteByte('P')
	writeField := func(v int, unit byte) {
		if v != 0 {
			fmt.Fprintf(&b, "%d%c", v, unit)
		}
	}
	writeField(y.Years, 'Y')
	writeField(y.Months, 'M')
	writeField(y.Days, 'D')
	if y.Hours != 0 || y.Minutes != 0 || y.Seconds != 0 || y.Nanos != 0 {
		b.WriteByte('T')
		writeField(y.Hours, 'H')
		writeField(y.Minutes, 'M')
		if y.Nanos != 0 {
			fmt.Fprintf(&b, "%gS", float64(y.Seconds)+float64(y.Nanos)/1e9)
		} else {
			writeField(y.Seconds, 'S')
		}
	}
	if b.Len() == 1 {
		return "PT0S"
	}
	return b.String()
}

// Duration spans two zoned readings. Unlike time.Duration it keeps its
// endpoints, so it can answer both the absolute question (Delta) and the
// calendar question (Fields).
type Duration struct {
	Start ZonedDatetime `json:"start"`
	End   ZonedDatetime `json:"end"`
}

// NewDuration spans start to end. Either order is permitted; Fields and
// Delta are negative when end precedes start.
func NewDuration(start, end ZonedDatetime) Duration {
	return Duration{Start: start, End: end}
}

// Fields is the field-wise difference of the two local readings, each in
// its own zone, with no borrowing across units.
func (d Duration) Fields() Ymdhmsun {
	s, e := d.Start.Time, d.End.Time
	return Ymdhmsun{
		Years:   e.Year() - s.Year(),
		Months:  int(e.Month()) - int(s.Month()),
		Days:    e.Day() - s.Day(),
		Hours:   e.Hour() - s.Hour(),
		Minutes: e.Minute() - s.Minute(),
		Seconds: e.Second() - s.Second(),
		Nanos:   e.Nanosecond() - s.Nanosecond(),
	}
}

// Delta is the absolute elapsed time between the endpoints' instants.
func (d Duration) Delta() time.Duration { return d.End.UTC().Sub(d.Start.UTC()) }

func (d Duration) String() string { return d.Fields().String() }

// Unbounded is the RepeatingDuration event count meaning "repeat
// forever" (ISO-8601 "R/..." with no count).
const Unbounded int64 = -1

// RepeatingDuration is a duration repeated a number of times, or
// unboundedly.
type RepeatingDuration struct {
	Duration Duration `json:"duration"`
	// Count is the number of events, or Unbounded.
	Count int64 `json:"count"`
}

// NewRepeating repeats d count times; pass Unbounded for no limit.
func NewRepeating(d Duration, count int64) RepeatingDuration {
	return RepeatingDuration{Duration: d, Count: count}
}

// IsUnbounded reports whether the repetition has no event count.
func (r RepeatingDuration) IsUnbounded() bool { return r.Count < 0 }

// String renders "R/PT..." or "R<n>/PT...".
func (r RepeatingDuration) String() string {
	if r.IsUnbounded() {
		return "R/" + r.Duration.String()
	}
	return fmt.Sprintf("R%d/%s", r.Count, r.Duration.String())
}

// RepeatingInterval anchors a repeating duration to a start instant,
// giving every occurrence a concrete position on the calendar.
type RepeatingInterval struct {
	Repeat RepeatingDuration `json:"repeat"`
	Anchor ZonedDatetime     `json:"anchor"`
}

// NewRepeatingInterval anchors r at start.
func NewRepeatingInterval(r RepeatingDuration, start ZonedDatetime) RepeatingInterval {
	return RepeatingInterval{Repeat: r, Anchor: start}
}

// Occurrence returns anchor + n×delta. The calendar fields are applied
// with calendar-aware addition (AddDate for years/months/days, absolute
// addition for the time part), so "every month" lands on the same day
// number, not on a fixed second count. n must be >= 0 and, for bounded
// repetitions, < Count.
func (ri RepeatingInterval) Occurrence(n int64) (ZonedDatetime, error) {
	if n < 0 {
		return ZonedDatetime{}, fmt.Errorf("occurrence index %d is negative", n)
	}
	if !ri.Repeat.IsUnbounded() && n >= ri.Repeat.Count {
		return ZonedDatetime{}, fmt.Errorf("occurrence index %d out of range (count %d)", n, ri.Repeat.Count)
	}
	f := ri.Repeat.Duration.Fields().Scale(int(n))
	t := ri.Anchor.Time.AddDate(f.Years, f.Months, f.Days)
	t = t.Add(time.Duration(f.Hours)*time.Hour +
		time.Duration(f.Minutes)*time.Minute +
		time.Duration(f.Seconds)*time.Second +
		time.Duration(f.Nanos))
	return ZonedDatetime{Time: t, Zone: ri.Anchor.Zone, Source: ri.Anchor.Source}, nil
}

// Slice returns occurrences from (inclusive) to to (exclusive).
func (ri RepeatingInterval) Slice(from, to int64) ([]ZonedDatetime, error) {
	if from < 0 || to < from {
		return nil, fmt.Errorf("invalid slice [%d, %d)", from, to)
	}
	out := make([]ZonedDatetime, 0, to-from)
	for n := from; n < to; n++ {
		z, err := ri.Occurrence(n)
		if err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, nil
}

// Shift moves the anchor — and with it every occurrence — by a fixed
// offset.
func (ri RepeatingInterval) Shift(d time.Duration) RepeatingInterval {
	return RepeatingInterval{Repeat: ri.Repeat, Anchor: ri.Anchor.Add(d)}
}

// String renders "R[n]/<anchor>/<duration>".
func (ri RepeatingInterval) String() string {
	prefix := "R"
	if !ri.Repeat.IsUnbounded() {
		prefix = fmt.Sprintf("R%d", ri.Repeat.Count)
	}
	return fmt.Sprintf("%s/%s/%s", prefix, ri.Anchor.ISO(), ri.Repeat.Duration.String())
}
