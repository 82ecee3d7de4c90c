package model

import (
	"fmt"
	"strings"
	"time"
)

// isoLayout is the canonical serialized form, microsecond precision with
// an explicit offset: "2006-01-02T15:04:05.000000-07:00". UTC renders
// the offset as "Z".
const isoLayout = "2006-01-02T15:04:05.000000Z07:00"

// parseLayout accepts any fraction length on input.
const parseLayout = "2006-01-02T15:04:05.999999999Z07:00"

// UTCZone is the IANA identifier used for UTC readings.
const UTCZone = "Etc/UTC"

// ZonedDatetime is a wall-clock reading that always knows its offset and
// its canonical zone identifier. There is no offset-naive variant: the
// constructor rejects anything without a zone.
//
// Zone is the resolved IANA identifier (or a synthetic Etc/GMT± offset
// identifier). Source, when present, records the lookup that produced
// Zone — the display name that was asked for and the full match set.
type ZonedDatetime struct {
	Time   time.Time        `json:"time"`
	Zone   string           `json:"zone"`
	Source *GenericTimezone `json:"source,omitempty"`
}

// NewZoned pairs an instant with its canonical zone identifier. The zone
// must be non-empty; source is optional provenance.
func NewZoned(t time.Time, zone string, source *GenericTimezone) (ZonedDatetime, error) {
	if zone == "" {
		return ZonedDatetime{}, fmt.Errorf("%w: instant %s has no zone identifier", ErrMissingZone, t.Format(parseLayout))
	}
	return ZonedDatetime{Time: t, Zone: zone, Source: source}, nil
}

// NewUTC wraps an instant as a UTC reading.
func NewUTC(t time.Time) ZonedDatetime {
	return ZonedDatetime{Time: t.UTC(), Zone: UTCZone}
}

// Parse reads the canonical serialized form: an RFC 3339-style instant
// followed by the zone identifier in brackets, e.g.
//
//	2011-11-04T00:11:22.001000-07:00 [America/Los_Angeles]
//
// A space may stand in for the 'T' separator and a comma for the decimal
// point. When the zone is known to the host tz database the instant is
// attached to it; otherwise the parsed fixed offset is kept under the
// given name.
func Parse(s string) (ZonedDatetime, error) {
	open := strings.LastIndex(s, " [")
	if open < 0 || !strings.HasSuffix(s, "]") {
		return ZonedDatetime{}, fmt.Errorf("%w: %q lacks a [zone] suffix", ErrParse, s)
	}
	zone := s[open+2 : len(s)-1]
	if zone == "" {
		return ZonedDatetime{}, fmt.Errorf("%w: %q has an empty zone", ErrParse, s)
	}

	stamp := s[:open]
	stamp = strings.Replace(stamp, " ", "T", 1)
	stamp = strings.Replace(stamp, ",", ".", 1)
	t, err := time.Parse(parseLayout, stamp)
	if err != nil {
		return ZonedDatetime{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if loc, lerr := time.LoadLocation(zone); lerr == nil {
		t = t.In(loc)
	} else {
		_, offset := t.Zone()
		t = t.In(time.FixedZone(zone, offset))
	}
	return ZonedDatetime{Time: t, Zone: zone}, nil
}

// UTC returns the instant in UTC.
func (z ZonedDatetime) UTC() time.Time { return z.Time.UTC() }

// InUTC returns the same instant as a UTC reading.
func (z ZonedDatetime) InUTC() ZonedDatetime { return NewUTC(z.Time) }

// ISO formats the local reading with its offset.
func (z ZonedDatetime) ISO() string { return z.Time.Format(isoLayout) }

// ISOUTC formats the instant in UTC.
func (z ZonedDatetime) ISOUTC() string { return z.Time.UTC().Format(isoLayout) }

// ISOWithZone is the canonical serialized form; Parse inverts it.
func (z ZonedDatetime) ISOWithZone() string {
	return z.ISO() + " [" + z.Zone + "]"
}

func (z ZonedDatetime) String() string { return z.ISOWithZone() }

// OriginalZone is the display name the zone was resolved from, falling
// back to the zone identifier itself.
func (z ZonedDatetime) OriginalZone() string {
	if z.Source != nil {
		return z.Source.Name
	}
	return z.Zone
}

// Equal compares by UTC instant only; two readings of the same moment in
// different zones are equal.
func (z ZonedDatetime) Equal(other ZonedDatetime) bool { return z.Time.Equal(other.Time) }

// Before compares by UTC instant.
func (z ZonedDatetime) Before(other ZonedDatetime) bool { return z.Time.Before(other.Time) }

// After compares by UTC instant.
func (z ZonedDatetime) After(other ZonedDatetime) bool { return z.Time.After(other.Time) }

// IsIdenticalTo reports whether both readings agree on instant, zone and
// source — a stricter relation than Equal.
func (z ZonedDatetime) IsIdenticalTo(other ZonedDatetime) bool {
	if !z.Time.Equal(other.Time) || z.Zone != other.Zone {
		return false
	}
	switch {
	case z.Source == nil && other.Source == nil:
		return true
	case z.Source == nil || other.Source == nil:
		return false
	}
	if z.Source.Name != other.Source.Name || z.Source.Territory != other.Source.Territory {
		return false
	}
	if len(z.Source.IANAs) != len(other.Source.IANAs) {
		return false
	}
	for i := range z.Source.IANAs {
		if z.Source.IANAs[i] != other.Source.IANAs[i] {
			return false
		}
	}
	return true
}

// Add shifts the reading by an absolute duration, keeping zone and
// source.
func (z ZonedDatetime) Add(d time.Duration) ZonedDatetime {
	return ZonedDatetime{Time: z.Time.Add(d), Zone: z.Zone, Source: z.Source}
}
