package model

import (
	"errors"
	"testing"
	"time"
)

func mustZoned(t *testing.T, tm time.Time, zone string) ZonedDatetime {
	t.Helper()
	z, err := NewZoned(tm, zone, nil)
	if err != nil {
		t.Fatalf("NewZoned: %v", err)
	}
	return z
}

func TestParseCanonicalForm(t *testing.T) {
	z, err := Parse("2011-11-04 00:11:22,001-07:00 [America/Los_Angeles]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := z.ISOWithZone(); got != "2011-11-04T00:11:22.001000-07:00 [America/Los_Angeles]" {
		t.Fatalf("ISOWithZone: %q", got)
	}
	if z.Zone != "America/Los_Angeles" {
		t.Fatalf("zone: %q", z.Zone)
	}
	if got := z.InUTC().ISOWithZone(); got != "2011-11-04T07:11:22.001000Z [Etc/UTC]" {
		t.Fatalf("UTC form: %q", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	zones := []string{"America/Los_Angeles", "Europe/Berlin", "Asia/Kolkata", "Etc/UTC"}
	base := time.Date(2021, 7, 14, 9, 30, 45, 123456000, time.UTC)
	for _, zone := range zones {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			t.Fatalf("LoadLocation(%q): %v", zone, err)
		}
		orig := mustZoned(t, base.In(loc), zone)
		parsed, err := Parse(orig.ISOWithZone())
		if err != nil {
			t.Fatalf("Parse(%q): %v", orig.ISOWithZone(), err)
		}
		if !parsed.Time.Equal(orig.Time) {
			t.Fatalf("%s: instant drifted: %v vs %v", zone, parsed.Time, orig.Time)
		}
		if parsed.Zone != zone {
			t.Fatalf("zone drifted: %q vs %q", parsed.Zone, zone)
		}
	}
}

func TestParseUnknownZoneKeepsOffset(t *testing.T) {
	z, err := Parse("2021-01-02T03:04:05.000000+05:30 [Etc/GMT+5:30]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if z.Zone != "Etc/GMT+5:30" {
		t.Fatalf("zone: %q", z.Zone)
	}
	if _, offset := z.Time.Zone(); offset != 5*3600+30*60 {
		t.Fatalf("offset: %d", offset)
	}
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"2011-11-04T00:11:22.001000-07:00",
		"2011-11-04T00:11:22.001000-07:00 []",
		"not a datetime [America/Los_Angeles]",
	} {
		if _, err := Parse(s); !errors.Is(err, ErrParse) {
			t.Fatalf("Parse(%q): got %v, want ErrParse", s, err)
		}
	}
}

func TestNewZonedRequiresZone(t *testing.T) {
	_, err := NewZoned(time.Now(), "", nil)
	if !errors.Is(err, ErrMissingZone) {
		t.Fatalf("got %v, want ErrMissingZone", err)
	}
}

func TestCompareAcrossZones(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}
	instant := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	a := NewUTC(instant)
	b := mustZoned(t, instant.In(berlin), "Europe/Berlin")
	if !a.Equal(b) {
		t.Fatal("same instant in different zones should be Equal")
	}
	later := b.Add(time.Second)
	if !a.Before(later) || !later.After(a) {
		t.Fatal("ordering across zones broken")
	}
}

func TestIsIdenticalTo(t *testing.T) {
	instant := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	src := NewGenericTimezone("Central European Standard Time", TerritoryPrimary, []string{"Europe/Berlin"})
	a := ZonedDatetime{Time: instant, Zone: UTCZone}
	b := ZonedDatetime{Time: instant, Zone: UTCZone, Source: &src}
	c := ZonedDatetime{Time: instant, Zone: UTCZone, Source: &src}

	if !a.Equal(b) {
		t.Fatal("Equal should ignore source")
	}
	if a.IsIdenticalTo(b) {
		t.Fatal("IsIdenticalTo should not ignore source")
	}
	if !b.IsIdenticalTo(c) {
		t.Fatal("equal sources should be identical")
	}
}

func TestGenericTimezone(t *testing.T) {
	g := NewGenericTimezone("Europe/Tiraspol", "", []string{"Europe/Tiraspol"})
	if !g.IsIANA() || !g.HasIANA() {
		t.Fatalf("identity zone flags: %+v", g)
	}

	g = NewGenericTimezone("Central Pacific Standard Time", TerritoryPrimary,
		[]string{"Pacific/Guadalcanal", "Pacific/Guadalcanal", "Antarctica/Casey"})
	if g.IsIANA() {
		t.Fatal("multi-match zone is not IANA")
	}
	if len(g.IANAs) != 2 || g.IANAs[0] != "Antarctica/Casey" || g.IANAs[1] != "Pacific/Guadalcanal" {
		t.Fatalf("match set not deduplicated+sorted: %v", g.IANAs)
	}

	g = NewGenericTimezone("No Such Time", "ZZ", nil)
	if g.HasIANA() {
		t.Fatal("empty match set reported HasIANA")
	}
}
