package tzmap

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/suretime/suretime/pkg/model"
)

func fixtureLookup(t *testing.T) Zones {
	t.Helper()
	return NewZones(buildFixture(t))
}

func TestOnlyIANAPassthrough(t *testing.T) {
	z := fixtureLookup(t)
	got, err := z.Only("Europe/Tiraspol", model.TerritoryPrimary)
	if err != nil {
		t.Fatalf("Only: %v", err)
	}
	if got != "Europe/Tiraspol" {
		t.Fatalf("got %q", got)
	}
}

func TestOnlyDefaultTerritory(t *testing.T) {
	z := fixtureLookup(t)
	got, err := z.Only("Central Pacific Standard Time", model.TerritoryPrimary)
	if err != nil {
		t.Fatalf("Only: %v", err)
	}
	if got != "Pacific/Guadalcanal" {
		t.Fatalf("got %q", got)
	}
}

func TestOnlyQualifiedTerritory(t *testing.T) {
	z := fixtureLookup(t)
	got, err := z.Only("Central Pacific Standard Time", "AQ")
	if err != nil {
		t.Fatalf("Only: %v", err)
	}
	if got != "Antarctica/Casey" {
		t.Fatalf("got %q", got)
	}
}

func TestOnlyUnknownTerritory(t *testing.T) {
	z := fixtureLookup(t)
	_, err := z.Only("Central Pacific Standard Time", "ZZ")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestOnlyNotUnique(t *testing.T) {
	z := fixtureLookup(t)
	_, err := z.Only("Central Pacific Standard Time", "FM")
	if !errors.Is(err, ErrNotUnique) {
		t.Fatalf("got %v, want ErrNotUnique", err)
	}
}

func TestAllAnyTerritoryUnion(t *testing.T) {
	z := fixtureLookup(t)
	got := z.All("Central Pacific Standard Time", model.TerritoryAny)
	want := []string{"Antarctica/Casey", "Pacific/Guadalcanal", "Pacific/Kosrae", "Pacific/Ponape"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAllEmptyTerritoryIsPrimary(t *testing.T) {
	z := fixtureLookup(t)
	if got := z.All("Central Pacific Standard Time", ""); !reflect.DeepEqual(got, []string{"Pacific/Guadalcanal"}) {
		t.Fatalf("got %v", got)
	}
}

func TestAllIdempotentAndOrderStable(t *testing.T) {
	z := fixtureLookup(t)
	first := z.All("W. Europe Standard Time", "DE")
	for i := 0; i < 10; i++ {
		again := z.All("W. Europe Standard Time", "DE")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("lookup %d differed: %v vs %v", i, again, first)
		}
	}
	if !reflect.DeepEqual(first, []string{"Europe/Berlin", "Europe/Busingen"}) {
		t.Fatalf("unexpected matches: %v", first)
	}
}

func TestAllUnknownName(t *testing.T) {
	z := fixtureLookup(t)
	got := z.All("No Such Standard Time", model.TerritoryAny)
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil", got)
	}
}

func TestFirst(t *testing.T) {
	z := fixtureLookup(t)
	got, ok := z.First("Central Pacific Standard Time", "FM")
	if !ok || got != "Pacific/Kosrae" {
		t.Fatalf("got %q, %v", got, ok)
	}
	if _, ok := z.First("No Such Standard Time", ""); ok {
		t.Fatal("First on empty set should report !ok")
	}
}

func TestList(t *testing.T) {
	z := fixtureLookup(t)
	names := z.List()
	found := false
	for _, n := range names {
		if n == "Central Pacific Standard Time" {
			found = true
		}
	}
	if !found {
		t.Fatal("List missing CLDR name")
	}
}

// withLocalZoneName pins the OS zone abbreviation for one test.
func withLocalZoneName(t *testing.T, name string) {
	t.Helper()
	old := localZoneName
	localZoneName = func() string { return name }
	t.Cleanup(func() { localZoneName = old })
}

func TestFirstLocalOffsetFallback(t *testing.T) {
	z := fixtureLookup(t)
	withLocalZoneName(t, "XST") // not in the mapping

	got, err := z.FirstLocal("", LocalOptions{System: false, Offset: true})
	if err != nil {
		t.Fatalf("FirstLocal: %v", err)
	}
	if !strings.HasPrefix(got, "Etc/GMT") {
		t.Fatalf("expected synthetic offset zone, got %q", got)
	}
}

func TestFirstLocalNoFallbacks(t *testing.T) {
	z := fixtureLookup(t)
	withLocalZoneName(t, "XST")

	_, err := z.FirstLocal("", LocalOptions{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestOnlyLocalAmbiguousDoesNotFallBack(t *testing.T) {
	z := fixtureLookup(t)
	// The abbreviation itself resolves but is ambiguous: the fallback
	// chain must not mask that.
	withLocalZoneName(t, "Central Pacific Standard Time")

	_, err := z.OnlyLocal("FM", DefaultLocalOptions)
	if !errors.Is(err, ErrNotUnique) {
		t.Fatalf("got %v, want ErrNotUnique", err)
	}
}

func TestOnlyLocalDirectHit(t *testing.T) {
	z := fixtureLookup(t)
	withLocalZoneName(t, "Europe/Tiraspol")

	got, err := z.OnlyLocal("", LocalOptions{})
	if err != nil {
		t.Fatalf("OnlyLocal: %v", err)
	}
	if got != "Europe/Tiraspol" {
		t.Fatalf("got %q", got)
	}
}

func TestAllLocalIncludesOffsetZone(t *testing.T) {
	z := fixtureLookup(t)
	withLocalZoneName(t, "Europe/Tiraspol")

	got := z.AllLocal("", LocalOptions{Offset: true})
	if len(got) < 2 {
		t.Fatalf("got %v", got)
	}
	hasOffset := false
	for _, name := range got {
		if strings.HasPrefix(name, "Etc/GMT") {
			hasOffset = true
		}
	}
	if !hasOffset {
		t.Fatalf("offset zone missing from %v", got)
	}
}
