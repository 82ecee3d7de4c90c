package tzmap

import (
	"errors"
	"fmt"
	"time"

	"github.com/suretime/suretime/pkg/model"
	"github.com/suretime/suretime/pkg/systz"
)

var (
	// ErrNotFound is returned when a name/territory pair matches no
	// IANA zone.
	ErrNotFound = errors.New("no IANA zone matches")
	// ErrNotUnique is returned by Only when a name/territory pair
	// matches more than one IANA zone.
	ErrNotUnique = errors.New("more than one IANA zone matches")
)

// LocalOptions toggles the two fallback stages of the *Local lookups:
// the OS-reported zone name, and the synthetic fixed-offset zone.
type LocalOptions struct {
	System bool
	Offset bool
}

// DefaultLocalOptions enables both fallbacks.
var DefaultLocalOptions = LocalOptions{System: true, Offset: true}

// Zones is the query surface over a built Mapping.
type Zones struct {
	m Mapping
}

// NewZones wraps a mapping.
func NewZones(m Mapping) Zones { return Zones{m: m} }

// canonTerritory maps the public territory sentinels onto the CLDR
// representation. "" and "primary" mean the default mapping; "any" is
// handled by the callers.
func canonTerritory(territory string) string {
	if territory == "" || territory == model.TerritoryPrimary {
		return PrimaryTerritory
	}
	return territory
}

// List returns every display name in the mapping, sorted.
func (z Zones) List() []string { return z.m.Names() }

// All returns the IANA zones matching name under territory, sorted and
// deduplicated; empty (never nil) if nothing matches. Territory "" or
// "primary" selects the default mapping, "any" unions every territory,
// and anything else matches exactly.
func (z Zones) All(name, territory string) []string {
	byTerritory := z.m[name]
	if byTerritory == nil {
		return []string{}
	}
	if territory == model.TerritoryAny {
		var union []string
		for _, ianas := range byTerritory {
			union = append(union, ianas...)
		}
		return model.SortedSet(union)
	}
	return model.SortedSet(byTerritory[canonTerritory(territory)])
}

// First returns the lexicographically first match, reporting whether any
// match exists.
func (z Zones) First(name, territory string) (string, bool) {
	matches := z.All(name, territory)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// Only returns the single match for name under territory. Zero matches
// is ErrNotFound; several is ErrNotUnique.
func (z Zones) Only(name, territory string) (string, error) {
	matches := z.All(name, territory)
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: zone %q, territory %q", ErrNotFound, name, territory)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%w: %d IANA zones for zone %q, territory %q",
		ErrNotUnique, len(matches), name, territory)
}

// localZoneName reads the current zone abbreviation from the wall clock.
// Swappable for tests.
var localZoneName = func() string {
	name, _ := time.Now().Zone()
	return name
}

// resolveLocalName resolves an OS zone abbreviation, applying the
// fallback chain when the mapping misses: first the OS-reported zone
// name re-resolved through the mapping, then the synthetic fixed-offset
// zone. Each stage is independently toggleable. Ambiguity under strict
// resolution is reported immediately — a fallback cannot fix a name
// that matched too much.
func (z Zones) resolveLocalName(name, territory string, strict bool, opts LocalOptions) (string, error) {
	var firstErr error
	if strict {
		iana, err := z.Only(name, territory)
		if err == nil {
			return iana, nil
		}
		if errors.Is(err, ErrNotUnique) {
			return "", err
		}
		firstErr = err
	} else if iana, ok := z.First(name, territory); ok {
		return iana, nil
	} else {
		firstErr = fmt.Errorf("%w: zone %q, territory %q", ErrNotFound, name, territory)
	}

	if opts.System {
		if info, err := systz.Probe(); err == nil && info != nil {
			if iana, ok := z.First(info.ZoneName, territory); ok {
				return iana, nil
			}
		}
	}
	if opts.Offset {
		return systz.OffsetZone(time.Now()).ZoneName, nil
	}
	return "", firstErr
}

// AllLocal returns every IANA zone the current system zone could mean:
// the mapping matches for the OS zone abbreviation, plus (under the
// toggles) the resolved OS-reported zone name and the synthetic offset
// zone.
func (z Zones) AllLocal(territory string, opts LocalOptions) []string {
	matches := z.All(localZoneName(), territory)
	if opts.System {
		if info, err := systz.Probe(); err == nil && info != nil {
			if iana, ok := z.First(info.ZoneName, territory); ok {
				matches = append(matches, iana)
			}
		}
	}
	if opts.Offset {
		matches = append(matches, systz.OffsetZone(time.Now()).ZoneName)
	}
	return model.SortedSet(matches)
}

// FirstLocal resolves the current system zone permissively.
func (z Zones) FirstLocal(territory string, opts LocalOptions) (string, error) {
	return z.resolveLocalName(localZoneName(), territory, false, opts)
}

// OnlyLocal resolves the current system zone strictly: the mapping match
// must be unique, though the fallback stages still apply when there is
// no match at all.
func (z Zones) OnlyLocal(territory string, opts LocalOptions) (string, error) {
	return z.resolveLocalName(localZoneName(), territory, true, opts)
}
