// Package model defines the core value types for suretime.
//
// The central idea is the tagged datetime: a zoned wall-clock reading
// paired with a monotonic (or network-time) clock sample taken at the
// same moment. The wall clock is for humans; the clock sample is for
// arithmetic. Intervals built from two tagged datetimes can therefore
// answer both "how long did this take, really?" (immune to DST shifts,
// manual clock changes, and suspend/resume) and "how far apart are these
// on the calendar?" — two different questions with two different answers.
package model

import (
	"errors"
	"sort"
)

// Territory sentinels. An empty Territory on a GenericTimezone means the
// name is itself an IANA identifier with no region qualifier.
const (
	// TerritoryPrimary selects the CLDR default ("001") mapping.
	TerritoryPrimary = "primary"
	// TerritoryAny unions the matches across every territory.
	TerritoryAny = "any"
)

var (
	// ErrMissingZone is returned when a datetime lacks a required zone.
	ErrMissingZone = errors.New("datetime is missing a timezone")
	// ErrHasZone is returned when a zone is unexpectedly present.
	ErrHasZone = errors.New("datetime already has a timezone")
	// ErrParse is returned for malformed serialized datetimes.
	ErrParse = errors.New("cannot parse zoned datetime")
	// ErrInvalidInterval is returned when an interval's endpoints are
	// reversed by wall time or by clock ticks. The clock-tick case
	// usually means the clock reset between the two samples, e.g.
	// across a reboot.
	ErrInvalidInterval = errors.New("invalid interval")
)

// GenericTimezone is a display name (an IANA identifier or a CLDR/Windows
// name), an optional territory qualifier, and the set of IANA zones it
// resolves to. It records lookup provenance: which name was asked for,
// scoped how, and everything it could have meant.
type GenericTimezone struct {
	Name string `json:"name"`
	// Territory is "" for bare IANA names, TerritoryPrimary, or a
	// 2-letter region code.
	Territory string `json:"territory,omitempty"`
	// IANAs is deduplicated and sorted lexicographically.
	IANAs []string `json:"ianas"`
}

// NewGenericTimezone builds a GenericTimezone, deduplicating and sorting
// the match set.
func NewGenericTimezone(name, territory string, ianas []string) GenericTimezone {
	return GenericTimezone{Name: name, Territory: territory, IANAs: SortedSet(ianas)}
}

// IsIANA reports whether the name is itself the single IANA zone it
// resolves to.
func (g GenericTimezone) IsIANA() bool {
	return len(g.IANAs) == 1 && g.IANAs[0] == g.Name
}

// HasIANA reports whether the name resolved to anything at all.
func (g GenericTimezone) HasIANA() bool { return len(g.IANAs) > 0 }

// ExactTimezone is a fully resolved lookup: the source name and territory
// plus the single IANA zone chosen.
type ExactTimezone struct {
	Name      string `json:"name"`
	Territory string `json:"territory,omitempty"`
	IANA      string `json:"iana"`
}

// SortedSet returns a deduplicated, lexicographically sorted copy of ss.
// The result is never nil.
func SortedSet(ss []string) []string {
	out := make([]string, 0, len(ss))
	seen := make(map[string]bool, len(ss))
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
