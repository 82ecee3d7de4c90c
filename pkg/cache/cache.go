// Package cache persists built timezone mappings so that most lookups
// never touch the network.
//
// A backend remembers one mapping together with the instant it was
// downloaded. Get serves the stored mapping while its age is within the
// expiration window and rebuilds from the CLDR source otherwise; the
// window is inclusive, so a mapping aged exactly the expiration is
// still served.
package cache

import (
	"time"

	"github.com/suretime/suretime/pkg/tzmap"
)

// DefaultExpirationMinutes keeps a mapping for about a month, matching
// the CLDR release cadence.
const DefaultExpirationMinutes = 43830

// schemaVersion tags the persisted form. A stored mapping with a
// different version is treated as absent and rebuilt.
const schemaVersion = 1

// Backend is a cache of one built timezone mapping.
type Backend interface {
	// Get returns the stored mapping if it is present and not yet
	// expired, rebuilding from the CLDR source otherwise.
	Get() (tzmap.Mapping, error)

	// Download rebuilds from the CLDR source unconditionally and
	// replaces the stored mapping.
	Download() (tzmap.Mapping, error)
}

// expiration converts a minute count to a duration, substituting the
// default for non-positive values.
func expiration(minutes int) time.Duration {
	if minutes <= 0 {
		minutes = DefaultExpirationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// stale reports whether a mapping downloaded at downloadedAt has
// outlived the window at instant now. The boundary itself is fresh.
func stale(now, downloadedAt time.Time, window time.Duration) bool {
	return now.Sub(downloadedAt) > window
}
