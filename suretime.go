// Package suretime resolves timezone display names to IANA identifiers
// and tags wall-clock readings with monotonic or NTP clock samples, so
// elapsed time stays meaningful across DST shifts and NTP slews.
//
// The entry point is a Map, which binds a cached name-to-IANA mapping
// to the lookup and tagging surfaces:
//
//	m := suretime.NonCached()
//	tagged, err := m.Tagged()
//	if err != nil { ... }
//	now, err := tagged.NowUTC()
package suretime

import (
	"strings"
	"sync"

	"github.com/suretime/suretime/pkg/cache"
	"github.com/suretime/suretime/pkg/config"
	"github.com/suretime/suretime/pkg/tzmap"
)

// Map binds a cache backend to a lazily built timezone mapping. The
// mapping is built at most once per Map; Download forces a rebuild.
// All methods are safe for concurrent use.
type Map struct {
	backend cache.Backend
	local   tzmap.LocalOptions

	mu      sync.Mutex
	mapping tzmap.Mapping
}

// New wraps an arbitrary cache backend.
func New(backend cache.Backend) *Map {
	return &Map{backend: backend, local: tzmap.DefaultLocalOptions}
}

// Cached returns a Map backed by a JSON cache file at path. An empty
// path disables persistence. Non-positive expirationMinutes selects
// cache.DefaultExpirationMinutes.
func Cached(path string, expirationMinutes int) *Map {
	return New(cache.NewFile(path, expirationMinutes, tzmap.DefaultSource(), tzmap.BuildOptions{}))
}

// SQLiteCached returns a Map backed by a SQLite cache database at path.
func SQLiteCached(path string, expirationMinutes int) (*Map, error) {
	b, err := cache.NewSQLite(path, expirationMinutes, tzmap.DefaultSource(), tzmap.BuildOptions{})
	if err != nil {
		return nil, err
	}
	return New(b), nil
}

// NonCached returns a Map that rebuilds from the CLDR source on every
// fresh build and persists nothing.
func NonCached() *Map {
	return New(cache.NewFile("", 0, tzmap.DefaultSource(), tzmap.BuildOptions{}))
}

// FromConfig wires a Map from a full configuration: cache backend and
// path, CLDR source, build policy, and lookup fallbacks.
func FromConfig(cfg config.Config) (*Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	path, err := cfg.ResolveCachePath()
	if err != nil {
		return nil, err
	}

	src := tzmap.DefaultSource()
	if cfg.CLDRSource != "" {
		if strings.HasPrefix(cfg.CLDRSource, "http://") || strings.HasPrefix(cfg.CLDRSource, "https://") {
			src = tzmap.URLSource(cfg.CLDRSource)
		} else {
			src = tzmap.FileSource(cfg.CLDRSource)
		}
	}
	opts := tzmap.BuildOptions{StrictZones: cfg.StrictZones}

	var backend cache.Backend
	switch cfg.CacheBackend {
	case config.BackendSQLite:
		backend, err = cache.NewSQLite(path, cfg.ExpirationMinutes, src, opts)
		if err != nil {
			return nil, err
		}
	default:
		backend = cache.NewFile(path, cfg.ExpirationMinutes, src, opts)
	}

	m := New(backend)
	m.local = tzmap.LocalOptions{System: cfg.UseSystemZone, Offset: cfg.UseOffsetZone}
	return m, nil
}

// Mapping returns the built mapping, building it on first use.
func (m *Map) Mapping() (tzmap.Mapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mapping == nil {
		mp, err := m.backend.Get()
		if err != nil {
			return nil, err
		}
		m.mapping = mp
	}
	return m.mapping, nil
}

// Zones returns the lookup surface over the built mapping.
func (m *Map) Zones() (tzmap.Zones, error) {
	mp, err := m.Mapping()
	if err != nil {
		return tzmap.Zones{}, err
	}
	return tzmap.NewZones(mp), nil
}

// Tagged returns the clock-tagging surface over the built mapping,
// carrying the configured local-lookup fallbacks.
func (m *Map) Tagged() (tzmap.Tagged, error) {
	z, err := m.Zones()
	if err != nil {
		return tzmap.Tagged{}, err
	}
	return tzmap.NewTaggedWith(z, m.local), nil
}

// Download rebuilds the mapping from the CLDR source, replaces the
// cached copy, and memoizes the result.
func (m *Map) Download() (tzmap.Mapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mp, err := m.backend.Download()
	if err != nil {
		return nil, err
	}
	m.mapping = mp
	return mp, nil
}
