package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/suretime/suretime/pkg/tzmap"
)

// document is the on-disk form of a cached mapping.
type document struct {
	Version           int          `json:"version"`
	DownloadTimestamp time.Time    `json:"downloadTimestamp"`
	Mapping           tzmap.Mapping `json:"mapping"`
}

// File caches the mapping as a single JSON document on disk.
//
// File access is unlocked: concurrent processes sharing a path race on
// writes and the last writer wins. Every writer produces a complete,
// equally valid document, so a lost write costs at most one redundant
// download.
type File struct {
	path   string
	window time.Duration
	src    tzmap.Source
	opts   tzmap.BuildOptions

	now func() time.Time
}

var _ Backend = (*File)(nil)

// NewFile returns a file-backed cache at path. An empty path disables
// persistence entirely, so every Get rebuilds. Non-positive
// expirationMinutes selects DefaultExpirationMinutes.
func NewFile(path string, expirationMinutes int, src tzmap.Source, opts tzmap.BuildOptions) *File {
	return &File{
		path:   path,
		window: expiration(expirationMinutes),
		src:    src,
		opts:   opts,
		now:    time.Now,
	}
}

// Get returns the cached mapping when the cache file holds a fresh,
// well-formed document of the current schema version. Anything else, a
// missing file and a truncated or foreign document alike, triggers a
// rebuild.
func (c *File) Get() (tzmap.Mapping, error) {
	if doc, ok := c.read(); ok && !stale(c.now(), doc.DownloadTimestamp, c.window) {
		return doc.Mapping, nil
	}
	return c.Download()
}

// Download rebuilds the mapping from the CLDR source and rewrites the
// cache file. A failed write fails the call even though the mapping
// itself was built.
func (c *File) Download() (tzmap.Mapping, error) {
	m, err := tzmap.Build(c.src, c.opts)
	if err != nil {
		return nil, err
	}
	if c.path == "" {
		return m, nil
	}
	doc := document{
		Version:           schemaVersion,
		DownloadTimestamp: c.now().UTC(),
		Mapping:           m,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode cache document: %w", err)
	}
	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		return nil, fmt.Errorf("write cache file: %w", err)
	}
	return m, nil
}

func (c *File) read() (document, bool) {
	if c.path == "" {
		return document{}, false
	}
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return document{}, false
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return document{}, false
	}
	if doc.Version != schemaVersion || doc.Mapping == nil {
		return document{}, false
	}
	return doc, true
}
