// Package tzmap builds and queries the mapping from timezone display
// names to canonical IANA zone identifiers.
//
// The mapping has two layers. Every IANA zone known to the host tz
// database maps to itself under the "001" (primary) territory, so IANA
// identifiers always pass straight through. On top of that, the CLDR
// windowsZones.xml table contributes platform display names ("Central
// Pacific Standard Time"), each qualified by a territory: "001" marks
// the CLDR default, 2-letter codes narrow ambiguous names by region.
//
// A name+territory query therefore yields a set of zero or more IANA
// identifiers, always deduplicated and sorted, so repeated lookups are
// order-stable.
package tzmap

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/suretime/suretime/pkg/model"
)

// DefaultCLDRURL is the canonical source of the Windows-to-IANA table.
const DefaultCLDRURL = "https://raw.githubusercontent.com/unicode-org/cldr/main/common/supplemental/windowsZones.xml"

// PrimaryTerritory is the CLDR sentinel for the default, unambiguous
// mapping of a name.
const PrimaryTerritory = "001"

// Mapping is name → territory → sorted set of IANA identifiers. Treat it
// as immutable once built; Clone before mutating.
type Mapping map[string]map[string][]string

// insert records ianas under name/territory, merging with any existing
// set.
func (m Mapping) insert(name, territory string, ianas []string) {
	byTerritory, ok := m[name]
	if !ok {
		byTerritory = make(map[string][]string)
		m[name] = byTerritory
	}
	byTerritory[territory] = model.SortedSet(append(byTerritory[territory], ianas...))
}

// Names returns every mapped display name, sorted.
func (m Mapping) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone deep-copies the mapping.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for name, byTerritory := range m {
		inner := make(map[string][]string, len(byTerritory))
		for terr, ianas := range byTerritory {
			inner[terr] = append([]string(nil), ianas...)
		}
		out[name] = inner
	}
	return out
}

// Source locates the windowsZones.xml data: a remote URL, a local file,
// or a literal document.
type Source struct {
	kind  sourceKind
	value string
}

type sourceKind int

const (
	sourceURL sourceKind = iota
	sourceFile
	sourceLiteral
)

// URLSource fetches the XML over HTTPS.
func URLSource(url string) Source { return Source{kind: sourceURL, value: url} }

// FileSource reads the XML from a local path.
func FileSource(path string) Source { return Source{kind: sourceFile, value: path} }

// LiteralSource uses the given string as the XML document itself.
func LiteralSource(xml string) Source { return Source{kind: sourceLiteral, value: xml} }

// DefaultSource fetches from the canonical CLDR location.
func DefaultSource() Source { return URLSource(DefaultCLDRURL) }

func (s Source) String() string {
	switch s.kind {
	case sourceFile:
		return "file:" + s.value
	case sourceLiteral:
		return "literal xml"
	default:
		return s.value
	}
}

// fetch returns the raw XML. Remote fetches honor the timeout; zero
// means no deadline.
func (s Source) fetch(timeout time.Duration) ([]byte, error) {
	switch s.kind {
	case sourceLiteral:
		return []byte(s.value), nil
	case sourceFile:
		b, err := os.ReadFile(s.value)
		if err != nil {
			return nil, fmt.Errorf("read CLDR file: %w", err)
		}
		return b, nil
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(s.value)
	if err != nil {
		return nil, fmt.Errorf("fetch CLDR data: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch CLDR data: %s returned %s", s.value, resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch CLDR data: %w", err)
	}
	return b, nil
}

// BuildOptions tunes the mapping build.
type BuildOptions struct {
	// StrictZones aborts the whole build when a CLDR element references
	// an IANA id the host tz database does not know. When false (the
	// default) such ids are dropped from the element, and an element
	// with no surviving ids is skipped entirely.
	StrictZones bool

	// HTTPTimeout bounds a remote CLDR fetch. Zero means no deadline.
	HTTPTimeout time.Duration

	// Zones overrides the host tz database enumeration. Intended for
	// tests; leave nil to enumerate the host's zones.
	Zones []string
}

// cldr mirrors just enough of windowsZones.xml.
type cldr struct {
	XMLName  xml.Name   `xml:"supplementalData"`
	MapZones []cldrZone `xml:"windowsZones>mapTimezones>mapZone"`
}

type cldrZone struct {
	Other     string `xml:"other,attr"`
	Territory string `xml:"territory,attr"`
	Type      string `xml:"type,attr"`
}

// Build constructs the full mapping: host IANA zones as identities under
// the primary territory, then the CLDR display-name table. Transport and
// parse failures abort the build with no partial result.
func Build(src Source, opts BuildOptions) (Mapping, error) {
	zones := opts.Zones
	if zones == nil {
		zones = availableZones()
	}
	known := make(map[string]bool, len(zones))
	for _, z := range zones {
		known[z] = true
	}

	m := make(Mapping, len(zones)+256)
	for _, z := range zones {
		m.insert(z, PrimaryTerritory, []string{z})
	}

	raw, err := src.fetch(opts.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	var doc cldr
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse CLDR data from %s: %w", src, err)
	}

	for _, mz := range doc.MapZones {
		ids := strings.Fields(mz.Type)
		kept := ids
		if len(known) > 0 {
			kept = kept[:0:0]
			for _, id := range ids {
				if known[id] {
					kept = append(kept, id)
					continue
				}
				if opts.StrictZones {
					return nil, fmt.Errorf("CLDR element %q/%q references unknown IANA zone %q",
						mz.Other, mz.Territory, id)
				}
			}
		}
		if len(kept) == 0 {
			continue
		}
		m.insert(mz.Other, mz.Territory, kept)
	}
	return m, nil
}
