package tzmap

import (
	"fmt"
	"time"

	"github.com/suretime/suretime/pkg/clock"
	"github.com/suretime/suretime/pkg/model"
	"github.com/suretime/suretime/pkg/ntp"
)

// Tagged builds tagged datetimes: zoned wall-clock readings paired with
// a clock sample.
//
// Every "now" constructor samples the clock FIRST and reads the wall
// clock second. The gap between the two reads is unaccounted jitter;
// that is acceptable because cross-tag comparisons never rely on
// sub-measurement alignment, but the order is fixed so the jitter always
// has the same sign.
type Tagged struct {
	zones Zones
	local LocalOptions
}

// NewTagged builds tagged constructors over a query surface with the
// default local-lookup fallbacks.
func NewTagged(z Zones) Tagged { return Tagged{zones: z, local: DefaultLocalOptions} }

// NewTaggedWith overrides the local-lookup fallback toggles.
func NewTaggedWith(z Zones, opts LocalOptions) Tagged { return Tagged{zones: z, local: opts} }

// Zones returns the underlying query surface.
func (tg Tagged) Zones() Zones { return tg.zones }

// Now tags the current local time with a system clock sample. strict
// demands a unique mapping match (Only); otherwise the first match is
// taken (First). Territory narrows the lookup as in Zones.All.
func (tg Tagged) Now(territory string, strict bool) (model.TaggedDatetime, error) {
	sample, err := clock.Now()
	if err != nil {
		return model.TaggedDatetime{}, err
	}
	return tg.tag(time.Now(), territory, strict, sample)
}

// NowUTC tags the current instant in UTC with a system clock sample.
func (tg Tagged) NowUTC() (model.TaggedDatetime, error) {
	sample, err := clock.Now()
	if err != nil {
		return model.TaggedDatetime{}, err
	}
	return model.NewTagged(model.NewUTC(time.Now()), sample), nil
}

// NowNTP is Now with the clock sample taken from an NTP query instead of
// the local monotonic clock.
func (tg Tagged) NowNTP(territory string, strict bool, continent string, kind ntp.Kind, timeout time.Duration) (model.TaggedDatetime, error) {
	sample, err := ntp.Clock(continent, kind, timeout)
	if err != nil {
		return model.TaggedDatetime{}, err
	}
	return tg.tag(time.Now(), territory, strict, sample)
}

// NowUTCNTP tags the current UTC instant with an NTP clock sample.
func (tg Tagged) NowUTCNTP(continent string, kind ntp.Kind, timeout time.Duration) (model.TaggedDatetime, error) {
	sample, err := ntp.Clock(continent, kind, timeout)
	if err != nil {
		return model.TaggedDatetime{}, err
	}
	return model.NewTagged(model.NewUTC(time.Now()), sample), nil
}

// Local tags a wall-clock reading taken in the system's local zone. The
// reading must actually be local: a time carrying any other explicit
// location is already zoned, and tagging it here would silently discard
// that zone — use Exact for those.
func (tg Tagged) Local(local time.Time, territory string, strict bool) (model.TaggedDatetime, error) {
	if local.Location() != time.Local {
		return model.TaggedDatetime{}, fmt.Errorf("%w: %s is in %q",
			model.ErrHasZone, local.Format(time.RFC3339Nano), local.Location())
	}
	sample, err := clock.Now()
	if err != nil {
		return model.TaggedDatetime{}, err
	}
	return tg.tag(local, territory, strict, sample)
}

// Exact tags an already-zoned reading: the location name is taken as the
// zone identifier without consulting the mapping. Readings in the
// process-local or unnamed location have no identifier to take and are
// rejected; resolve those through Now or Local instead.
func (tg Tagged) Exact(t time.Time) (model.TaggedDatetime, error) {
	sample, err := clock.Now()
	if err != nil {
		return model.TaggedDatetime{}, err
	}
	name := t.Location().String()
	if name == "" || name == "Local" {
		return model.TaggedDatetime{}, fmt.Errorf("%w: %s carries no zone identifier",
			model.ErrMissingZone, t.Format(time.RFC3339Nano))
	}
	if name == "UTC" {
		name = model.UTCZone
	}
	source := model.NewGenericTimezone(name, "", []string{name})
	z, err := model.NewZoned(t, name, &source)
	if err != nil {
		return model.TaggedDatetime{}, err
	}
	return model.NewTagged(z, sample), nil
}

// Interval pairs two tagged datetimes, enforcing the interval
// invariants.
func (tg Tagged) Interval(start, end model.TaggedDatetime) (model.TaggedInterval, error) {
	return model.NewInterval(start, end)
}

// tag resolves wall's zone through the mapping (with local fallbacks)
// and packages the reading, the resolved zone, the lookup provenance and
// the clock sample.
func (tg Tagged) tag(wall time.Time, territory string, strict bool, sample clock.Time) (model.TaggedDatetime, error) {
	name, _ := wall.Zone()
	matches := tg.zones.All(name, territory)
	iana, err := tg.zones.resolveLocalName(name, territory, strict, tg.local)
	if err != nil {
		return model.TaggedDatetime{}, err
	}
	source := model.NewGenericTimezone(name, territory, matches)
	z, err := model.NewZoned(wall, iana, &source)
	if err != nil {
		return model.TaggedDatetime{}, err
	}
	return model.NewTagged(z, sample), nil
}
