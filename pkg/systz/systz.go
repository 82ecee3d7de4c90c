// Package systz reads the operating system's idea of the local timezone.
//
// It has exactly two jobs: report the configured zone name (from the TZ
// environment variable, /etc/timezone, or the Windows registry), and
// synthesize a fixed-offset zone identifier from the current UTC offset
// for the cases where no name can be resolved at all.
package systz

import (
	"errors"
	"fmt"
	"time"
)

// ErrZoneMismatch is returned when two OS zone sources disagree.
var ErrZoneMismatch = errors.New("system timezone sources disagree")

// Info is an OS-reported timezone. OffsetSec is only meaningful when
// HasOffset is set; the POSIX sources report a name without an offset.
type Info struct {
	ZoneName  string `json:"zone_name"`
	OffsetSec int    `json:"offset_sec"`
	HasOffset bool   `json:"has_offset"`
}

// Probe reads the OS-configured zone name. It returns (nil, nil) when no
// source is available, and ErrZoneMismatch when two sources are present
// but disagree.
func Probe() (*Info, error) {
	return probe()
}

// OffsetZone synthesizes a fixed-offset zone from t's UTC offset. The
// identifier follows the Etc/GMT±HH[:MM] shape with the ISO sign
// convention (east of Greenwich is positive). It names an offset, not a
// tzdb entry; pair it with time.FixedZone rather than time.LoadLocation.
func OffsetZone(t time.Time) Info {
	_, offset := t.Zone()
	return Info{ZoneName: "Etc/GMT" + offsetString(offset), OffsetSec: offset, HasOffset: true}
}

// offsetString renders an offset in seconds as "", "+H", "-H" or
// "±H:MM". Zero stays empty so UTC comes out as plain "Etc/GMT".
func offsetString(sec int) string {
	if sec == 0 {
		return ""
	}
	sign := "+"
	if sec < 0 {
		sign = "-"
		sec = -sec
	}
	h, m := sec/3600, (sec%3600)/60
	if m == 0 {
		return fmt.Sprintf("%s%d", sign, h)
	}
	return fmt.Sprintf("%s%d:%02d", sign, h, m)
}
