//go:build !windows

package systz

import (
	"fmt"
	"os"
	"strings"
)

// etcTimezone is a variable so tests can point the probe at a fixture.
var etcTimezone = "/etc/timezone"

// probe reads /etc/timezone and $TZ. Both present and disagreeing is an
// error; otherwise whichever is present wins. A TZ value with a leading
// colon (the POSIX "pathname" form, e.g. ":America/New_York") is
// stripped before comparison.
func probe() (*Info, error) {
	var fromFile string
	if b, err := os.ReadFile(etcTimezone); err == nil {
		fromFile = strings.TrimSpace(string(b))
	}
	fromEnv, envSet := os.LookupEnv("TZ")
	fromEnv = strings.TrimPrefix(strings.TrimSpace(fromEnv), ":")

	if envSet && fromEnv != "" && fromFile != "" && fromEnv != fromFile {
		return nil, fmt.Errorf("%w: %q from %s, %q from $TZ", ErrZoneMismatch, fromFile, etcTimezone, fromEnv)
	}
	if fromFile != "" {
		return &Info{ZoneName: fromFile}, nil
	}
	if envSet && fromEnv != "" {
		return &Info{ZoneName: fromEnv}, nil
	}
	return nil, nil
}
