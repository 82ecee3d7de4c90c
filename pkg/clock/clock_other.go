//go:build !linux

package clock

// Platforms without clock_gettime access use the runtime's monotonic
// clock. On darwin and windows the runtime reading is already suspend-
// aware on recent OS releases.
func now() (Time, error) {
	return fallbackNow(), nil
}
