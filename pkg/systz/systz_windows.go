//go:build windows

package systz

import (
	"strings"

	"golang.org/x/sys/windows/registry"
)

const tzKeyPath = `SYSTEM\CurrentControlSet\Control\TimeZoneInformation`

// probe reads the zone key name and bias from the registry. The bias is
// stored as minutes west of UTC, so the sign flips to the ISO convention
// here. Returns (nil, nil) when the key cannot be read.
func probe() (*Info, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, tzKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return nil, nil
	}
	defer k.Close()

	name, _, err := k.GetStringValue("TimeZoneKeyName")
	if err != nil {
		return nil, nil
	}
	name = strings.TrimRight(name, "\x00")

	info := &Info{ZoneName: name}
	if bias, _, err := k.GetIntegerValue("Bias"); err == nil {
		info.OffsetSec = -int(int32(uint32(bias))) * 60
		info.HasOffset = true
	}
	return info, nil
}
