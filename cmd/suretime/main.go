// Command suretime resolves timezone display names to IANA identifiers
// and reports clock-tagged readings of the current time.
package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage()
		return
	case "--version", "-v", "version":
		fmt.Println("suretime", version)
		return
	}

	a, err := newApp()
	if err != nil {
		fatal("%v", err)
	}

	switch os.Args[1] {
	case "resolve":
		os.Exit(a.cmdResolve(os.Args[2:]))
	case "zones":
		os.Exit(a.cmdZones(os.Args[2:]))
	case "local":
		os.Exit(a.cmdLocal(os.Args[2:]))
	case "now":
		os.Exit(a.cmdNow(os.Args[2:]))
	case "clock":
		os.Exit(a.cmdClock(os.Args[2:]))
	case "ntp":
		os.Exit(a.cmdNTP(os.Args[2:]))
	case "download":
		os.Exit(a.cmdDownload(os.Args[2:]))

	default:
		fmt.Fprintf(os.Stderr, "suretime: unknown command %q\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Run 'suretime --help' for usage.")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`suretime — IANA timezone resolution with clock-tagged timestamps

Display names from the CLDR table resolve to IANA zone sets. Readings of
"now" carry both a wall-clock datetime and a monotonic or NTP clock
sample, so elapsed time survives DST shifts and clock slews.

Usage:
  suretime <command> [flags]

Commands:
  resolve <name>            Resolve a display name to IANA zones
  zones                     List every mapped display name
  local                     Resolve the local timezone
  now                       Clock-tagged current time
  clock                     Sample the monotonic clock
  ntp <continent>           One-shot NTP query against the pool
  download                  Force a fresh CLDR download

Resolve flags:
  --territory CODE          CLDR territory ("001" primary, "any" union)
  --all | --first | --only  Result cardinality (default --all)

Now flags:
  --utc                     Tag in UTC instead of the local zone
  --ntp CONTINENT           Use an NTP clock sample
  --kind KIND               NTP timestamp kind (default client-sent)

Environment:
  SURETIME_CONFIG           YAML config file path
  SURETIME_CACHE            Cache path override ("none" disables)
  SURETIME_NTP_CONTINENT    Default NTP pool continent

All commands support --json for machine-readable output.

Exit codes:
  0  success
  1  error
  2  no zone found, or more than one where exactly one was required
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "suretime: "+format+"\n", args...)
	os.Exit(1)
}
