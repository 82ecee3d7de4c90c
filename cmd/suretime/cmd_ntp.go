package main

import (
	"flag"
	"fmt"

	"github.com/suretime/suretime/pkg/ntp"
)

func (a *app) cmdNTP(args []string) int {
	flags := flag.NewFlagSet("ntp", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	// The positional continent falls back to the configured default.
	continent := a.cfg.NTPContinent
	if flags.NArg() > 0 {
		continent = flags.Arg(0)
	}

	resp, err := ntp.Query(continent, a.ntpTimeout())
	if err != nil {
		return fail(err)
	}

	if *jsonOut {
		printJSON(resp)
	} else {
		fmt.Printf("server:          %s\n", resp.Server)
		fmt.Printf("stratum:         %d\n", resp.Stratum)
		fmt.Printf("precision:       2^%d s\n", resp.Precision)
		fmt.Printf("root delay:      %v\n", resp.RootDelay)
		fmt.Printf("root dispersion: %v\n", resp.RootDispersion)
		fmt.Printf("round trip:      %v\n", resp.RoundTrip())
		fmt.Printf("client sent:     %d\n", resp.ClientSent)
		fmt.Printf("server received: %d\n", resp.ServerReceived)
		fmt.Printf("server sent:     %d\n", resp.ServerSent)
		fmt.Printf("client received: %d\n", resp.ClientReceived)
	}
	return 0
}
