package main

import (
	"flag"
	"fmt"

	"github.com/suretime/suretime/pkg/clock"
)

func (a *app) cmdClock(args []string) int {
	flags := flag.NewFlagSet("clock", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	sample, err := clock.Now()
	if err != nil {
		return fail(err)
	}

	if *jsonOut {
		printJSON(sample)
	} else {
		d := sample.Clock
		fmt.Printf("%d ns on %s\n", sample.Nanos, d.Name)
		fmt.Printf("  implementation: %s\n", d.Implementation)
		fmt.Printf("  monotonic:      %v\n", d.Monotonic)
		fmt.Printf("  adjustable:     %v\n", d.Adjustable)
		if d.ResolutionNanos > 0 {
			fmt.Printf("  resolution:     %d ns\n", d.ResolutionNanos)
		}
	}
	return 0
}
