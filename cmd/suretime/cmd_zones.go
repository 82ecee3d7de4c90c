package main

import (
	"flag"
	"fmt"
)

func (a *app) cmdZones(args []string) int {
	flags := flag.NewFlagSet("zones", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	z, err := a.m.Zones()
	if err != nil {
		return fail(err)
	}
	names := z.List()

	if *jsonOut {
		printJSON(map[string]interface{}{"count": len(names), "names": names})
	} else {
		for _, name := range names {
			fmt.Println(name)
		}
	}
	return 0
}
