package main

import (
	"flag"
	"fmt"
)

func (a *app) cmdDownload(args []string) int {
	flags := flag.NewFlagSet("download", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	m, err := a.m.Download()
	if err != nil {
		return fail(err)
	}

	if *jsonOut {
		printJSON(map[string]interface{}{"names": len(m)})
	} else {
		fmt.Printf("downloaded mapping with %d display names\n", len(m))
	}
	return 0
}
