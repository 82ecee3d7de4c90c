package main

import (
	"flag"
	"fmt"
	"os"
)

func (a *app) cmdLocal(args []string) int {
	flags := flag.NewFlagSet("local", flag.ContinueOnError)
	territory := flags.String("territory", "", `CLDR territory ("001" primary, "any" union)`)
	all := flags.Bool("all", false, "print every matching zone")
	only := flags.Bool("only", false, "require exactly one match")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if *all && *only {
		fmt.Fprintln(os.Stderr, "suretime: --all and --only are mutually exclusive")
		return 1
	}

	z, err := a.m.Zones()
	if err != nil {
		return fail(err)
	}
	opts := a.localOpts()

	var ianas []string
	switch {
	case *all:
		ianas = z.AllLocal(*territory, opts)
	case *only:
		zone, err := z.OnlyLocal(*territory, opts)
		if err != nil {
			return fail(err)
		}
		ianas = []string{zone}
	default:
		zone, err := z.FirstLocal(*territory, opts)
		if err != nil {
			return fail(err)
		}
		ianas = []string{zone}
	}

	if *jsonOut {
		printJSON(map[string]interface{}{"territory": *territory, "ianas": ianas})
	} else {
		for _, iana := range ianas {
			fmt.Println(iana)
		}
	}
	return 0
}
