package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/suretime/suretime/pkg/tzmap"
)

func (a *app) cmdResolve(args []string) int {
	flags := flag.NewFlagSet("resolve", flag.ContinueOnError)
	territory := flags.String("territory", "", `CLDR territory ("001" primary, "any" union)`)
	all := flags.Bool("all", false, "print every matching zone")
	first := flags.Bool("first", false, "print the lexicographically first match")
	only := flags.Bool("only", false, "require exactly one match")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: suretime resolve <name> [--territory CODE] [--all|--first|--only] [--json]")
		return 1
	}
	if *first && *only || *all && *first || *all && *only {
		fmt.Fprintln(os.Stderr, "suretime: --all, --first and --only are mutually exclusive")
		return 1
	}
	name := flags.Arg(0)

	z, err := a.m.Zones()
	if err != nil {
		return fail(err)
	}

	var ianas []string
	switch {
	case *only:
		zone, err := z.Only(name, *territory)
		if err != nil {
			return fail(err)
		}
		ianas = []string{zone}
	case *first:
		zone, ok := z.First(name, *territory)
		if !ok {
			return fail(fmt.Errorf("%w: %q", tzmap.ErrNotFound, name))
		}
		ianas = []string{zone}
	default:
		ianas = z.All(name, *territory)
		if len(ianas) == 0 {
			return fail(fmt.Errorf("%w: %q", tzmap.ErrNotFound, name))
		}
	}

	if *jsonOut {
		printJSON(map[string]interface{}{
			"name": name, "territory": *territory, "ianas": ianas,
		})
	} else {
		for _, iana := range ianas {
			fmt.Println(iana)
		}
	}
	return 0
}
