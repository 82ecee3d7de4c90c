package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/suretime/suretime/pkg/model"
	"github.com/suretime/suretime/pkg/ntp"
)

func (a *app) cmdNow(args []string) int {
	flags := flag.NewFlagSet("now", flag.ContinueOnError)
	utc := flags.Bool("utc", false, "tag in UTC instead of the local zone")
	territory := flags.String("territory", "", "territory for the local zone lookup")
	strict := flags.Bool("strict", false, "require exactly one local zone match")
	continent := flags.String("ntp", "", "tag with an NTP clock from this pool continent")
	kindStr := flags.String("kind", string(ntp.ClientSent), "NTP timestamp kind")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	tg, err := a.m.Tagged()
	if err != nil {
		return fail(err)
	}

	var tagged model.TaggedDatetime
	switch {
	case *continent != "":
		kind, err := ntp.ParseKind(*kindStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "suretime: %v\n", err)
			return 1
		}
		if *utc {
			tagged, err = tg.NowUTCNTP(*continent, kind, a.ntpTimeout())
		} else {
			tagged, err = tg.NowNTP(*territory, *strict, *continent, kind, a.ntpTimeout())
		}
		if err != nil {
			return fail(err)
		}
	case *utc:
		tagged, err = tg.NowUTC()
		if err != nil {
			return fail(err)
		}
	default:
		tagged, err = tg.Now(*territory, *strict)
		if err != nil {
			return fail(err)
		}
	}

	if *jsonOut {
		printJSON(tagged)
	} else {
		fmt.Println(tagged.String())
		fmt.Printf("clock %s at %d ns\n", tagged.Clock.Clock.Name, tagged.Clock.Nanos)
	}
	return 0
}
