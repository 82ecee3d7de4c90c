package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/suretime/suretime"
	"github.com/suretime/suretime/pkg/config"
	"github.com/suretime/suretime/pkg/tzmap"
)

// app holds shared state for all CLI subcommands.
type app struct {
	cfg config.Config
	m   *suretime.Map
}

// newApp resolves the configuration (SURETIME_CONFIG plus overrides)
// and wires the map. The mapping itself is built lazily, so commands
// that never need it pay nothing.
func newApp() (*app, error) {
	cfg, err := config.Resolve()
	if err != nil {
		return nil, err
	}
	m, err := suretime.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, m: m}, nil
}

func (a *app) localOpts() tzmap.LocalOptions {
	return tzmap.LocalOptions{System: a.cfg.UseSystemZone, Offset: a.cfg.UseOffsetZone}
}

func (a *app) ntpTimeout() time.Duration {
	return time.Duration(a.cfg.NTPTimeoutSeconds) * time.Second
}

// exitFor maps an error to the CLI exit code: lookup-cardinality
// failures get the distinct code 2 so scripts can tell "no such zone"
// from breakage.
func exitFor(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, tzmap.ErrNotFound) || errors.Is(err, tzmap.ErrNotUnique) {
		return 2
	}
	return 1
}

// fail prints err and returns its exit code.
func fail(err error) int {
	fmt.Fprintf(os.Stderr, "suretime: %v\n", err)
	return exitFor(err)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
