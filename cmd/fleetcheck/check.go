package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/thisdougb/fleetcheck/internal/config"
	"github.com/thisdougb/fleetcheck/internal/simulator"
	"github.com/thisdougb/fleetcheck/internal/storage"
)

func runCheck(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cycles := fs.Int("cycles", 0, "stop after this many cycles (0 runs until interrupted)")
	interval := fs.Duration("interval", 0, "pause between cycles (default FLEET_CHECK_INTERVAL)")
	roster := fs.String("roster", config.StringValue("FLEET_ROSTER_FILE"), "YAML roster file")
	seed := fs.Int64("seed", 0, "random seed (0 uses the clock)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg := simulator.DefaultConfig()
	if *roster != "" {
		if cfg, err = simulator.LoadConfig(*roster); err != nil {
			return err
		}
	}
	if *interval > 0 {
		cfg.Interval = *interval
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	storeCfg, err := storage.LoadConfig()
	if err != nil {
		return err
	}
	store, err := storage.NewManagerFromConfig(storeCfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	config.LogInfo(ctx, fmt.Sprintf("checking %d servers every %v (store %s)",
		len(cfg.Servers), cfg.Interval, storeCfg.Kind))

	checker := simulator.NewChecker(cfg, rand.New(rand.NewSource(*seed)), store, stdout)
	if err := checker.Run(ctx, *cycles); err != nil {
		return err
	}

	if ctx.Err() != nil {
		fmt.Fprintln(stdout, "Stopped by user via Key-press")
	}
	return nil
}
