package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/thisdougb/fleetcheck/internal/analytics"
	"github.com/thisdougb/fleetcheck/internal/config"
	"github.com/thisdougb/fleetcheck/internal/report"
	"github.com/thisdougb/fleetcheck/internal/storage"
	"github.com/thisdougb/fleetcheck/internal/watch"
)

// reportKinds maps -report values to the dimensions they cover.
var reportKinds = map[string][]analytics.Dimension{
	"server": {analytics.DimensionServer},
	"env":    {analytics.DimensionEnvironment},
	"status": {analytics.DimensionStatus},
	"both":   {analytics.DimensionServer, analytics.DimensionEnvironment},
	"all":    {analytics.DimensionServer, analytics.DimensionEnvironment, analytics.DimensionStatus},
}

var filePrefix = map[analytics.Dimension]string{
	analytics.DimensionServer:      "server",
	analytics.DimensionEnvironment: "env",
	analytics.DimensionStatus:      "status",
}

const defaultOutputBase = "analytics_report"

type reportOptions struct {
	Dimensions []analytics.Dimension
	OutputBase string // report files are <dir>/<prefix>_<name>.txt
	NoFile     bool
}

// reportPath returns the file for dimension d, or "" when files are off.
func (o reportOptions) reportPath(d analytics.Dimension) string {
	if o.NoFile {
		return ""
	}
	dir, name := filepath.Split(o.OutputBase)
	if name == "" {
		name = defaultOutputBase
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.txt", filePrefix[d], name))
}

func runReport(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "", "log file to read (default FLEET_LOG_FILE, file store only)")
	output := fs.String("output", defaultOutputBase, "base name for report files")
	kind := fs.String("report", "both", "which report(s): server, env, status, both or all")
	noFile := fs.Bool("no-file", false, "print reports to the terminal only")
	follow := fs.Bool("watch", false, "rebuild reports whenever the log file changes")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	dims, ok := reportKinds[*kind]
	if !ok {
		fmt.Fprintf(stderr, "invalid -report %q\n", *kind)
		return errUsage
	}
	opts := reportOptions{Dimensions: dims, OutputBase: *output, NoFile: *noFile}

	storeCfg, err := storage.LoadConfig()
	if err != nil {
		return err
	}
	if *input != "" {
		storeCfg.Kind = storage.KindFile
		storeCfg.LogPath = *input
	}
	store, err := storage.NewManagerFromConfig(storeCfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	pass := func(ctx context.Context) error {
		return generateReports(ctx, store, opts, stdout)
	}

	if !*follow {
		return pass(ctx)
	}

	watched := storeCfg.LogPath
	if storeCfg.Kind == storage.KindSQLite {
		watched = storeCfg.DBPath
	}
	ctx = config.AppendToContextCorrelationId(ctx, "watch")
	config.LogInfo(ctx, "watching "+watched)
	return watch.File(ctx, watched, 250*time.Millisecond, pass)
}

// generateReports runs one full pass: load, group, render.
func generateReports(ctx context.Context, store *storage.Manager, opts reportOptions, stdout io.Writer) error {
	result, err := store.Load()
	if err != nil {
		return err
	}
	for _, m := range result.Malformed {
		config.LogError(ctx, "skipping "+m.Error())
	}
	config.LogDebug(ctx, fmt.Sprintf("loaded %d records", len(result.Records)))

	groups, err := analytics.GroupAll(ctx, result.Records, opts.Dimensions...)
	if err != nil {
		return err
	}

	for _, d := range opts.Dimensions {
		block, err := report.BlockFor(d)
		if err != nil {
			return err
		}
		if err := report.WriteReport(opts.reportPath(d), stdout, groups[d], block); err != nil {
			return err
		}
	}
	return nil
}
