package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/thisdougb/fleetcheck/internal/config"
)

const usage = `usage: fleetcheck <command> [flags]

commands:
  check    simulate health checks and append them to the log
  report   build analytics reports from the log
  backup   back up the sqlite store

Run "fleetcheck <command> -h" for command flags.
`

// errUsage reports bad flags; the flag package has already printed why.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	ctx = config.SetContextCorrelationId(ctx, args[0])

	var err error
	switch args[0] {
	case "check":
		err = runCheck(ctx, args[1:], stdout, stderr)
	case "report":
		err = runReport(ctx, args[1:], stdout, stderr)
	case "backup":
		err = runBackup(ctx, args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err == errUsage {
		return 2
	}
	if err != nil {
		config.LogError(ctx, err.Error())
		return 1
	}
	return 0
}
