package simulator

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/thisdougb/fleetcheck/internal/config"
	"github.com/thisdougb/fleetcheck/internal/record"
)

// TimestampLayout is the ISO-8601 form written to the log.
const TimestampLayout = "2006-01-02T15:04:05.000000"

var statusColors = map[record.Status]color.Attribute{
	record.StatusGood:    color.FgGreen,
	record.StatusWarning: color.FgYellow,
}

// Source is the random number source. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Appender receives every generated check.
type Appender interface {
	Append(r record.HealthRecord) error
}

// Evaluate derives the status label for one check.
func Evaluate(cfg Config, isUp bool, cpu, disk int) record.Status {
	if !isUp {
		return record.StatusCritical
	}
	if cpu > cfg.CPUWarnThreshold || disk > cfg.DiskWarnThreshold {
		return record.StatusWarning
	}
	return record.StatusGood
}

// Checker runs simulated checks against the roster.
type Checker struct {
	cfg   Config
	src   Source
	sink  Appender
	out   io.Writer
	color bool
	now   func() time.Time
}

// NewChecker returns a checker writing summaries to out. Colors are used
// only when out is a terminal and NO_COLOR is not set.
func NewChecker(cfg Config, src Source, sink Appender, out io.Writer) *Checker {
	return &Checker{
		cfg:   cfg,
		src:   src,
		sink:  sink,
		out:   out,
		color: isTerminal(out) && !color.NoColor,
		now:   time.Now,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// simulate returns an up state (three in four checks are up) and
// readings in [0, 100].
func (c *Checker) simulate() (bool, int, int) {
	isUp := c.src.Intn(4) != 2
	cpu := c.src.Intn(101)
	disk := c.src.Intn(101)
	return isUp, cpu, disk
}

// Check simulates, records and prints one check for server.
func (c *Checker) Check(ctx context.Context, server Server) (record.HealthRecord, error) {
	isUp, cpu, disk := c.simulate()

	r := record.HealthRecord{
		Timestamp:   c.now().Format(TimestampLayout),
		Server:      server.Name,
		Environment: c.cfg.EnvironmentOf(server),
		IsUp:        isUp,
		Status:      Evaluate(c.cfg, isUp, cpu, disk),
	}
	if isUp {
		r.CPU = record.Reading(cpu)
		r.Disk = record.Reading(disk)
	}

	if err := c.sink.Append(r); err != nil {
		return r, fmt.Errorf("failed to store check for %s: %w", server.Name, err)
	}
	config.LogDebug(ctx, "recorded "+record.Format(r))

	c.printSummary(r)
	return r, nil
}

func (c *Checker) printSummary(r record.HealthRecord) {
	up := "False"
	if r.IsUp {
		up = "True"
	}

	fmt.Fprintf(c.out, "=== Summary for %s /// Type: %s ===\n"+
		"Status:%s\n"+
		"Up: %s\n"+
		"CPU Usage Percentage: %s\n"+
		"Disk Usage Percentage: %s\n\n",
		r.Server, r.Environment, c.paint(r.Status), up, r.CPU, r.Disk)
}

func (c *Checker) paint(s record.Status) string {
	label := "!!!" + string(s) + "!!!"
	if !c.color {
		return label
	}

	attr, ok := statusColors[s]
	if !ok {
		attr = color.FgRed
	}
	painter := color.New(attr)
	painter.EnableColor()
	return painter.Sprint(label)
}

// RunCycle checks every server once, in roster order.
func (c *Checker) RunCycle(ctx context.Context) error {
	for _, s := range c.cfg.Servers {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "\n--- Checking %s ---\n", s.Name)
		if _, err := c.Check(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Run repeats cycles every Interval until ctx is done, or until maxCycles
// cycles have run when maxCycles > 0. A cancelled context is a normal stop
// and returns nil.
func (c *Checker) Run(ctx context.Context, maxCycles int) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for cycle := 1; ; cycle++ {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		fmt.Fprintln(c.out, "++++Server Health Checker++++")
		fmt.Fprintln(c.out, c.now().Format(TimestampLayout))
		if err := c.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fmt.Fprintln(c.out, "++++Cycle Complete++++\n*** STOP with Ctrl + C ***")

		if maxCycles > 0 && cycle >= maxCycles {
			return nil
		}
		timer.Reset(c.cfg.Interval)
	}
}
