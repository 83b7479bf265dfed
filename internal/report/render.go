package report

import (
	"fmt"
	"strings"

	"github.com/thisdougb/fleetcheck/internal/analytics"
)

const separator = "========================================"

// Field is one extra "name: value" line shown under a block label.
type Field struct {
	Name  string
	Value string
}

// Render returns the text block for one bucket. Line order is fixed.
func Render(label string, context []Field, m analytics.MetricsSummary) []string {
	lines := make([]string, 0, 10+len(context))

	lines = append(lines, separator, label)
	for _, f := range context {
		lines = append(lines, f.Name+": "+f.Value)
	}
	lines = append(lines,
		fmt.Sprintf("Total checks: %d", m.TotalChecks),
		fmt.Sprintf("Uptime: %d/%d (%.1f%%)", m.UpCount, m.TotalChecks, m.UptimePct),
		fmt.Sprintf("Warnings: %d", m.WarningCount),
		fmt.Sprintf("Critical (down): %d", m.CriticalCount),
		fmt.Sprintf("Avg CPU: %.1f%% | Max CPU: %d%%", m.AvgCPU, m.MaxCPU),
		fmt.Sprintf("Avg Disk: %.1f%% | Max Disk: %d%%", m.AvgDisk, m.MaxDisk),
		separator,
		"",
	)
	return lines
}

// ServerBlock renders a per-server bucket. The environment shown is the
// one on the bucket's first record.
func ServerBlock(b *analytics.Bucket) []string {
	env := "unknown"
	if len(b.Records) > 0 {
		env = b.Records[0].Environment
	}
	label := fmt.Sprintf("SERVER: %s (env: %s)", b.Key, env)
	return Render(label, nil, b.Metrics())
}

// EnvironmentBlock renders a per-environment bucket with its server list.
func EnvironmentBlock(b *analytics.Bucket) []string {
	context := []Field{{Name: "Servers in this env", Value: strings.Join(b.Servers(), ", ")}}
	return Render("ENVIRONMENT: "+b.Key, context, b.Metrics())
}

// StatusBlock renders a per-status bucket with the servers that reported it.
func StatusBlock(b *analytics.Bucket) []string {
	context := []Field{{Name: "Servers with this status", Value: strings.Join(b.Servers(), ", ")}}
	return Render("STATUS: "+b.Key, context, b.Metrics())
}

// BlockFunc renders one bucket.
type BlockFunc func(*analytics.Bucket) []string

// BlockFor returns the renderer for buckets of dimension d.
func BlockFor(d analytics.Dimension) (BlockFunc, error) {
	switch d {
	case analytics.DimensionServer:
		return ServerBlock, nil
	case analytics.DimensionEnvironment:
		return EnvironmentBlock, nil
	case analytics.DimensionStatus:
		return StatusBlock, nil
	}
	return nil, fmt.Errorf("no report for dimension %q", d)
}
