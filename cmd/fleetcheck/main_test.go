package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thisdougb/fleetcheck/internal/analytics"
	"github.com/thisdougb/fleetcheck/internal/config"
)

const testLog = `2025-01-02T10:00:00.000001, web01, prod, True, 50, 60, GOOD
2025-01-02T10:00:00.000002, db01, prod, True, 90, 20, WARNING
2025-01-02T10:00:00.000003, cache01, dev, False, N/A, N/A, CRITICAL
2025-01-02T10:00:00.000004, web01, prod
2025-01-02T10:00:00.000005, web01, prod, False, N/A, N/A, CRITICAL
`

func quietLogs(t *testing.T) {
	t.Helper()
	prev := config.SetLogOutput(&bytes.Buffer{})
	t.Cleanup(func() { config.SetLogOutput(prev) })
}

func writeLog(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "server_check_log.txt")
	if err := os.WriteFile(path, []byte(testLog), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, path
}

func TestReportToFiles(t *testing.T) {
	quietLogs(t)
	t.Setenv("FLEET_STORE", "file")
	dir, logPath := writeLog(t)
	base := filepath.Join(dir, "analytics_report")

	ctx := config.EnableLogCollection(context.Background())
	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"report", "-input", logPath, "-output", base}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}

	skipped := false
	for _, l := range config.CollectedLogs(ctx) {
		if l.Severity == "ERROR" && strings.Contains(l.Message, "line 4") {
			skipped = true
		}
	}
	if !skipped {
		t.Errorf("the malformed line should be logged: %+v", config.CollectedLogs(ctx))
	}

	serverReport, err := os.ReadFile(filepath.Join(dir, "server_analytics_report.txt"))
	if err != nil {
		t.Fatal(err)
	}
	envReport, err := os.ReadFile(filepath.Join(dir, "env_analytics_report.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "status_analytics_report.txt")); !os.IsNotExist(err) {
		t.Error("status report should only be written for -report status or all")
	}

	if stdout.String() != string(serverReport)+string(envReport) {
		t.Error("terminal output should match the report files")
	}

	expectedWeb := strings.Join([]string{
		"========================================",
		"SERVER: web01 (env: prod)",
		"Total checks: 2",
		"Uptime: 1/2 (50.0%)",
		"Warnings: 0",
		"Critical (down): 1",
		"Avg CPU: 50.0% | Max CPU: 50%",
		"Avg Disk: 60.0% | Max Disk: 60%",
		"========================================",
		"",
	}, "\n")
	if !strings.HasPrefix(string(serverReport), expectedWeb+"\n") {
		t.Errorf("unexpected server report:\n%s", serverReport)
	}
	if !strings.Contains(string(envReport), "Servers in this env: db01, web01") {
		t.Errorf("unexpected env report:\n%s", envReport)
	}
}

func TestReportNoFile(t *testing.T) {
	quietLogs(t)
	dir, logPath := writeLog(t)
	base := filepath.Join(dir, "analytics_report")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"report", "-input", logPath, "-output", base, "-report", "status", "-no-file"},
		&stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}

	if _, err := os.Stat(filepath.Join(dir, "status_analytics_report.txt")); !os.IsNotExist(err) {
		t.Error("-no-file should not write reports")
	}
	for _, want := range []string{"STATUS: GOOD", "STATUS: WARNING", "STATUS: CRITICAL"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("missing %q in:\n%s", want, stdout.String())
		}
	}
}

func TestReportBadFlags(t *testing.T) {
	quietLogs(t)
	var stdout, stderr bytes.Buffer

	if code := run(context.Background(), []string{"report", "-report", "rack"}, &stdout, &stderr); code != 2 {
		t.Errorf("expected exit 2 for bad -report, got %d", code)
	}
	if code := run(context.Background(), []string{"report", "-bogus"}, &stdout, &stderr); code != 2 {
		t.Errorf("expected exit 2 for unknown flag, got %d", code)
	}
	if code := run(context.Background(), []string{"explode"}, &stdout, &stderr); code != 2 {
		t.Errorf("expected exit 2 for unknown command, got %d", code)
	}
	if code := run(context.Background(), nil, &stdout, &stderr); code != 2 {
		t.Errorf("expected exit 2 with no command, got %d", code)
	}
}

func TestReportMissingLog(t *testing.T) {
	quietLogs(t)
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "nope.txt")
	if code := run(context.Background(), []string{"report", "-input", missing, "-no-file"}, &stdout, &stderr); code != 1 {
		t.Errorf("expected exit 1 for missing log, got %d", code)
	}
}

func TestCheckThenReport(t *testing.T) {
	quietLogs(t)
	dir := t.TempDir()
	logPath := filepath.Join(dir, "checks.txt")
	t.Setenv("FLEET_STORE", "file")
	t.Setenv("FLEET_LOG_FILE", logPath)
	t.Setenv("FLEET_ROSTER_FILE", "")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"check", "-cycles", "2", "-interval", "1ms", "-seed", "9"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("check exit %d: %s", code, stderr.String())
	}
	if strings.Count(stdout.String(), "=== Summary for") != 10 {
		t.Errorf("expected 10 check summaries:\n%s", stdout.String())
	}

	stdout.Reset()
	code = run(context.Background(), []string{"report", "-report", "env", "-no-file"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("report exit %d: %s", code, stderr.String())
	}
	for _, env := range []string{"ENVIRONMENT: prod", "ENVIRONMENT: dev", "ENVIRONMENT: stage"} {
		if !strings.Contains(stdout.String(), env) {
			t.Errorf("missing %q in:\n%s", env, stdout.String())
		}
	}
	if !strings.Contains(stdout.String(), "Servers in this env: auth02, cache01") {
		t.Errorf("auth02 should fall back to dev:\n%s", stdout.String())
	}
}

func TestBackupNeedsSQLite(t *testing.T) {
	quietLogs(t)
	t.Setenv("FLEET_STORE", "file")
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"backup"}, &stdout, &stderr); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
}

func TestBackupSQLite(t *testing.T) {
	quietLogs(t)
	dir := t.TempDir()
	t.Setenv("FLEET_STORE", "sqlite")
	t.Setenv("FLEET_DB_PATH", filepath.Join(dir, "fleet.db"))
	t.Setenv("FLEET_BACKUP_DIR", filepath.Join(dir, "backups"))

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"check", "-cycles", "1", "-seed", "4"}, &stdout, &stderr); code != 0 {
		t.Fatalf("check exit %d: %s", code, stderr.String())
	}

	stdout.Reset()
	if code := run(context.Background(), []string{"backup"}, &stdout, &stderr); code != 0 {
		t.Fatalf("backup exit %d: %s", code, stderr.String())
	}

	stdout.Reset()
	if code := run(context.Background(), []string{"backup", "-list"}, &stdout, &stderr); code != 0 {
		t.Fatalf("list exit %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "fleetcheck_") {
		t.Errorf("expected a listed backup, got %q", stdout.String())
	}

	stdout.Reset()
	if code := run(context.Background(), []string{"report", "-report", "server", "-no-file"}, &stdout, &stderr); code != 0 {
		t.Fatalf("report exit %d: %s", code, stderr.String())
	}
	if strings.Count(stdout.String(), "SERVER: ") != 5 {
		t.Errorf("expected 5 server blocks from sqlite:\n%s", stdout.String())
	}
}

func TestReportPath(t *testing.T) {
	opts := reportOptions{OutputBase: "out/weekly"}
	if got := opts.reportPath(analytics.DimensionEnvironment); got != filepath.Join("out", "env_weekly.txt") {
		t.Errorf("unexpected path %q", got)
	}
	opts.OutputBase = "reports" + string(filepath.Separator)
	if got := opts.reportPath(analytics.DimensionServer); got != filepath.Join("reports", "server_analytics_report.txt") {
		t.Errorf("a directory-only base should use the default name, got %q", got)
	}

	opts.NoFile = true
	if got := opts.reportPath(analytics.DimensionServer); got != "" {
		t.Errorf("no-file should give empty path, got %q", got)
	}
}
