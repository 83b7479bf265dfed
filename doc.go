/*
Package fleetcheck turns a log of server health checks into uptime and
resource usage reports.

Each check is one line in a flat append log:

	2025-01-02T10:00:00.123456, web01, prod, True, 50, 60, GOOD
	2025-01-02T10:00:05.654321, web01, prod, False, N/A, N/A, CRITICAL

Checks are grouped by server, environment or status, and every group gets
the same summary: total checks, uptime, warning and critical counts, and the
average and maximum CPU and disk usage over the checks where the server
was up.

Example:

	records, malformed, err := fleetcheck.ReadLog(f)
	if err != nil {
		return err
	}
	for _, m := range malformed {
		log.Println(m) // bad lines are skipped, not fatal
	}

	envs, _ := fleetcheck.GroupBy(records, fleetcheck.DimensionEnvironment)
	for _, b := range envs.All() {
		lines, _ := fleetcheck.Render(b, fleetcheck.DimensionEnvironment)
		fmt.Println(strings.Join(lines, "\n"))
	}

Output:

	========================================
	ENVIRONMENT: prod
	Servers in this env: web01
	Total checks: 2
	Uptime: 1/2 (50.0%)
	Warnings: 0
	Critical (down): 1
	Avg CPU: 50.0% | Max CPU: 50%
	Avg Disk: 60.0% | Max Disk: 60%
	========================================

The fleetcheck command wraps this with a check simulator and report files.
Store and simulator settings come from environment variables:

	FLEET_STORE=sqlite            # file (default), sqlite or memory
	FLEET_LOG_FILE=checks.txt     # flat log path for the file store
	FLEET_DB_PATH=/data/fleet.db  # database path for the sqlite store
	FLEET_CHECK_INTERVAL=5s
	FLEET_CPU_WARN_THRESHOLD=80
	FLEET_DISK_WARN_THRESHOLD=85
*/
package fleetcheck
