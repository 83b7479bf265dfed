package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	outputMu sync.Mutex
	output   io.Writer = os.Stderr // stdout is reserved for reports
)

// SetLogOutput redirects log lines, returning the previous writer.
func SetLogOutput(w io.Writer) io.Writer {
	outputMu.Lock()
	defer outputMu.Unlock()
	prev := output
	output = w
	return prev
}

// Public methods
func LogInfo(ctx context.Context, msg string) {
	writeToLog(ctx, "INFO", msg)
}

func LogError(ctx context.Context, msg string) {
	writeToLog(ctx, "ERROR", msg)
}

func LogDebug(ctx context.Context, msg string) {
	if GetContextDebug(ctx) {
		writeToLog(ctx, "DEBUG", msg)
	}
}

// Private methods
func writeToLog(ctx context.Context, severity string, msg string) {

	// Always do normal logging
	outputMu.Lock()
	fmt.Fprintf(output, "%s (fleetcheck) %s +%s [%s] %s\n",
		time.Now().UTC().Format("2006/01/02 15:04:05"),
		severity,
		sinceCreated(ctx),
		GetContextCorrelationId(ctx),
		msg)
	outputMu.Unlock()

	// Additionally collect if enabled
	if c := collectorFrom(ctx); c != nil {
		createdTime := time.Unix(GetContextTimeCreated(ctx), 0)
		elapsedMs := time.Since(createdTime).Seconds() * 1000

		c.mu.Lock()
		c.logs = append(c.logs, CollectedLog{
			Timestamp: time.Now().UTC(),
			Severity:  severity,
			Message:   msg,
			CID:       GetContextCorrelationId(ctx),
			ElapsedMs: elapsedMs,
		})
		c.mu.Unlock()
	}
}

func sinceCreated(ctx context.Context) string {

	created := GetContextTimeCreated(ctx)
	if created == -1 {
		return "0.0s"
	}
	t := time.Since(time.Unix(created, 0)).Seconds()

	return fmt.Sprintf("%.1fs", t)
}
