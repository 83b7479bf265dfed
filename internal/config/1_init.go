package config

import (
	"context"
	"fmt"
	"runtime"
)

func init() {
	if BoolValue("FLEET_DEBUG") {
		ctx := SetContextCorrelationId(context.Background(), "init")
		LogDebug(ctx, fmt.Sprintf("fleetcheck config.init(): arch: %v", runtime.GOOS))
		LogDebug(ctx, "fleetcheck config initialized with environment variable defaults")
	}
}
