package config

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

type (
	CorrelationContextKey   string
	DebugContextKey         string
	TimeCreatedContextKey   string
	LogCollectionContextKey string
)

type CollectedLog struct {
	Timestamp time.Time
	Severity  string
	Message   string
	CID       string
	ElapsedMs float64
}

// logCollector is shared by every context derived from EnableLogCollection.
type logCollector struct {
	mu   sync.Mutex
	logs []CollectedLog
}

const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func SetContextCorrelationId(ctx context.Context, value string) context.Context {

	id := make([]byte, 8)
	for idx := 0; idx < 8; idx++ {
		n := rand.Intn(len(chars))
		id[idx] = chars[n]
	}

	newctx := context.WithValue(ctx, CorrelationContextKey("cid"), fmt.Sprintf("%s-%s", string(id), value))

	// if the created time is unset then set it. test for -1 as 0 could be
	// a symptom of a default unset value
	t := GetContextTimeCreated(ctx)
	if t == -1 {
		newctx = context.WithValue(
			newctx,
			TimeCreatedContextKey("timeCreated"),
			time.Now().Unix())
	}

	newctx = context.WithValue(newctx, DebugContextKey("debug"), BoolValue("FLEET_DEBUG"))

	return newctx
}
func GetContextTimeCreated(ctx context.Context) int64 {

	key := TimeCreatedContextKey("timeCreated")

	if v := ctx.Value(key); v != nil {
		return v.(int64)
	}
	return -1
}
func AppendToContextCorrelationId(ctx context.Context, value string) context.Context {
	key := CorrelationContextKey("cid")
	id := GetContextCorrelationId(ctx)
	newctx := context.WithValue(ctx, key, id+"-"+value)
	return newctx
}
func GetContextCorrelationId(ctx context.Context) string {

	key := CorrelationContextKey("cid")

	if v := ctx.Value(key); v != nil {
		return v.(string)
	}

	return "no-id"
}

func GetContextDebug(ctx context.Context) bool {

	key := DebugContextKey("debug")

	if v := ctx.Value(key); v != nil {
		return v.(bool)
	}

	return false
}

// SetContextDebug forces debug logging on or off for this context.
func SetContextDebug(ctx context.Context, debug bool) context.Context {
	return context.WithValue(ctx, DebugContextKey("debug"), debug)
}

// Log Collection Functions
func EnableLogCollection(ctx context.Context) context.Context {
	return context.WithValue(ctx, LogCollectionContextKey("collect"), &logCollector{})
}

// CollectedLogs returns a copy of the logs gathered so far.
func CollectedLogs(ctx context.Context) []CollectedLog {
	c := collectorFrom(ctx)
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CollectedLog(nil), c.logs...)
}

func collectorFrom(ctx context.Context) *logCollector {
	if v := ctx.Value(LogCollectionContextKey("collect")); v != nil {
		return v.(*logCollector)
	}
	return nil
}
