package cache

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	LogsKey = "dexter:voice:logs"
	maxLogs = 100 // Max number of log entries to store in Redis
)

// LogWriter is a zapcore.WriteSyncer that mirrors log lines into a capped Redis list.
type LogWriter struct {
	redisClient *RedisClient
	timeout     time.Duration
}

// NewLogWriter creates a new LogWriter.
func NewLogWriter(client *RedisClient) *LogWriter {
	return &LogWriter{
		redisClient: client,
		timeout:     5 * time.Second,
	}
}

// Write implements the io.Writer interface.
func (lw *LogWriter) Write(p []byte) (n int, err error) {
	logEntry := strings.TrimRight(string(p), "\n")

	ctx, cancel := context.WithTimeout(context.Background(), lw.timeout)
	defer cancel()

	if err := lw.redisClient.AddToList(ctx, LogsKey, logEntry, maxLogs); err != nil {
		// stderr only, the logger itself would recurse
		_, _ = fmt.Fprintf(os.Stderr, "failed to write log to redis: %v\n", err)
	}
	return len(p), nil
}

// Sync is a no-op, every Write is already flushed.
func (lw *LogWriter) Sync() error {
	return nil
}
