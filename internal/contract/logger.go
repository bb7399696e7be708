package contract

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerMu sync.RWMutex
	logger   = zap.NewNop()
	level    = zap.NewAtomicLevelAt(zapcore.WarnLevel)
)

// InitLogger installs the process-wide diagnostic logger at the given level.
// Diagnostics go to stderr so they never mix with data written to stdout.
func InitLogger(lvl zapcore.Level) {
	level.SetLevel(lvl)

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[ERROR] Failed to create Zap Development logger because: %v\n", err)
		return
	}

	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// Logger returns the process-wide diagnostic logger.
// It is a no-op logger until InitLogger runs.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SyncLogger flushes any buffered log entries.
func SyncLogger() {
	_ = Logger().Sync()
}
