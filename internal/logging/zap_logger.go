package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// ZapLogger adapts a zap SugaredLogger to psqlc.Logger.
// Verbose maps to the debug level.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(z *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: z.Sugar()}
}

// NewDebugFileLogger builds a debug-level zap logger writing JSON lines to
// path, tagging every entry with runID.
func NewDebugFileLogger(path, runID string) (*ZapLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	config.Encoding = "json"
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{"stderr"}

	z, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return NewZapLogger(z.With(zap.String("run_id", runID))), nil
}

// DefaultDebugLogPath returns PSQLC_LOG_FILE, or psqlc.log in the user cache directory.
func DefaultDebugLogPath() string {
	if p := os.Getenv("PSQLC_LOG_FILE"); p != "" {
		return p
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "psqlc", "psqlc.log")
}

func (l *ZapLogger) Verbose(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *ZapLogger) Info(format string, args ...interface{})    { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Warn(format string, args ...interface{})    { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Error(format string, args ...interface{})   { l.sugar.Errorf(format, args...) }

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

var _ psqlc.Logger = (*ZapLogger)(nil)
