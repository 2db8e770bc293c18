package guard

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the guard package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the guard package's logger. Leak reports go
// through it, so programs that want leak visibility should install a
// real logger before arming guards.
func SetLogger(l *zap.Logger) {
	logger = l
}
