package tileview

import (
	"log/slog"
	"sync/atomic"
)

// logger is shared by the frame goroutine and Load's fetch goroutine.
var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(silentLogger())
}

func silentLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

// SetLogger routes tileview's log records to l. The viewer is silent until
// this is called; nil makes it silent again.
//
// What gets logged:
//   - Debug: frame timing summaries every two seconds, decoded image formats
//   - Info: viewer state changes, image loads with their tile counts, screenshots
//   - Warn: adjusted tile sizes, dropped input events, failed test script steps
//   - Error: frame and screenshot failures
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silentLogger()
	}
	logger.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return logger.Load()
}
