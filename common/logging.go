package common

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the process-wide structured logger.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          "waterjam",
		})
		logger.SetLevel(log.InfoLevel)
	})
	return logger
}

// SetDebug switches the logger between debug and info level.
func SetDebug(debug bool) {
	if debug {
		Logger().SetLevel(log.DebugLevel)
		return
	}
	Logger().SetLevel(log.InfoLevel)
}

// WithPrefix returns a child logger tagged with a subsystem name.
func WithPrefix(prefix string) *log.Logger {
	return Logger().WithPrefix("waterjam/" + prefix)
}
