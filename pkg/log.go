package pkg

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Component identifies a subsystem for log filtering.
type Component string

// Driver component identifiers.
const (
	ComponentDBM      Component = "dbm"
	ComponentHAL      Component = "hal"
	ComponentPlatform Component = "platform"
)

// LogFormat specifies the output format for logging.
type LogFormat int

// Log format options.
const (
	LogFormatText LogFormat = iota // Text format (default)
	LogFormatJSON                  // JSON format
)

var (
	// DefaultLogger is the logger used by all driver components.
	DefaultLogger *logrus.Logger

	// logMutex protects logger configuration.
	logMutex sync.RWMutex
)

func init() {
	DefaultLogger = logrus.New()
	DefaultLogger.SetOutput(os.Stderr)
	DefaultLogger.SetLevel(logrus.WarnLevel)
}

// SetLogLevel sets the minimum log level for all driver logging.
func SetLogLevel(level logrus.Level) {
	logMutex.RLock()
	defer logMutex.RUnlock()
	DefaultLogger.SetLevel(level)
}

// GetLogLevel returns the current minimum log level.
func GetLogLevel() logrus.Level {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return DefaultLogger.GetLevel()
}

// SetLogger replaces the default logger with a custom logger.
func SetLogger(logger *logrus.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()
	DefaultLogger = logger
}

// SetLogOutput redirects all driver logging to the given writer.
func SetLogOutput(w io.Writer) {
	logMutex.RLock()
	defer logMutex.RUnlock()
	DefaultLogger.SetOutput(w)
}

// SetLogFormat configures the default logger to use the specified format.
func SetLogFormat(format LogFormat) {
	logMutex.RLock()
	defer logMutex.RUnlock()
	switch format {
	case LogFormatJSON:
		DefaultLogger.SetFormatter(&logrus.JSONFormatter{})
	default:
		DefaultLogger.SetFormatter(&logrus.TextFormatter{})
	}
}

// Log returns a log entry tagged with the given component.
func Log(component Component) *logrus.Entry {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return DefaultLogger.WithField("component", string(component))
}

// LogDebugf logs a formatted debug message with the given component.
func LogDebugf(component Component, format string, args ...any) {
	Log(component).Debugf(format, args...)
}

// LogInfof logs a formatted info message with the given component.
func LogInfof(component Component, format string, args ...any) {
	Log(component).Infof(format, args...)
}

// LogWarnf logs a formatted warning message with the given component.
func LogWarnf(component Component, format string, args ...any) {
	Log(component).Warnf(format, args...)
}

// LogErrorf logs a formatted error message with the given component.
func LogErrorf(component Component, format string, args ...any) {
	Log(component).Errorf(format, args...)
}
