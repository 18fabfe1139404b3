package termplug

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// LogLevel controls which messages a Logger emits.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

// String returns the level name used in log output.
func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "DEBUG"
	case LogInfo:
		return "INFO"
	case LogWarn:
		return "WARN"
	case LogError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a minimal leveled logger for bridge internals. A nil *Logger
// is valid and discards everything, so Options.Logger can stay unset.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  LogLevel
	prefix string
}

// NewLogger creates a logger writing to out at the given level. The
// prefix appears between the timestamp and the message.
func NewLogger(out io.Writer, level LogLevel, prefix string) *Logger {
	return &Logger{
		out:    out,
		level:  level,
		prefix: prefix,
	}
}

// SetLevel changes the minimum level that is emitted.
func (l *Logger) SetLevel(level LogLevel) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	if l == nil || l.out == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	ts := time.Now().Format("2006-01-02T15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		fmt.Fprintf(l.out, "%s [%s] %s: %s\n", ts, level, l.prefix, msg)
	} else {
		fmt.Fprintf(l.out, "%s [%s] %s\n", ts, level, msg)
	}
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(LogDebug, format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(LogInfo, format, args...)
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(LogWarn, format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(LogError, format, args...)
}
