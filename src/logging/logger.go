package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// LogLevel represents severity.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var currentLevel int32 = int32(LevelInfo)

var baseLogger = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)

// ValidLevel reports whether s names a known log level.
func ValidLevel(s string) bool {
	_, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// SetLogLevel parses and sets global log level. Unknown names leave the level unchanged.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	atomic.StoreInt32(&currentLevel, int32(l))
}

func getLevel() LogLevel { return LogLevel(atomic.LoadInt32(&currentLevel)) }

// GetLogLevel returns current global log level.
func GetLogLevel() LogLevel { return getLevel() }

// SetOutput redirects all log lines; it returns the previous writer's logger so callers can restore it.
func SetOutput(w io.Writer) *log.Logger {
	prev := baseLogger
	baseLogger = log.New(w, "", prev.Flags())
	return prev
}

// Restore puts back a logger previously returned by SetOutput.
func Restore(l *log.Logger) {
	if l != nil {
		baseLogger = l
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// logf writes one line: level tag, optional scope, message.
func logf(l LogLevel, scope, format string, args ...interface{}) {
	if getLevel() > l {
		return
	}
	msg := format
	// Argument-less messages are written as-is so literal % characters (e.g. "12.5%") survive.
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if scope == "" {
		baseLogger.Printf("[%s] %s", l, msg)
		return
	}
	baseLogger.Printf("[%s] [%s] %s", l, scope, msg)
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, "", format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, "", format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, "", format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, "", format, a...) }

// Logger tags every line with a scope such as "http#12", so all lines of one request can be grepped together.
type Logger struct {
	scope string
}

// Scoped returns a logger for scope. An empty scope logs like the package functions.
func Scoped(scope string) Logger { return Logger{scope: strings.TrimSpace(scope)} }

// With appends a sub-scope: Scoped("http").With("12") logs as [http/12].
func (l Logger) With(sub string) Logger {
	sub = strings.TrimSpace(sub)
	switch {
	case sub == "":
		return l
	case l.scope == "":
		return Logger{scope: sub}
	}
	return Logger{scope: l.scope + "/" + sub}
}

// Scope returns the logger's scope.
func (l Logger) Scope() string { return l.scope }

func (l Logger) Debugf(format string, a ...interface{}) { logf(LevelDebug, l.scope, format, a...) }
func (l Logger) Infof(format string, a ...interface{})  { logf(LevelInfo, l.scope, format, a...) }
func (l Logger) Warnf(format string, a ...interface{})  { logf(LevelWarn, l.scope, format, a...) }
func (l Logger) Errorf(format string, a ...interface{}) { logf(LevelError, l.scope, format, a...) }

type ctxKey struct{}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or an unscoped one.
func FromContext(ctx context.Context) Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
			return l
		}
	}
	return Logger{}
}

// TimeTrack logs the time elapsed since start at debug level.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
