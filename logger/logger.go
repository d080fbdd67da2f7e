package logger

import (
	"fmt"
	"log"
	"os"
	"path"
	"regexp"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

// frames from (*TrailheadLogger).log up to the code calling a level method
const knownFrames = 2

var pathRegex = regexp.MustCompile("trailhead.*$")

// The Logger interface defines the levels a logging can occur at.
type Logger interface {
	Debug(msg string, ctx *LogContext)
	Error(msg string, ctx *LogContext)
	Fatal(msg string, ctx *LogContext)
	Info(msg string, ctx *LogContext)
	Warn(msg string, ctx *LogContext)

	LogLevel() LogLevel
}

// The SkipLogger interface defines a Logger that scrolls back
// the number of frames provided in order to ascertain the call site.
type SkipLogger interface {
	AddSkip(i int) SkipLogger
	Skip() int
	Logger
}

type LogLevel int

const (
	LogLevelUnk LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

type levelStyle struct {
	name     string
	colorize func(string, ...any) string
}

var levels = map[LogLevel]levelStyle{
	LogLevelUnk:   {"UNK", fmt.Sprintf},
	LogLevelDebug: {"DEBUG", color.WhiteString},
	LogLevelInfo:  {"INFO", color.BlueString},
	LogLevelWarn:  {"WARN", color.YellowString},
	LogLevelError: {"ERROR", color.RedString},
	LogLevelFatal: {"FATAL", color.MagentaString},
}

// NewLogLevel parses val, ignoring case.
// WARNING is accepted for WARN. Anything unrecognized is LogLevelUnk.
func NewLogLevel(val string) LogLevel {
	val = strings.ToUpper(strings.TrimSpace(val))
	if val == "WARNING" {
		return LogLevelWarn
	}

	for ll, style := range levels {
		if ll != LogLevelUnk && style.name == val {
			return ll
		}
	}

	return LogLevelUnk
}

func (ll LogLevel) String() string {
	style, ok := levels[ll]
	if !ok {
		style = levels[LogLevelUnk]
	}

	return "[" + style.name + "]"
}

// TrailheadLogger implements Logger using log.
//
// A TrailheadLogger named for a component, see [Named],
// prints that name after the level.
type TrailheadLogger struct {
	component string
	env       string
	l         *log.Logger
	ll        LogLevel
	skip      int
}

// New constructs a TrailheadLogger.
//
// Logs are printed to os.Stdout by default, using the std lib log pkg.
// The default environment is DEVELOPMENT.
// The default log level is INFO.
//
// If SENTRY_DSN is set, the TrailheadLogger is wrapped in a SentryLogger.
func New(opts ...LoggerOptFn) Logger {
	l := &TrailheadLogger{
		env: os.Getenv("ENVIRONMENT"),
		l:   log.New(os.Stdout, "", log.LstdFlags),
		ll:  LogLevelInfo,
	}
	if l.env == "" {
		l.env = "DEVELOPMENT"
	}

	for _, opt := range opts {
		opt(l)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		l.Info("SENTRY_DSN set, configuring SentryLogger", nil)
		return NewSentryLogger(l, dsn)
	}

	return l
}

// Named returns a copy of l labeling its logs with the component name.
// Loggers not constructed by this package are returned as is.
func Named(l Logger, name string) Logger {
	switch v := l.(type) {
	case *TrailheadLogger:
		return v.named(name)
	case *SentryLogger:
		return v.named(name)
	default:
		return l
	}
}

func (l *TrailheadLogger) named(name string) *TrailheadLogger {
	newl := *l
	newl.component = name
	return &newl
}

// AddSkip replaces the current number of frames to scroll back
// when logging a message.
//
// Use Skip to get the current skip amount
// when needing to add to it with AddSkip.
func (l *TrailheadLogger) AddSkip(i int) SkipLogger {
	newl := *l
	newl.skip = i
	return &newl
}

// Debug writes a debug log.
func (l *TrailheadLogger) Debug(msg string, ctx *LogContext) { l.log(LogLevelDebug, msg, ctx) }

// Error writes an error log.
func (l *TrailheadLogger) Error(msg string, ctx *LogContext) { l.log(LogLevelError, msg, ctx) }

// Fatal writes a fatal log.
func (l *TrailheadLogger) Fatal(msg string, ctx *LogContext) { l.log(LogLevelFatal, msg, ctx) }

// Info writes an info log.
func (l *TrailheadLogger) Info(msg string, ctx *LogContext) { l.log(LogLevelInfo, msg, ctx) }

// Warn writes a warning log.
func (l *TrailheadLogger) Warn(msg string, ctx *LogContext) { l.log(LogLevelWarn, msg, ctx) }

// LogLevel returns the LogLevel set for the TrailheadLogger.
func (l *TrailheadLogger) LogLevel() LogLevel { return l.ll }

// Skip returns the current amount of frames to scroll back
// when logging a message.
func (l *TrailheadLogger) Skip() int { return l.skip }

// log prints msg at level, unless the TrailheadLogger is set above it.
// Must only be called directly by the level methods, so the caller is found.
func (l *TrailheadLogger) log(level LogLevel, msg string, ctx *LogContext) {
	if level < l.ll {
		return
	}

	where := l.caller(ctx)
	if l.component != "" {
		where = "[" + l.component + "] " + where
	}

	msg = levels[level].colorize("%s %s '%s'", level, where, msg)
	if ctx == nil {
		l.l.Println(msg)
		return
	}

	l.l.Println(msg, "log_context:", ctx)
}

// caller names the file and line that called a level method,
// unless ctx overrides it.
func (l *TrailheadLogger) caller(ctx *LogContext) string {
	if ctx != nil && ctx.Caller != "" {
		return ctx.Caller
	}

	_, file, line, _ := runtime.Caller(knownFrames + 1 + l.skip)
	if match := pathRegex.FindString(file); match != "" {
		return fmt.Sprintf(callerTmpl, match, line)
	}

	// NOTE(dlk): print the file and the directory it is in
	// e.g.,:
	// /home/dlk/my-project/main.go => my-project/main.go
	// /home/dlk/my-project/internal/internal.go => internal/internal.go
	dir, name := path.Split(file)
	return fmt.Sprintf(callerTmpl, path.Base(dir)+string(os.PathSeparator)+name, line)
}
