package logger

import (
	"io"
	"log"
)

// A LoggerOptFn configures a TrailheadLogger constructed with [New].
type LoggerOptFn func(*TrailheadLogger)

// WithComponent labels every log with name, as [Named] does.
func WithComponent(name string) LoggerOptFn {
	return func(l *TrailheadLogger) { l.component = name }
}

// WithEnv sets the environment reported alongside errors sent to Sentry.
func WithEnv(env string) LoggerOptFn {
	return func(l *TrailheadLogger) {
		if env != "" {
			l.env = env
		}
	}
}

// WithLevel sets the lowest LogLevel printed.
// LogLevelUnk is ignored.
func WithLevel(level LogLevel) LoggerOptFn {
	return func(l *TrailheadLogger) {
		if level != LogLevelUnk {
			l.ll = level
		}
	}
}

// WithLogger prints through lg.
func WithLogger(lg *log.Logger) LoggerOptFn {
	return func(l *TrailheadLogger) {
		if lg != nil {
			l.l = lg
		}
	}
}

// WithOutput prints to w without timestamps.
func WithOutput(w io.Writer) LoggerOptFn {
	return WithLogger(log.New(w, "", 0))
}

// WithSkip sets how many more frames to skip when finding the calling code.
// Wrappers of a Logger set it to report their callers instead of themselves.
func WithSkip(skip int) LoggerOptFn {
	return func(l *TrailheadLogger) { l.skip = skip }
}
