/*
Package logger provides logging functionality to a trailhead app by defining the required behavior in [Logger]
and providing an implementation of it with [TrailheadLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
An implementation of Logger may be initialized at a certain [LogLevel]
and only emit messages at or above that level of importance.
For example, [TrailheadLogger] accepts a [LogLevel],
and if initialized with [LogLevelWarn],
only [*TrailheadLogger.Warn], [*TrailheadLogger.Error], and [*TrailheadLogger.Fatal] produce messages.

# TrailheadLogger

Log messages emitted by [TrailheadLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2024/04/28 15:55:21 [ERROR] dispatch/bridge.go:43 'An unhandled error has occurred.' log_context: {"error":"boom","request":{"method":"GET","url":"/fail"}}

The log context is a JSON-encoded [LogContext].
It allows for including additional data inessential to the message proper,
but provides a fuller picture of the application state at the time of logging.

# SentryLogger

When SENTRY_DSN is set, [New] wraps the [TrailheadLogger] in a [SentryLogger],
which ships the [LogContext.Error] of Warn, Error and Fatal logs to Sentry.

# SkipLogger

Sometimes, especially with internal packages, the file and line number in a log needs to be configurable.
[SkipLogger] provides additional configuration functionality by setting the number of frames to skip
back in order to reach the desired caller.
*/
package logger
