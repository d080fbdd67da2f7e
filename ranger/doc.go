/*
Package ranger initializes and manages a trailhead app with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type.
A [Ranger] ought to be constructed with [New],
which discovers the handler modules in the routes directory
and mounts the web and socket routers built from them.

[*Ranger.Guide] begins a trailhead app's web server.
By default, [*Ranger.Guide] listens on [DefaultPort] (:3000).

Stop that web server with [*Ranger.Shutdown],
cancel the context.Context passed to [WithContext],
or send a signal [*Ranger.Guide] listens for.

# Configuration

A developer configures a trailhead app through environment variables
and [RangerOption]s.

Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - CORS_ORIGINS: comma separated origins the "cors" middleware allows; unset, no "cors" middleware is available
  - ENVIRONMENT: the environment the application is running in; cf. [trailhead.Environment]
  - HOST: the host the application is running on
  - HOT_RELOAD: whether to reload changed handler modules; only honored in DEVELOPMENT, REVIEW and TESTING
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - METRICS: whether to serve Prometheus metrics at /metrics; default: true
  - PORT: the port the application should listen on; default: :3000
  - REDIS_URL: a Redis URL the "idempotent" middleware stores responses at; default: in memory
  - ROUTE_INDEX: whether to list the handler modules as JSON at /_routes, filtered by an optional role query param; default: true outside PRODUCTION
  - ROUTES_DIR: the directory handler modules are discovered in; default: routes
  - SENTRY_DSN: the Sentry DSN errors are reported to
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
  - WEB_ROOT: the path prefix the web router is mounted at; default: /
  - WEBSOCKET_ROOT: the path prefix the socket router is mounted at; default: /
*/
package ranger
