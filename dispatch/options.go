package dispatch

import (
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/http/socket"
	"github.com/xy-planning-network/trailhead/logger"
	"github.com/xy-planning-network/trailhead/metrics"
)

type options struct {
	hot           bool
	webRoot       string
	webSocketRoot string
	logger        logger.Logger
	middleware    middleware.Set
	upgrader      socket.Upgrader
	metrics       *metrics.Metrics
	onReload      func(id string)
}

// An OptFn configures a *Dispatcher.
type OptFn func(*options)

// WithHot checks whether a handler module's file changed before every call to it,
// reloading it if so.
func WithHot(hot bool) OptFn {
	return func(o *options) { o.hot = hot }
}

// WithWebRoot sets the prefix SetRoutes mounts the web router at.
func WithWebRoot(root string) OptFn {
	return func(o *options) {
		if root != "" {
			o.webRoot = root
		}
	}
}

// WithWebSocketRoot sets the prefix SetRoutes mounts the socket router at.
func WithWebSocketRoot(root string) OptFn {
	return func(o *options) {
		if root != "" {
			o.webSocketRoot = root
		}
	}
}

// WithLogger sets the logger.Logger unhandled errors and warnings are logged to.
func WithLogger(l logger.Logger) OptFn {
	return func(o *options) {
		if l != nil {
			o.logger = logger.Named(l, "dispatch")
		}
	}
}

// WithMiddleware sets the middleware.Set handler modules name their middleware from.
func WithMiddleware(set middleware.Set) OptFn {
	return func(o *options) { o.middleware = set }
}

// WithUpgrader sets how requests to WebSocket endpoints are upgraded.
func WithUpgrader(up socket.Upgrader) OptFn {
	return func(o *options) {
		if up != nil {
			o.upgrader = up
		}
	}
}

// WithMetrics records dispatches, reloads and unhandled errors to m.
func WithMetrics(m *metrics.Metrics) OptFn {
	return func(o *options) { o.metrics = m }
}

// WithOnReload calls fn with the file of every handler module reloaded.
func WithOnReload(fn func(id string)) OptFn {
	return func(o *options) { o.onReload = fn }
}

// OptionsFromEnv configures a *Dispatcher from environment variables:
//
//	HOT_RELOAD      enables WithHot, unless ENVIRONMENT does not allow it
//	WEB_ROOT        WithWebRoot, default "/"
//	WEBSOCKET_ROOT  WithWebSocketRoot, default "/"
func OptionsFromEnv() []OptFn {
	env := trailhead.EnvVarOrEnv("ENVIRONMENT", trailhead.Development)
	return []OptFn{
		WithHot(env.HotReloadAllowed() && trailhead.EnvVarOrBool("HOT_RELOAD", false)),
		WithWebRoot(trailhead.EnvVarOrString("WEB_ROOT", "/")),
		WithWebSocketRoot(trailhead.EnvVarOrString("WEBSOCKET_ROOT", "/")),
	}
}

func defaultOptions() options {
	l := logger.New(logger.WithComponent("dispatch"))
	return options{
		webRoot:       "/",
		webSocketRoot: "/",
		logger:        l,
		middleware:    middleware.DefaultSet(trailhead.EnvVarOrEnv("ENVIRONMENT", trailhead.Development), l),
		upgrader:      socket.NewUpgrader(),
	}
}
