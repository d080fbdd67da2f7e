package ranger

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/logger"
	"github.com/xy-planning-network/trailhead/module"
	"github.com/xy-planning-network/trailhead/module/hclmodule"
)

const (
	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar = "LOG_LEVEL"

	// Handler module defaults
	DefaultRoutesDir = "routes"
	routesDirEnvVar  = "ROUTES_DIR"

	// Middleware defaults
	corsOriginsEnvVar = "CORS_ORIGINS"
	redisURLEnvVar    = "REDIS_URL"

	// Metrics defaults
	metricsEnvVar = "METRICS"
	metricsPath   = "/metrics"

	// Route index defaults
	routeIndexEnvVar = "ROUTE_INDEX"
	routeIndexPath   = "/_routes"

	// Web server defaults
	DefaultHost               = "localhost"
	hostEnvVar                = "HOST"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second
)

func defaultOpts() []RangerOption {
	return []RangerOption{
		WithEnv(environmentEnvVar),
		func(rng *Ranger) (OptFollowup, error) {
			rng.l = defaultLogger(rng.env)
			return nil, nil
		},
		WithLoader(defaultLoader()),
		WithRoutesDir(trailhead.EnvVarOrString(routesDirEnvVar, DefaultRoutesDir)),
		WithServer(defaultServer()),
		WithMetrics(trailhead.EnvVarOrBool(metricsEnvVar, true)),
		func(rng *Ranger) (OptFollowup, error) {
			return WithRouteIndex(trailhead.EnvVarOrBool(routeIndexEnvVar, !rng.env.IsProduction()))(rng)
		},
		WithRegistry(defaultRegistry()),
		defaultMiddleware,
	}
}

// defaultLogger constructs a logger.Logger at the level LOG_LEVEL names.
func defaultLogger(env trailhead.Environment) logger.Logger {
	return logger.New(
		logger.WithEnv(env.String()),
		logger.WithLevel(trailhead.EnvVarOrLogLevel(logLevelEnvVar, logger.LogLevelInfo)),
	)
}

// defaultLoader loads .hcl handler modules.
func defaultLoader() module.Loader {
	return module.ByExt{hclmodule.Ext: hclmodule.NewLoader()}
}

// defaultMiddleware constructs a followup option that, when called,
// sets the middleware.DefaultSet unless another option set middleware.
//
// defaultMiddleware relies on two env vars:
//   - CORS_ORIGINS: comma separated origins; adds the "cors" middleware
//   - REDIS_URL: stores idempotent responses in Redis instead of memory
func defaultMiddleware(rng *Ranger) (OptFollowup, error) {
	return func() error {
		if rng.mws != nil {
			return nil
		}

		set := middleware.DefaultSet(rng.env, rng.l)
		if origins := os.Getenv(corsOriginsEnvVar); origins != "" {
			set = set.With("cors", middleware.CORS(strings.Split(origins, ",")...))
		}

		if u := os.Getenv(redisURLEnvVar); u != "" {
			opts, err := redis.ParseURL(u)
			if err != nil {
				return fmt.Errorf("%w: %s: %s", trailhead.ErrNotValid, redisURLEnvVar, err)
			}

			set = set.With("idempotent", middleware.Idempotent(middleware.NewRedisCache(opts)))
		}

		rng.mws = set
		return nil
	}, nil
}

// defaultRegistry constructs a *prometheus.Registry collecting Go runtime and process metrics.
func defaultRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// defaultServer constructs a default [*http.Server].
func defaultServer() *http.Server {
	port := trailhead.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	return &http.Server{
		Addr:         os.Getenv(hostEnvVar) + port,
		IdleTimeout:  trailhead.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  trailhead.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: trailhead.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
}

func baseContext(ctx context.Context) func(net.Listener) context.Context {
	return func(_ net.Listener) context.Context { return ctx }
}
