package ranger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/dispatch"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/logger"
	"github.com/xy-planning-network/trailhead/module"
)

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithRoutesDir is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// WithIdempotencyCache is an example of the second.
// The middleware it replaces is only available once every other option has run.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithContext exposes the provided context.Context to the handler modules,
// canceling which stops Guide.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.ctx = ctx
		rng.debug(fmt.Sprintf("using context %T", ctx))

		return nil, nil
	}
}

// WithDispatchOptions applies opts to the Dispatcher after those the Ranger configures.
func WithDispatchOptions(opts ...dispatch.OptFn) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.dopts = append(rng.dopts, opts...)
		return nil, nil
	}
}

// WithEnv casts the provided string into a valid Environment,
// or, reads from the environment variable it names a valid Environment.
//
// If both fail, the Environment is set to Development.
func WithEnv(envVar string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		e := trailhead.Environment(envVar)
		if err := e.Valid(); err != nil {
			e = trailhead.EnvVarOrEnv(envVar, trailhead.Development)
		}

		rng.env = e
		rng.debug(fmt.Sprintf("using env %s", e))

		return nil, nil
	}
}

// WithIdempotencyCache constructs a followup option that, when called,
// stores the responses of the "idempotent" middleware in cache.
func WithIdempotencyCache(cache middleware.IdempotencyCacher) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if cache == nil {
			return nil, fmt.Errorf("%w: nil idempotency cache", trailhead.ErrNotValid)
		}

		return func() error {
			rng.mws = rng.mws.With("idempotent", middleware.Idempotent(cache))
			rng.debug(fmt.Sprintf("using idempotency cache %T", cache))

			return nil
		}, nil
	}
}

// WithLoader sets the module.Loader handler modules are loaded with.
func WithLoader(loader module.Loader) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if loader == nil {
			return nil, fmt.Errorf("%w: nil loader", trailhead.ErrNotValid)
		}

		rng.loader = loader
		rng.debug(fmt.Sprintf("using loader %T", loader))

		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the trailhead app.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if l == nil {
			return nil, fmt.Errorf("%w: nil logger", trailhead.ErrNotValid)
		}

		rng.l = l
		rng.debug(fmt.Sprintf("using logger %T", l))

		return nil, nil
	}
}

// WithMetrics toggles recording metrics and serving them at /metrics.
func WithMetrics(enabled bool) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.withProm = enabled
		return nil, nil
	}
}

// WithMiddleware sets the middleware.Set handler modules name their middleware from.
func WithMiddleware(set middleware.Set) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.mws = set
		rng.debug(fmt.Sprintf("using middleware %v", set.Names()))

		return nil, nil
	}
}

// WithRouteIndex toggles serving the handler modules as JSON at /_routes.
func WithRouteIndex(enabled bool) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.withIndex = enabled
		return nil, nil
	}
}

// WithRegistry records metrics to reg.
func WithRegistry(reg *prometheus.Registry) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if reg == nil {
			return nil, fmt.Errorf("%w: nil registry", trailhead.ErrNotValid)
		}

		rng.promReg = reg
		return nil, nil
	}
}

// WithRoutesDir sets the directory handler modules are discovered in.
func WithRoutesDir(dir string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.dir = dir
		rng.debug(fmt.Sprintf("using routes in %s", dir))

		return nil, nil
	}
}

// WithServer exposes the *http.Server to the trailhead app.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if s == nil {
			return nil, fmt.Errorf("%w: nil server", trailhead.ErrNotValid)
		}

		rng.srv = s
		rng.debug(fmt.Sprintf("using server at %s", s.Addr))

		return nil, nil
	}
}

func (r *Ranger) debug(msg string) {
	if r.l != nil {
		r.l.Debug(msg, nil)
	}
}
