package ranger

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// TODO(dlk): configurable env files
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/dispatch"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/logger"
	"github.com/xy-planning-network/trailhead/metrics"
	"github.com/xy-planning-network/trailhead/module"
)

// A Ranger serves a directory of handler modules.
type Ranger struct {
	*dispatch.Dispatcher

	app       *dispatch.AppMux
	ctx       context.Context
	dir       string
	dopts     []dispatch.OptFn
	env       trailhead.Environment
	l         logger.Logger
	loader    module.Loader
	metrics   *metrics.Metrics
	mws       middleware.Set
	promReg   *prometheus.Registry
	routes    dispatch.Routers
	srv       *http.Server
	withIndex bool
	withProm  bool
}

// New constructs a Ranger from the provided options.
// Default options are applied first followed by the options passed into New.
// Options supplied to New overwrite default configurations.
func New(opts ...RangerOption) (*Ranger, error) {
	r := new(Ranger)
	followups := make([]OptFollowup, 0)

	// NOTE(dlk): some options require data from others.
	// These return an OptFollowup called after every option has run.
	for _, opt := range append(defaultOpts(), opts...) {
		fn, err := opt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", trailhead.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", trailhead.ErrBadConfig, err)
		}
	}

	if err := r.mount(); err != nil {
		return nil, fmt.Errorf("%w: %s", trailhead.ErrBadConfig, err)
	}

	return r, nil
}

// mount builds the Dispatcher and sets the routes of the handler modules on the app.
func (r *Ranger) mount() error {
	if r.withProm {
		m, err := metrics.New(r.promReg)
		if err != nil {
			return err
		}

		r.metrics = m
	}

	dopts := append([]dispatch.OptFn{
		dispatch.WithLogger(r.l),
		dispatch.WithMiddleware(r.mws),
		dispatch.WithMetrics(r.metrics),
	}, dispatch.OptionsFromEnv()...)

	r.Dispatcher = dispatch.New(r.loader, append(dopts, r.dopts...)...)
	r.app = dispatch.NewApp()
	r.app.Use(
		middleware.ReportPanic(r.env),
		middleware.RequestID(trailhead.RequestIDKey),
		middleware.LogRequest(r.l),
	)
	r.app.UseError(r.Error)

	if r.withProm {
		r.app.HandleFunc(metricsPath, metricsHandler(r.promReg).ServeHTTP)
	}

	if r.withIndex {
		r.app.HandleFunc(routeIndexPath, r.routeIndex())
	}

	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	} else {
		r.srv.BaseContext = baseContext(ctx)
	}

	rts, err := r.SetRoutes(ctx, r.dir, r.app)
	if err != nil {
		return err
	}

	r.routes = rts
	r.srv.Handler = r.app
	return nil
}

// Env is the Environment the Ranger runs in.
func (r *Ranger) Env() trailhead.Environment { return r.env }

// Logger is the logger.Logger the Ranger and its Dispatcher log to.
func (r *Ranger) Logger() logger.Logger { return r.l }

// Routes are the routers built from the handler modules.
func (r *Ranger) Routes() dispatch.Routers { return r.routes }

// ServeHTTP serves requests as the web server would.
func (r *Ranger) ServeHTTP(w http.ResponseWriter, req *http.Request) { r.app.ServeHTTP(w, req) }

// Guide begins the web server.
//
// These, and (*Ranger).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (r *Ranger) Guide() error {
	parent := r.ctx
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := signal.NotifyContext(
		parent,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer cancel()

	errs := make(chan error, 1)
	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		if err := r.srv.ListenAndServe(); err != http.ErrServerClosed {
			errs <- fmt.Errorf("could not listen: %w", err)
		}
	}()

	select {
	case err := <-errs:
		r.l.Error(err.Error(), nil)
		return err
	case <-ctx.Done():
		r.l.Info("received shutdown signal", nil)
	}

	return r.Shutdown()
}

// Shutdown shutdowns the web server.
func (r *Ranger) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	err := r.srv.Shutdown(shutdownCtx)
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	r.l.Info("web server shutdown successfully", nil)
	return nil
}
