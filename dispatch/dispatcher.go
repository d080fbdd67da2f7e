package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/http/router"
	"github.com/xy-planning-network/trailhead/logger"
	"github.com/xy-planning-network/trailhead/module"
	"github.com/xy-planning-network/trailhead/registry"
)

// A Dispatcher builds routers from a directory of handler modules
// and handles whatever errors they leave unhandled.
type Dispatcher struct {
	loader module.Loader
	opts   options

	current atomic.Pointer[table]

	lmu       sync.RWMutex
	listeners []Listener
}

// Routers are the routers built from one directory of handler modules.
type Routers struct {
	Web      *router.Router
	Socket   *router.Router
	Registry *registry.Registry
}

// New constructs a *Dispatcher loading handler modules with loader.
func New(loader module.Loader, opts ...OptFn) *Dispatcher {
	d := &Dispatcher{loader: loader, opts: defaultOptions()}
	for _, opt := range opts {
		opt(&d.opts)
	}

	return d
}

// Routers discovers the handler modules under dir and builds the web and socket routers for them.
//
// opts apply on top of those the Dispatcher was constructed with, for these Routers only.
// The most recently built Routers are the ones Error falls back on.
func (d *Dispatcher) Routers(ctx context.Context, dir string, opts ...OptFn) (Routers, error) {
	o := d.opts
	for _, opt := range opts {
		opt(&o)
	}

	loaded, err := registry.Walk(ctx, dir, d.loader)
	if err != nil {
		return Routers{}, fmt.Errorf("failed discovering handler modules in %s: %w", dir, err)
	}

	t := &table{
		d:    d,
		opts: o,
		reg:  registry.Build(o.logger, registry.Normalize(loaded...)...),
		cache: registry.NewCache(
			d.loader,
			registry.WithMetrics(o.metrics),
			registry.WithOnReload(o.onReload),
		),
	}

	web, err := t.webRouter()
	if err != nil {
		return Routers{}, err
	}

	sock, err := t.socketRouter()
	if err != nil {
		return Routers{}, err
	}

	d.current.Store(t)
	o.logger.Info(fmt.Sprintf("routes set from %s", dir), &logger.LogContext{
		Data: map[string]any{
			"pages":   len(t.reg.Pages()),
			"sockets": len(t.reg.Sockets()),
			"hot":     o.hot,
		},
	})

	return Routers{Web: web, Socket: sock, Registry: t.reg}, nil
}

// SetRoutes builds the Routers for dir and mounts them on app.
//
// The web router is mounted at the web root.
// If app is a SocketApp, the socket router is mounted at the WebSocket root.
func (d *Dispatcher) SetRoutes(ctx context.Context, dir string, app App, opts ...OptFn) (Routers, error) {
	if app == nil {
		return Routers{}, trailhead.ErrNoApp
	}

	rts, err := d.Routers(ctx, dir, opts...)
	if err != nil {
		return Routers{}, err
	}

	t := d.current.Load()
	if sa, ok := app.(SocketApp); ok {
		sa.HandleSocket(t.opts.webSocketRoot, rts.Socket)
	}

	app.Handle(t.opts.webRoot, rts.Web)
	return rts, nil
}

// Error responds to a request whose handling failed with err.
//
// An error wrapping an exposable *trailhead.StatusError
// responds with its status and message.
// Any other error is reported to listeners and handled by the server error module,
// which is passed next, or with the default 500 response.
// Nothing is written if the response has already started.
func (d *Dispatcher) Error(err error, w http.ResponseWriter, r *http.Request, next module.Next) {
	d.table().bridge(err, w, r, next)
}

func (d *Dispatcher) table() *table {
	if t := d.current.Load(); t != nil {
		return t
	}

	return &table{d: d, opts: d.opts, reg: registry.Build(d.opts.logger)}
}

// A table is the set of handler modules one call to Routers built.
type table struct {
	d     *Dispatcher
	opts  options
	reg   *registry.Registry
	cache *registry.Cache
}

func (t *table) middleware(desc *registry.Descriptor) ([]middleware.Adapter, error) {
	adpts, err := t.opts.middleware.Resolve(desc.Middleware...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", trailhead.ErrBadConfig, desc.ID, err)
	}

	return append(adpts, desc.Adapters...), nil
}

// refresh reloads every include and desc when hot reloading is enabled.
func (t *table) refresh(ctx context.Context, desc *registry.Descriptor) error {
	if !t.opts.hot || t.cache == nil {
		return nil
	}

	for _, inc := range t.reg.Includes() {
		if err := t.cache.Refresh(ctx, inc); err != nil {
			return err
		}
	}

	return t.cache.Refresh(ctx, desc)
}

func (t *table) notify(ev Event, transport string) {
	t.opts.logger.Error(ev.Message, &logger.LogContext{Error: ev.Err, Request: ev.Request})
	t.opts.metrics.Unhandled(transport)
	t.d.emit(ev)
}
