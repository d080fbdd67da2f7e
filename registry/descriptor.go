package registry

import (
	"regexp"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/module"
)

// A Descriptor describes one handler module as the router needs it.
type Descriptor struct {
	// ID is the cleaned absolute path to the module's file.
	ID string

	CatchAll         bool
	Include          bool
	MethodNotAllowed bool
	NotFound         bool
	ServerError      bool
	WebSocket        bool

	Path       string
	Pattern    *regexp.Regexp
	Middleware []string
	Adapters   []middleware.Adapter

	// Capabilities lists the HTTP methods a page serves
	// or the events a WebSocket endpoint listens for.
	Capabilities []string

	snap atomic.Pointer[snapshot]
}

type snapshot struct {
	mod     module.Module
	modTime time.Time
}

// Module returns the module currently backing the Descriptor.
func (d *Descriptor) Module() module.Module { return d.snap.Load().mod }

// LastModified returns the modification time of the file the current module was loaded from.
func (d *Descriptor) LastModified() time.Time { return d.snap.Load().modTime }

// Bound reports whether the Descriptor is mounted at a path.
func (d *Descriptor) Bound() bool { return d.Path != "" || d.Pattern != nil }

// Can reports whether op is one of the Descriptor's Capabilities.
func (d *Descriptor) Can(op string) bool { return slices.Contains(d.Capabilities, op) }

// Label names the Descriptor's path for messages.
func (d *Descriptor) Label() string {
	if d.Pattern != nil {
		return d.Pattern.String()
	}

	return d.Path
}

// Role names the part the Descriptor plays in routing.
// Fallback roles are checked in the order Build claims them.
func (d *Descriptor) Role() string {
	switch {
	case d.Include:
		return RoleInclude
	case d.WebSocket:
		return RoleSocket
	case d.NotFound:
		return RoleNotFound
	case d.MethodNotAllowed:
		return RoleMethodNotAllowed
	case d.ServerError:
		return RoleServerError
	case d.CatchAll:
		return RoleCatchAll
	default:
		return RolePage
	}
}

func (d *Descriptor) swap(m module.Module, modTime time.Time) {
	d.snap.Store(&snapshot{mod: m, modTime: modTime})
}

// Normalize turns each Loaded module into a *Descriptor,
// probing which operations the module implements.
func Normalize(loaded ...Loaded) []*Descriptor {
	descs := make([]*Descriptor, 0, len(loaded))
	for _, l := range loaded {
		rt := l.Route
		d := &Descriptor{
			ID:               l.ID,
			CatchAll:         rt.CatchAll,
			Include:          rt.Include,
			MethodNotAllowed: rt.MethodNotAllowed,
			NotFound:         rt.NotFound,
			ServerError:      rt.ServerError,
			WebSocket:        rt.WebSocket,
			Path:             rt.Path,
			Pattern:          rt.Pattern,
			Middleware:       slices.Clone(rt.Middleware),
			Adapters:         slices.Clone(rt.Adapters),
			Capabilities:     capabilities(l.Module, rt),
		}

		d.swap(l.Module, l.ModTime)
		descs = append(descs, d)
	}

	return descs
}

func capabilities(m module.Module, rt module.Route) []string {
	if rt.Include {
		return nil
	}

	candidates := module.HTTPMethods
	if rt.WebSocket {
		candidates = module.SocketEvents
	}

	var declared []string
	if c, ok := m.(module.Capable); ok {
		declared = c.Capabilities()
		if declared == nil {
			declared = []string{}
		}
	}

	var caps []string
	for _, name := range candidates {
		if declared != nil && !slices.ContainsFunc(declared, func(s string) bool { return strings.EqualFold(s, name) }) {
			continue
		}

		if implements(m, name, rt.WebSocket) {
			caps = append(caps, name)
		}
	}

	return caps
}

func implements(m module.Module, name string, socket bool) bool {
	if socket {
		_, ok := module.SocketListener(m, name)
		return ok
	}

	_, ok := module.HTTPOperation(m, name)
	return ok
}
