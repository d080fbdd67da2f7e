package registry

import "github.com/xy-planning-network/trailhead/logger"

// Roles a Descriptor plays, as reported by [*Descriptor.Role].
const (
	RoleCatchAll         = "catch_all"
	RoleInclude          = "include"
	RoleMethodNotAllowed = "method_not_allowed"
	RoleNotFound         = "not_found"
	RolePage             = "page"
	RoleServerError      = "server_error"
	RoleSocket           = "socket"
)

// A Registry indexes Descriptors by ID and by role.
// A Registry is read-only once built.
type Registry struct {
	byID     map[string]*Descriptor
	ordered  []*Descriptor
	includes []*Descriptor
	pages    []*Descriptor
	sockets  []*Descriptor

	catchAll         *Descriptor
	methodNotAllowed *Descriptor
	notFound         *Descriptor
	serverError      *Descriptor
}

// Build indexes descs.
//
// A Descriptor plays at most one fallback role, checked in the order
// not found, method not allowed, server error, catch all.
// When two Descriptors claim the same role the last one wins,
// and Build logs a warning naming both files.
func Build(l logger.Logger, descs ...*Descriptor) *Registry {
	reg := &Registry{byID: make(map[string]*Descriptor, len(descs))}
	for _, d := range descs {
		if prev, ok := reg.byID[d.ID]; ok {
			reg.remove(prev)
		}

		reg.byID[d.ID] = d
		reg.ordered = append(reg.ordered, d)

		switch {
		case d.Include:
			reg.includes = append(reg.includes, d)
		case d.WebSocket:
			if d.Bound() {
				reg.sockets = append(reg.sockets, d)
			}
		case d.Bound() && len(d.Capabilities) > 0:
			reg.pages = append(reg.pages, d)
		}

		if d.WebSocket {
			continue
		}

		switch {
		case d.NotFound:
			reg.claim(l, RoleNotFound, &reg.notFound, d)
		case d.MethodNotAllowed:
			reg.claim(l, RoleMethodNotAllowed, &reg.methodNotAllowed, d)
		case d.ServerError:
			reg.claim(l, RoleServerError, &reg.serverError, d)
		case d.CatchAll:
			reg.claim(l, RoleCatchAll, &reg.catchAll, d)
		}
	}

	return reg
}

func (reg *Registry) claim(l logger.Logger, role string, slot **Descriptor, d *Descriptor) {
	if *slot != nil && *slot != d && l != nil {
		l.Warn("more than one handler module claims the same role, using the last", &logger.LogContext{
			Data: map[string]any{
				"role":     role,
				"previous": (*slot).ID,
				"current":  d.ID,
			},
		})
	}

	*slot = d
}

func (reg *Registry) remove(d *Descriptor) {
	drop := func(ds []*Descriptor) []*Descriptor {
		out := ds[:0]
		for _, v := range ds {
			if v != d {
				out = append(out, v)
			}
		}

		return out
	}

	reg.ordered = drop(reg.ordered)
	reg.includes = drop(reg.includes)
	reg.pages = drop(reg.pages)
	reg.sockets = drop(reg.sockets)

	for _, slot := range []**Descriptor{&reg.catchAll, &reg.methodNotAllowed, &reg.notFound, &reg.serverError} {
		if *slot == d {
			*slot = nil
		}
	}
}

// Get looks up the Descriptor by ID.
func (reg *Registry) Get(id string) (*Descriptor, bool) {
	d, ok := reg.byID[id]
	return d, ok
}

// All lists every Descriptor in the order it was added.
func (reg *Registry) All() []*Descriptor { return reg.ordered }

// Len counts the Descriptors.
func (reg *Registry) Len() int { return len(reg.byID) }

// Includes lists the Descriptors other modules depend on.
func (reg *Registry) Includes() []*Descriptor { return reg.includes }

// Pages lists the routable request/response Descriptors.
func (reg *Registry) Pages() []*Descriptor { return reg.pages }

// Sockets lists the routable WebSocket Descriptors.
func (reg *Registry) Sockets() []*Descriptor { return reg.sockets }

func (reg *Registry) CatchAll() (*Descriptor, bool) { return reg.catchAll, reg.catchAll != nil }

func (reg *Registry) MethodNotAllowed() (*Descriptor, bool) {
	return reg.methodNotAllowed, reg.methodNotAllowed != nil
}

func (reg *Registry) NotFound() (*Descriptor, bool) { return reg.notFound, reg.notFound != nil }

func (reg *Registry) ServerError() (*Descriptor, bool) {
	return reg.serverError, reg.serverError != nil
}
