package hclmodule

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/module"
)

const Ext = ".hcl"

var _ module.Loader = Loader{}

// A Loader parses .hcl files into a *Module.
// Any other file is skipped with module.ErrSkip.
type Loader struct{}

// NewLoader constructs a Loader.
func NewLoader() Loader { return Loader{} }

// Load parses and decodes the file at path.
//
// A file missing its route block still loads;
// the returned *Module's Route reports module.ErrNoRoute.
func (Loader) Load(ctx context.Context, path string) (module.Module, error) {
	if !strings.EqualFold(filepath.Ext(path), Ext) {
		return nil, module.ErrSkip
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// NOTE: a Parser caches files by name, so reloads need a fresh one
	f, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse %s: %s", trailhead.ErrNotValid, path, diags.Error())
	}

	var decoded file
	if diags := gohcl.DecodeBody(f.Body, nil, &decoded); diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode %s: %s", trailhead.ErrNotValid, path, diags.Error())
	}

	return newModule(path, &decoded)
}

func newModule(path string, f *file) (*Module, error) {
	m := &Module{
		name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		path:    path,
		methods: f.methods(),
		events:  make(map[string]*onBlock, len(f.On)),
	}

	for _, on := range f.On {
		if !slices.Contains(module.SocketEvents, on.Event) {
			return nil, fmt.Errorf("%w: %s: unknown event %q", trailhead.ErrNotValid, path, on.Event)
		}

		if _, ok := m.events[on.Event]; ok {
			return nil, fmt.Errorf("%w: %s: duplicate event %q", trailhead.ErrNotValid, path, on.Event)
		}

		m.events[on.Event] = on
	}

	for _, name := range module.HTTPMethods {
		if _, ok := m.methods[name]; ok {
			m.caps = append(m.caps, name)
		}
	}

	for _, name := range module.SocketEvents {
		if _, ok := m.events[name]; ok {
			m.caps = append(m.caps, name)
		}
	}

	if f.Route == nil {
		m.routeErr = fmt.Errorf("%w for %s", module.ErrNoRoute, m.name)
		return m, nil
	}

	rt := f.Route
	m.route = module.Route{
		CatchAll:         boolOr(rt.CatchAll, false),
		Include:          boolOr(rt.Include, false),
		MethodNotAllowed: boolOr(rt.MethodNotAllowed, false),
		Middleware:       rt.Middleware,
		NotFound:         boolOr(rt.NotFound, false),
		ServerError:      boolOr(rt.ServerError, false),
		WebSocket:        boolOr(rt.WebSocket, false),
	}

	if rt.Path != nil {
		m.route.Path = *rt.Path
	}

	if rt.Pattern != nil {
		re, err := regexp.Compile(*rt.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: pattern: %s", trailhead.ErrNotValid, path, err)
		}

		m.route.Pattern = re
	}

	return m, nil
}
