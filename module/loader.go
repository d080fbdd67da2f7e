package module

import (
	"context"
	"path/filepath"
	"strings"
)

//go:generate mockgen -destination=./mock_module/mock_module.go -package=mock_module github.com/xy-planning-network/trailhead/module Loader

// A Loader produces the Module backed by the file at path.
// Loaders return ErrSkip for files that are not handler modules.
//
// Load is called again for the same path whenever the file changes,
// so a Loader must not cache by path.
type Loader interface {
	Load(ctx context.Context, path string) (Module, error)
}

// A LoaderFunc is a function usable as a Loader.
type LoaderFunc func(ctx context.Context, path string) (Module, error)

func (fn LoaderFunc) Load(ctx context.Context, path string) (Module, error) { return fn(ctx, path) }

// Static maps base file names to Module constructors compiled into the binary.
// The files only need to exist; their contents are never read.
type Static map[string]func() Module

func (s Static) Load(ctx context.Context, path string) (Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fn, ok := s[filepath.Base(path)]
	if !ok || fn == nil {
		return nil, ErrSkip
	}

	return fn(), nil
}

// ByExt picks the Loader to use by file extension, e.g. ".hcl".
type ByExt map[string]Loader

func (b ByExt) Load(ctx context.Context, path string) (Module, error) {
	l, ok := b[strings.ToLower(filepath.Ext(path))]
	if !ok || l == nil {
		return nil, ErrSkip
	}

	return l.Load(ctx, path)
}
