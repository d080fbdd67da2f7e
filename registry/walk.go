package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/xy-planning-network/trailhead/module"
)

// Loaded is a module freshly loaded from its file.
type Loaded struct {
	ID      string
	Module  module.Module
	Route   module.Route
	ModTime time.Time
}

// Walk loads every file under root with loader, in lexical order.
// Symlinked files are loaded through their link.
//
// Files the loader skips with module.ErrSkip are ignored.
// Any other failure, including a module failing to declare its Route, aborts the walk.
func Walk(ctx context.Context, root string, loader module.Loader) ([]Loaded, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var loaded []Loaded
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		if d.Type()&fs.ModeSymlink != 0 {
			// NOTE: symlinked directories are not descended into
			if info, err = os.Stat(path); err != nil {
				return err
			}
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		m, err := loader.Load(ctx, path)
		if errors.Is(err, module.ErrSkip) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed loading %s: %w", path, err)
		}

		rt, err := m.Route()
		if err != nil {
			return fmt.Errorf("failed reading route of %T in %s: %w", m, path, err)
		}

		loaded = append(loaded, Loaded{
			ID:      filepath.Clean(path),
			Module:  m,
			Route:   rt,
			ModTime: info.ModTime(),
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	return loaded, nil
}
