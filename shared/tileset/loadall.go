package tileset

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Discover returns the sorted slash paths of every .tsx file below dir.
func Discover(fsys fs.FS, dir string) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path.Ext(p) == ".tsx" {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadAll discovers all .tsx files in dir within fsys, loads them
// concurrently with the given options, and returns a map keyed by path plus
// the sorted list of paths. The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, fsys fs.FS, dir string, opts Options) (map[string]*Tileset, []string, error) {
	paths, err := Discover(fsys, dir)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no .tsx files found in %s", dir)
	}

	loaded, err := LoadPaths(ctx, fsys, paths, opts)
	if err != nil {
		return nil, nil, err
	}
	return loaded, paths, nil
}

// LoadPaths loads the given documents concurrently. Files share no state, so
// the only coordination is the error group.
func LoadPaths(ctx context.Context, fsys fs.FS, paths []string, opts Options) (map[string]*Tileset, error) {
	results := make([]*Tileset, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ts, err := LoadWith(fsys, p, opts)
			if err != nil {
				return fmt.Errorf("load %s: %w", p, err)
			}
			results[i] = ts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*Tileset, len(paths))
	for i, p := range paths {
		out[p] = results[i]
	}
	opts.logger().Debug("loaded tilesets", zap.Int("count", len(out)))
	return out, nil
}

// Loaded is the outcome of parsing one document with LoadEach.
type Loaded struct {
	Path    string
	Tileset *Tileset
	Err     error
}

// LoadEach parses the given documents concurrently without validating them.
// A broken file does not stop the others; only ctx does. Results follow the
// order of paths.
func LoadEach(ctx context.Context, fsys fs.FS, paths []string, workers int) ([]Loaded, error) {
	results := make([]Loaded, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ts, err := Load(fsys, p)
			results[i] = Loaded{Path: p, Tileset: ts, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
