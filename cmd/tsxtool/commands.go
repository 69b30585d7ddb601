package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/automoto/chrono-tiles/config"
	"github.com/automoto/chrono-tiles/cook"
	"github.com/automoto/chrono-tiles/shared/logging"
	"github.com/automoto/chrono-tiles/shared/tileset"
	"go.uber.org/zap"
)

func newFlagSet(name string) *flag.FlagSet {
	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	return fset
}

// fsPath turns a command-line path into a slash path inside root.
func fsPath(root, target string) (string, error) {
	if filepath.IsAbs(target) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return "", err
		}
		rel, err := filepath.Rel(absRoot, target)
		if err != nil {
			return "", err
		}
		target = rel
	}
	p := filepath.ToSlash(filepath.Clean(target))
	if !fs.ValidPath(p) {
		return "", fmt.Errorf("%s is outside %s", target, root)
	}
	return p, nil
}

func runInspect(args []string, stdout io.Writer) error {
	fset := newFlagSet("inspect")
	root := fset.String("root", ".", "Directory tileset paths are relative to")
	tileID := fset.Int("tile", -1, "Print one tile instead of the summary")
	encode := fset.Bool("encode", false, "Write the normalized TSX document")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() != 1 {
		return errors.New("expected exactly one .tsx file")
	}

	p, err := fsPath(*root, fset.Arg(0))
	if err != nil {
		return err
	}
	ts, err := tileset.Load(os.DirFS(*root), p)
	if err != nil {
		return err
	}

	switch {
	case *encode:
		return tileset.Encode(stdout, ts)
	case *tileID >= 0:
		return printTile(stdout, ts, uint32(*tileID))
	}
	printSummary(stdout, ts)
	return nil
}

func printSummary(w io.Writer, ts *tileset.Tileset) {
	objects, ellipses := 0, 0
	for i := range ts.Tiles {
		for _, o := range ts.Tiles[i].Objects() {
			objects++
			if o.Shape == tileset.ShapeEllipse {
				ellipses++
			}
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "name:\t%s\n", ts.Name)
	fmt.Fprintf(tw, "mode:\t%s\n", ts.Mode())
	fmt.Fprintf(tw, "tile size:\t%dx%d\n", ts.TileWidth, ts.TileHeight)
	fmt.Fprintf(tw, "tiles:\t%d declared, %d with metadata\n", ts.TileCount, len(ts.Tiles))
	if ts.Mode() == tileset.ModeAtlas && ts.Image != nil {
		cols, rows := tileset.AtlasGrid(ts)
		fmt.Fprintf(tw, "image:\t%s %dx%d\n", ts.Image.Source, ts.Image.Width, ts.Image.Height)
		fmt.Fprintf(tw, "grid:\t%d columns x %d rows, margin %d, spacing %d\n", cols, rows, ts.Margin, ts.Spacing)
	} else if ts.Grid != nil {
		fmt.Fprintf(tw, "grid:\t%s %dx%d\n", ts.Grid.Orientation, ts.Grid.Width, ts.Grid.Height)
	}
	fmt.Fprintf(tw, "objects:\t%d (%d ellipses)\n", objects, ellipses)
	fmt.Fprintf(tw, "animated:\t%d\n", len(ts.AnimatedTiles()))
	fmt.Fprintf(tw, "images:\t%d\n", len(ts.Images()))
	tw.Flush()
}

func printTile(w io.Writer, ts *tileset.Tileset, id uint32) error {
	if !ts.HasTile(id) {
		return fmt.Errorf("%s has no tile %d", ts.Path, id)
	}
	fmt.Fprintf(w, "tile %d\n", id)
	if r, ok := ts.TileRect(id); ok {
		fmt.Fprintf(w, "  rect: %d,%d %dx%d\n", r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	}

	tile, ok := ts.Tile(id)
	if !ok {
		return nil
	}
	if tile.Image != nil {
		fmt.Fprintf(w, "  image: %s %dx%d\n", tile.Image.Source, tile.Image.Width, tile.Image.Height)
	}
	for _, o := range tile.Objects() {
		fmt.Fprintf(w, "  object %d %s %q type=%q at %g,%g size %gx%g",
			o.ID, o.Shape, o.Name, o.Type, o.X, o.Y, o.Width, o.Height)
		if o.Rotation != 0 {
			fmt.Fprintf(w, " rotation %g", o.Rotation)
		}
		fmt.Fprintln(w)
	}
	for _, f := range tile.Animation {
		fmt.Fprintf(w, "  frame %d %s\n", f.TileID, f.Duration)
	}
	return nil
}

func runValidate(ctx context.Context, args []string, stdout io.Writer) error {
	fset := newFlagSet("validate")
	root := fset.String("root", ".", "Directory tileset paths are relative to")
	lenient := fset.Bool("lenient", false, "Degrade recoverable issues instead of failing")
	assets := fset.Bool("assets", false, "Check that referenced images exist and match their sizes")
	workers := fset.Int("workers", 4, "Files parsed in parallel, 0 means unbounded")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() == 0 {
		return errors.New("expected at least one directory or .tsx file")
	}

	policy := tileset.PolicyStrict
	if *lenient {
		policy = tileset.PolicyLenient
	}

	fsys := os.DirFS(*root)
	var paths []string
	for _, target := range fset.Args() {
		p, err := fsPath(*root, target)
		if err != nil {
			return err
		}
		info, err := fs.Stat(fsys, p)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			paths = append(paths, p)
			continue
		}
		found, err := tileset.Discover(fsys, p)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return errors.New("no .tsx files found")
	}

	loaded, err := tileset.LoadEach(ctx, fsys, paths, *workers)
	if err != nil {
		return err
	}
	failed := 0
	for _, l := range loaded {
		if !validateOne(stdout, fsys, l, policy, *assets) {
			failed++
		}
	}
	fmt.Fprintf(stdout, "%d tilesets checked, %d failed (%s)\n", len(paths), failed, policy)
	if failed > 0 {
		return fmt.Errorf("%d of %d tilesets failed", failed, len(paths))
	}
	return nil
}

func validateOne(w io.Writer, fsys fs.FS, l tileset.Loaded, policy tileset.Policy, assets bool) bool {
	p, ts := l.Path, l.Tileset
	if l.Err != nil {
		fmt.Fprintf(w, "FAIL %s: %v\n", p, l.Err)
		return false
	}

	issues := tileset.Validate(ts)
	for _, issue := range issues {
		fmt.Fprintf(w, "  %s: %s\n", p, issue)
	}
	ok := true
	degraded, _, err := tileset.Apply(ts, policy)
	if err != nil {
		fmt.Fprintf(w, "FAIL %s: %v\n", p, err)
		ok = false
		degraded = ts
	}
	if assets {
		for _, aerr := range tileset.CheckAssets(fsys, degraded) {
			fmt.Fprintf(w, "  %v\n", aerr)
			ok = false
		}
		if !ok && err == nil {
			fmt.Fprintf(w, "FAIL %s: missing or mismatched assets\n", p)
		}
	}
	if ok {
		fmt.Fprintf(w, "ok   %s (%d issues)\n", p, len(issues))
	}
	return ok
}

func runCook(ctx context.Context, args []string, stdout io.Writer) error {
	fset := newFlagSet("cook")
	cfgPath := fset.String("config", "", "Pipeline YAML file (default $"+config.EnvConfig+")")
	force := fset.Bool("force", false, "Cook every tileset even when unchanged")
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var store cook.Store = &cook.MemoryStore{}
	if cfg.Manifest.AppName != "" {
		store, err = cook.OpenGdataStore(cfg.Manifest.AppName)
		if err != nil {
			return err
		}
	}

	c := &cook.Cooker{
		Src:         os.DirFS(cfg.Cooker.ImportPath),
		Out:         cfg.Cooker.ExportPath,
		Store:       store,
		Policy:      cfg.TilesetPolicy(),
		CheckAssets: cfg.CheckAssets,
		Force:       cfg.Cooker.Force || *force,
		Workers:     cfg.Workers,
		Log:         log,
	}
	jobs := cook.Jobs(cfg.Cooker.Objectsheets, cfg.Cooker.Tilesets)
	log.Debug("cooking",
		zap.Int("jobs", len(jobs)),
		zap.String("import", cfg.Cooker.ImportPath),
		zap.String("export", cfg.Cooker.ExportPath))

	results, err := c.Cook(ctx, jobs)
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Skipped {
			fmt.Fprintf(stdout, "Skipped cooking: %s\n", res.Path)
			continue
		}
		fmt.Fprintf(stdout, "Cooked %s %s -> %s\n", res.Kind, res.Path, res.Output)
	}
	return nil
}
