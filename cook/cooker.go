// Package cook exports Tiled tilesets to the JSON sheets the game runtime
// reads, skipping sources whose content did not change since the last run.
package cook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/automoto/chrono-tiles/shared/logging"
	"github.com/automoto/chrono-tiles/shared/tileset"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Output directories under the export root
const (
	ImageDir       = "images"
	SpritesheetDir = "spritesheets"
	TilesetDir     = "tilesets"
)

type Kind int

const (
	KindObjectsheet Kind = iota
	KindTileset
)

func (k Kind) String() string {
	if k == KindTileset {
		return "tileset"
	}
	return "objectsheet"
}

func (k Kind) dir() string {
	if k == KindTileset {
		return TilesetDir
	}
	return SpritesheetDir
}

// Job is one tileset to cook.
type Job struct {
	Path string // slash path inside the source FS
	Kind Kind
}

// Jobs lists objectsheets first, then tilesets, in the given order.
func Jobs(objectsheets, tilesets []string) []Job {
	jobs := make([]Job, 0, len(objectsheets)+len(tilesets))
	for _, p := range objectsheets {
		jobs = append(jobs, Job{Path: p, Kind: KindObjectsheet})
	}
	for _, p := range tilesets {
		jobs = append(jobs, Job{Path: p, Kind: KindTileset})
	}
	return jobs
}

type Result struct {
	Job
	Output  string // written data file, empty when skipped
	Hash    uint64
	Skipped bool
}

type Cooker struct {
	Src         fs.FS
	Out         string // export root on disk
	Store       Store
	Policy      tileset.Policy
	CheckAssets bool
	Force       bool // cook even when the manifest says unchanged
	Workers     int
	Log         *zap.Logger
}

func (c *Cooker) logger() *zap.Logger {
	return logging.Or(c.Log)
}

// Cook runs every job. Results follow the order of jobs. The manifest is
// only saved when all jobs succeed.
func (c *Cooker) Cook(ctx context.Context, jobs []Job) ([]Result, error) {
	if c.Store == nil {
		c.Store = &MemoryStore{}
	}
	if err := checkOutputs(jobs); err != nil {
		return nil, err
	}

	manifest, err := c.Store.Load()
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{ImageDir, SpritesheetDir, TilesetDir} {
		if err := os.MkdirAll(filepath.Join(c.Out, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create export dir: %w", err)
		}
	}

	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if c.Workers > 0 {
		g.SetLimit(c.Workers)
	}
	for i, job := range jobs {
		prev, seen := manifest.Entries[job.Path]

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.cookOne(job, prev, seen)
			if err != nil {
				return fmt.Errorf("cook %s: %w", job.Path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range results {
		manifest.Entries[res.Path] = res.Hash
	}
	if err := c.Store.Save(manifest); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Cooker) cookOne(job Job, prev uint64, seen bool) (Result, error) {
	log := c.logger().With(zap.String("file", job.Path), zap.Stringer("kind", job.Kind))

	ts, err := tileset.LoadWith(c.Src, job.Path, tileset.Options{Policy: c.Policy, Logger: c.Log})
	if err != nil {
		return Result{}, err
	}
	if c.CheckAssets {
		if errs := tileset.CheckAssets(c.Src, ts); len(errs) > 0 {
			joined := make([]error, len(errs))
			for i, e := range errs {
				joined[i] = e
			}
			return Result{}, errors.Join(joined...)
		}
	}

	hash, err := c.hash(job, ts)
	if err != nil {
		return Result{}, err
	}
	res := Result{Job: job, Hash: hash}
	name := baseName(job.Path)
	out := filepath.Join(c.Out, job.Kind.dir(), name+".json")
	if seen && prev == hash && !c.Force && exists(out) {
		log.Info("Skipped cooking")
		res.Skipped = true
		return res, nil
	}

	var sheet any
	switch job.Kind {
	case KindObjectsheet:
		imageDir := path.Join(ImageDir, name)
		objs, err := BuildObjectsheet(ts, path.Join("..", imageDir))
		if err != nil {
			return Result{}, err
		}
		for _, tile := range ts.Tiles {
			if err := c.copyImage(tile.Image.Path, path.Join(imageDir, path.Base(tile.Image.Source))); err != nil {
				return Result{}, err
			}
		}
		sheet = objs
	case KindTileset:
		if ts.Image == nil {
			return Result{}, fmt.Errorf("%s: tileset export needs an atlas tileset, got %s", ts.Path, ts.Mode())
		}
		image := path.Join(ImageDir, name+path.Ext(ts.Image.Source))
		atlas, err := BuildAtlas(ts, path.Join("..", image))
		if err != nil {
			return Result{}, err
		}
		if err := c.copyImage(ts.Image.Path, image); err != nil {
			return Result{}, err
		}
		sheet = atlas
	}

	res.Output = out
	if err := writeJSON(res.Output, sheet); err != nil {
		return Result{}, err
	}
	log.Info("cooked", zap.String("out", res.Output))
	return res, nil
}

// hash covers where the sheet goes, the document and every image it
// references.
func (c *Cooker) hash(job Job, ts *tileset.Tileset) (uint64, error) {
	d := xxhash.New()
	_, _ = d.WriteString(job.Kind.String())
	_, _ = d.WriteString(filepath.Clean(c.Out))

	data, err := fs.ReadFile(c.Src, ts.Path)
	if err != nil {
		return 0, fmt.Errorf("hash %s: %w", ts.Path, err)
	}
	_, _ = d.WriteString(ts.Path)
	_, _ = d.Write(data)

	for _, img := range ts.Images() {
		data, err := fs.ReadFile(c.Src, img.Path)
		if err != nil {
			return 0, fmt.Errorf("hash %s: %w", img.Path, err)
		}
		_, _ = d.WriteString(img.Path)
		_, _ = d.Write(data)
	}
	return d.Sum64(), nil
}

func (c *Cooker) copyImage(src, dst string) error {
	data, err := fs.ReadFile(c.Src, src)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	out := filepath.Join(c.Out, filepath.FromSlash(dst))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}

func exists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func writeJSON(p string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", p, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

// checkOutputs rejects jobs that would write the same data file.
func checkOutputs(jobs []Job) error {
	seen := make(map[string]string)
	for _, job := range jobs {
		out := path.Join(job.Kind.dir(), baseName(job.Path))
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%s and %s both export to %s.json", prev, job.Path, out)
		}
		seen[out] = job.Path
	}
	return nil
}

func baseName(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
