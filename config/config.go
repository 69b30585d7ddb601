package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/automoto/chrono-tiles/shared/logging"
	"github.com/automoto/chrono-tiles/shared/tileset"
	"gopkg.in/yaml.v3"
)

// PipelineConfig contains everything the tsxtool binary reads from YAML
type PipelineConfig struct {
	LogLevel    string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat   string `yaml:"log_format"` // json or console
	Policy      string `yaml:"policy"`     // strict or lenient
	CheckAssets bool   `yaml:"check_assets"`
	Workers     int    `yaml:"workers"` // parallel loads, 0 = unbounded

	Cooker   CookerConfig   `yaml:"cooker"`
	Manifest ManifestConfig `yaml:"manifest"`
}

// CookerConfig lists the tilesets to export
type CookerConfig struct {
	ImportPath   string   `yaml:"import_path"` // root the tileset paths are relative to
	ExportPath   string   `yaml:"export_path"`
	Objectsheets []string `yaml:"objectsheets"` // collection tilesets
	Tilesets     []string `yaml:"tilesets"`     // atlas tilesets
	Force        bool     `yaml:"force"`        // cook even when unchanged
}

// ManifestConfig selects where content hashes of the last cook are kept
type ManifestConfig struct {
	AppName string `yaml:"app_name"` // empty keeps the manifest in memory
}

// EnvConfig names the variable consulted when no config path is given.
const EnvConfig = "TSXTOOL_CONFIG"

// Default returns the configuration used for fields a file leaves out.
func Default() PipelineConfig {
	return PipelineConfig{
		LogLevel:  "info",
		LogFormat: "console",
		Policy:    "strict",
		Workers:   4,
		Cooker: CookerConfig{
			ImportPath: ".",
			ExportPath: "build",
		},
	}
}

// Load reads a YAML pipeline file. An empty path falls back to $TSXTOOL_CONFIG
// and then to the defaults. Cooker paths in a file are relative to it.
func Load(p string) (PipelineConfig, error) {
	if p == "" {
		p = os.Getenv(EnvConfig)
		if p == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return PipelineConfig{}, fmt.Errorf("read config %s: %w", p, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return PipelineConfig{}, fmt.Errorf("config %s: %w", p, err)
	}
	return cfg.ResolvePaths(filepath.Dir(p)), nil
}

// ResolvePaths makes relative cooker paths relative to base.
func (c PipelineConfig) ResolvePaths(base string) PipelineConfig {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.Cooker.ImportPath = resolve(c.Cooker.ImportPath)
	c.Cooker.ExportPath = resolve(c.Cooker.ExportPath)
	return c
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (PipelineConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return PipelineConfig{}, fmt.Errorf("decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return PipelineConfig{}, err
	}
	return cfg, nil
}

// Validate reports every problem found, joined.
func (c PipelineConfig) Validate() error {
	var errs []error

	if _, err := tileset.ParsePolicy(c.Policy); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.Cooker.ExportPath == "" {
		errs = append(errs, errors.New("cooker.export_path is empty"))
	}

	seen := make(map[string]string)
	check := func(list string, entries []string) {
		for _, e := range entries {
			if path.Ext(e) != ".tsx" {
				errs = append(errs, fmt.Errorf("cooker.%s: %s is not a .tsx file", list, e))
				continue
			}
			if prev, ok := seen[e]; ok {
				errs = append(errs, fmt.Errorf("cooker.%s: %s already listed in %s", list, e, prev))
				continue
			}
			seen[e] = list
		}
	}
	check("objectsheets", c.Cooker.Objectsheets)
	check("tilesets", c.Cooker.Tilesets)

	return errors.Join(errs...)
}

// TilesetPolicy returns the parsed validation policy.
func (c PipelineConfig) TilesetPolicy() tileset.Policy {
	p, _ := tileset.ParsePolicy(c.Policy)
	return p
}
