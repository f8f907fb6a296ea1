// Package config loads stackmap settings from a TOML file.
//
// A file holds one table per concern; every key is optional and falls back
// to the defaults in [pipeline]:
//
//	[arch]
//	target = "deco"          # any arch.Parse description, or "deco"
//	graph  = "procs.json"    # processor graph for "deco"
//
//	[strategy]
//	method    = "ml{ga:80,64,greedy}"
//	imbalance = 0.03
//
//	[runtime]
//	threads = 8
//	seed    = 7
//
//	[cache]
//	backend   = "redis"      # "file", "redis" or "none"
//	redis_url = "redis://localhost:6379/0"
//
//	[runs]
//	backend   = "mongo"      # "file", "mongo" or "none"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
// Command-line flags override file values.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackmap/pkg/arch"
	"github.com/matzehuels/stackmap/pkg/bipart"
	errs "github.com/matzehuels/stackmap/pkg/errors"
	"github.com/matzehuels/stackmap/pkg/graph"
	"github.com/matzehuels/stackmap/pkg/pipeline"
)

// Backend names.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// DefaultAddr is the API server's listen address.
const DefaultAddr = ":8080"

// Config is the decoded configuration file.
type Config struct {
	Arch     ArchConfig     `toml:"arch"`
	Strategy StrategyConfig `toml:"strategy"`
	Runtime  RuntimeConfig  `toml:"runtime"`
	Cache    CacheConfig    `toml:"cache"`
	Runs     RunsConfig     `toml:"runs"`
	Server   ServerConfig   `toml:"server"`

	// dir is the directory of the loaded file; relative paths resolve
	// against it.
	dir string
}

type ArchConfig struct {
	Target string `toml:"target"`
	Graph  string `toml:"graph"`
}

type StrategyConfig struct {
	Method    string  `toml:"method"`
	Imbalance float64 `toml:"imbalance"`
}

type RuntimeConfig struct {
	Threads int    `toml:"threads"`
	Seed    uint64 `toml:"seed"`
}

type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
}

type RunsConfig struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Arch:     ArchConfig{Target: pipeline.DefaultArch},
		Strategy: StrategyConfig{Method: pipeline.DefaultStrategy, Imbalance: pipeline.DefaultImbalance},
		Runtime:  RuntimeConfig{Seed: pipeline.DefaultSeed},
		Cache:    CacheConfig{Backend: BackendFile},
		Runs:     RunsConfig{Backend: BackendFile},
		Server:   ServerConfig{Addr: DefaultAddr},
	}
}

// Load reads path on top of Default and validates the result. Unknown keys
// are errors, so typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and parses the architecture and strategy
// descriptions without building them.
func (c *Config) Validate() error {
	var problems []error
	if c.Arch.Target == "deco" {
		if c.Arch.Graph == "" {
			problems = append(problems, errors.New("arch.graph is required for a deco target"))
		}
	} else if _, err := arch.Parse(c.Arch.Target); err != nil {
		problems = append(problems, fmt.Errorf("arch.target: %w", err))
	}
	if _, err := bipart.Parse(c.Strategy.Method); err != nil {
		problems = append(problems, fmt.Errorf("strategy.method: %w", err))
	}
	if c.Strategy.Imbalance < 0 {
		problems = append(problems, fmt.Errorf("strategy.imbalance: must not be negative, got %g", c.Strategy.Imbalance))
	}
	if c.Runtime.Threads < 0 {
		problems = append(problems, fmt.Errorf("runtime.threads: must not be negative, got %d", c.Runtime.Threads))
	}
	if !slices.Contains([]string{BackendNone, BackendFile, BackendRedis}, c.Cache.Backend) {
		problems = append(problems, fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend))
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		problems = append(problems, errors.New("cache.redis_url is required for the redis backend"))
	}
	if !slices.Contains([]string{BackendNone, BackendFile, BackendMongo}, c.Runs.Backend) {
		problems = append(problems, fmt.Errorf("runs.backend: unknown backend %q", c.Runs.Backend))
	}
	if c.Runs.Backend == BackendMongo && c.Runs.MongoURI == "" {
		problems = append(problems, errors.New("runs.mongo_uri is required for the mongo backend"))
	}
	if len(problems) > 0 {
		return errs.Wrap(errs.ErrCodeInvalidConfig, errors.Join(problems...), "invalid configuration")
	}
	return nil
}

// ArchGraphPath returns the processor graph path resolved against the
// directory of the configuration file.
func (c *Config) ArchGraphPath() string {
	if c.Arch.Graph == "" || filepath.IsAbs(c.Arch.Graph) || c.dir == "" {
		return c.Arch.Graph
	}
	return filepath.Join(c.dir, c.Arch.Graph)
}

// BuildArch builds the configured architecture.
func (c *Config) BuildArch() (arch.Arch, error) {
	if c.Arch.Target != "deco" {
		a, err := arch.Parse(c.Arch.Target)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidArch, err, "arch.target")
		}
		return a, nil
	}
	g, err := graph.ReadGraphFile(c.ArchGraphPath())
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidArch, err, "arch.graph")
	}
	d, err := arch.NewDeco(g)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidArch, err, "arch.graph")
	}
	return d, nil
}

// BuildStrategy builds the configured bipartitioning method.
func (c *Config) BuildStrategy() (bipart.Method, error) {
	m, err := bipart.Parse(c.Strategy.Method)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidStrategy, err, "strategy.method")
	}
	return m, nil
}

// PipelineOptions converts the configuration into pipeline options for g.
// A deco target is passed by file, so the options allow file access.
func (c *Config) PipelineOptions(g *graph.Graph) pipeline.Options {
	opts := pipeline.Options{
		Graph:     g,
		Arch:      c.Arch.Target,
		Strategy:  c.Strategy.Method,
		Imbalance: c.Strategy.Imbalance,
		Seed:      c.Runtime.Seed,
		Threads:   c.Runtime.Threads,
	}
	if c.Arch.Target == "deco" {
		opts.Arch = "deco:" + c.ArchGraphPath()
		opts.AllowFiles = true
	}
	return opts
}
