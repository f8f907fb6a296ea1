// Package cli implements the stackmap command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackmap/pkg/cache"
	"github.com/matzehuels/stackmap/pkg/config"
	errs "github.com/matzehuels/stackmap/pkg/errors"
	"github.com/matzehuels/stackmap/pkg/pipeline"
	"github.com/matzehuels/stackmap/pkg/runs"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stackmap"

// defaultConfigFile is picked up from the working directory when --config
// is not given.
const defaultConfigFile = "stackmap.toml"

// Log levels accepted by New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig returns the loaded configuration, reading it on first use.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := c.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			c.cfg = config.Default()
			return c.cfg, nil
		}
		path = defaultConfigFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOptions disables parts of the configured runner.
type runnerOptions struct {
	noCache  bool
	noRecord bool
}

// newRunner creates a pipeline runner from the configuration.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, ro runnerOptions) (*pipeline.Runner, error) {
	var cc cache.Cache = cache.NewNullCache()
	if !ro.noCache {
		var err error
		if cc, err = newCache(ctx, cfg); err != nil {
			return nil, err
		}
	}
	var store runs.Store
	if !ro.noRecord {
		var err error
		if store, err = newStore(ctx, cfg); err != nil {
			_ = cc.Close()
			return nil, err
		}
	}
	return pipeline.NewRunner(cc, nil, store, c.Logger), nil
}

func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{URL: cfg.Cache.RedisURL})
		if err != nil {
			return nil, backendError(err, "open redis cache")
		}
		return rc, nil
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

func newStore(ctx context.Context, cfg *config.Config) (runs.Store, error) {
	switch cfg.Runs.Backend {
	case config.BackendNone:
		return nil, nil
	case config.BackendMongo:
		ms, err := runs.NewMongoStore(ctx, runs.MongoConfig{
			URI:        cfg.Runs.MongoURI,
			Database:   cfg.Runs.Database,
			Collection: cfg.Runs.Collection,
		})
		if err != nil {
			return nil, backendError(err, "open mongo run store")
		}
		return ms, nil
	}
	return runs.NewFileStore(cfg.Runs.Dir)
}

// backendError codes a backend that could not be reached as a network
// error and any other setup failure as a storage error.
func backendError(err error, msg string) error {
	code := errs.ErrCodeStorage
	if errors.Is(err, cache.ErrNetwork) || errors.Is(err, runs.ErrUnavailable) {
		code = errs.ErrCodeNetwork
	}
	return errs.Wrap(code, err, "%s", msg)
}
