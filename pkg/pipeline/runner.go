package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackmap/pkg/arch"
	"github.com/matzehuels/stackmap/pkg/bipart"
	"github.com/matzehuels/stackmap/pkg/cache"
	errs "github.com/matzehuels/stackmap/pkg/errors"
	"github.com/matzehuels/stackmap/pkg/exec"
	"github.com/matzehuels/stackmap/pkg/graph"
	"github.com/matzehuels/stackmap/pkg/mapper"
	"github.com/matzehuels/stackmap/pkg/runs"
)

// Runner executes pipelines with caching and optional run recording.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  runs.Store // nil disables run recording
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects cache.DefaultKeyer and a nil store disables run recording.
func NewRunner(c cache.Cache, keyer cache.Keyer, store runs.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.WithHooks(c),
		Keyer:  keyer,
		Store:  store,
		Logger: logger,
	}
}

// Execute maps opts.Graph and renders the requested formats.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	res := &Result{Artifacts: make(map[string][]byte)}

	mapStart := time.Now()
	out, key, hit, err := r.MapWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	res.Output = out
	res.CacheKey = key
	res.CacheHit = hit
	res.GraphHash = graphHash(opts.Graph)
	res.Stats.MapTime = time.Since(mapStart)

	r.Logger.Info("mapped graph",
		"arch", out.Arch,
		"vertices", out.Vertices,
		"domains", out.Stats.Domains,
		"comm", out.Cost.Comm,
		"cached", hit,
		"duration", res.Stats.MapTime)

	renderStart := time.Now()
	if err := r.render(ctx, opts, key, out, res.Artifacts); err != nil {
		return nil, err
	}
	res.Stats.RenderTime = time.Since(renderStart)

	if r.Store != nil {
		run := newRun(res, opts)
		if err := r.Store.Save(ctx, run); err != nil {
			r.Logger.Warn("could not record run", "error", err)
		} else {
			res.Run = run
		}
	}
	return res, nil
}

// MapWithCacheInfo returns the mapping for opts, its cache key and whether
// it came from the cache.
func (r *Runner) MapWithCacheInfo(ctx context.Context, opts Options) (*Output, string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", false, err
	}
	a, archKey, err := ResolveArch(opts)
	if err != nil {
		return nil, "", false, err
	}
	method, err := bipart.Parse(opts.Strategy)
	if err == nil {
		method, err = bipart.Limit(method, opts.Limits)
	}
	if err != nil {
		return nil, "", false, errs.Wrap(errs.ErrCodeInvalidStrategy, err, "strategy %q", opts.Strategy)
	}

	key := r.Keyer.MappingKey(graphHash(opts.Graph), opts.KeyOpts(archKey))
	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		} else if ok {
			var out Output
			if err := json.Unmarshal(data, &out); err == nil && out.Vertices == opts.Graph.VertNbr {
				return &out, key, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", key)
		}
	}

	ec := exec.New(opts.Threads, opts.Seed, opts.Logger)
	mres, err := mapper.Map(ctx, ec, opts.Graph, a, mapper.Options{
		Strategy:  method,
		Imbalance: opts.Imbalance,
	})
	if err != nil {
		return nil, "", false, err
	}
	cost, err := mapper.ComputeCost(opts.Graph, mres.Mapping)
	if err != nil {
		return nil, "", false, err
	}

	out := newOutput(opts, mres, cost)
	if data, err := json.Marshal(out); err == nil {
		if err := r.Cache.Set(ctx, key, data, TTLMapping); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		}
	}
	return out, key, false, nil
}

// ResolveArch builds the architecture of opts. The returned key stands in
// for opts.Arch in cache keys; it differs from it only for deco targets,
// whose identity is the processor graph's content.
func ResolveArch(opts Options) (arch.Arch, string, error) {
	name, param, _ := strings.Cut(opts.Arch, ":")
	if name != "deco" {
		a, err := arch.Parse(opts.Arch)
		if err != nil {
			return nil, "", errs.Wrap(errs.ErrCodeInvalidArch, err, "architecture %q", opts.Arch)
		}
		return a, opts.Arch, nil
	}

	pg := opts.ArchGraph
	if param != "" {
		if !opts.AllowFiles {
			return nil, "", errs.New(errs.ErrCodeInvalidArch, "file-based deco architectures are not allowed here")
		}
		if err := errs.ValidatePath(param); err != nil {
			return nil, "", err
		}
		var err error
		if pg, err = graph.ReadGraphFile(param); err != nil {
			return nil, "", errs.Wrap(errs.ErrCodeInvalidArch, err, "read processor graph %s", param)
		}
	}
	if pg == nil {
		return nil, "", errs.New(errs.ErrCodeInvalidArch, "deco architecture needs a processor graph")
	}
	a, err := arch.NewDeco(pg)
	if err != nil {
		return nil, "", errs.Wrap(errs.ErrCodeInvalidArch, err, "processor graph")
	}
	return a, "deco:" + graphHash(pg), nil
}

func graphHash(g *graph.Graph) string {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		// Unreachable for validated graphs; an empty hash disables sharing.
		return ""
	}
	return cache.Hash(data)
}

func newOutput(opts Options, mres *mapper.Result, cost *mapper.Cost) *Output {
	m := mres.Mapping
	domains := make([]string, m.DomainCount())
	for i := range domains {
		d, _ := m.Domain(i)
		domains[i] = d.String()
	}
	return &Output{
		Arch:      opts.Arch,
		Strategy:  opts.Strategy,
		Base:      opts.Graph.Base,
		Vertices:  opts.Graph.VertNbr,
		Parts:     m.Parts(),
		Terminals: m.Terminals(),
		Domains:   domains,
		Cost:      *cost,
		Stats: MapStats{
			Domains:      mres.Stats.Domains,
			Bipartitions: mres.Stats.Bipartitions,
			Fallbacks:    mres.Stats.Fallbacks,
			MaxDepth:     mres.Stats.MaxDepth,
			DurationNS:   int64(mres.Stats.Duration),
		},
	}
}

func newRun(res *Result, opts Options) *runs.Run {
	out := res.Output
	run := runs.New(res.GraphHash)
	run.CacheKey = res.CacheKey
	run.Arch = out.Arch
	run.Strategy = opts.Strategy
	run.Imbalance = opts.Imbalance
	run.Seed = opts.Seed
	run.Threads = opts.Threads
	run.Vertices = out.Vertices
	run.Edges = opts.Graph.EdgeNbr / 2
	run.Domains = out.Stats.Domains
	run.Bipartitions = out.Stats.Bipartitions
	run.Fallbacks = out.Stats.Fallbacks
	run.MaxDepth = out.Stats.MaxDepth
	run.Comm = out.Cost.Comm
	run.Cut = out.Cost.Cut
	run.MaxLoad = out.Cost.MaxLoad
	run.MinLoad = out.Cost.MinLoad
	run.LoadRatio = out.Cost.Imbalance
	run.Duration = res.Stats.MapTime
	run.Cached = res.CacheHit
	return run
}

// Close releases the cache and the run store.
func (r *Runner) Close() error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && first == nil {
			first = fmt.Errorf("close run store: %w", err)
		}
	}
	return first
}
