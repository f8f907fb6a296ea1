// Package pipeline runs the load → map → render sequence shared by the CLI
// and the API server.
//
// # Stages
//
//  1. Resolve: parse the architecture and strategy descriptions.
//  2. Map: compute the mapping with [mapper.Map] and evaluate its cost,
//     or load both from the cache.
//  3. Render: produce the requested output formats (JSON, DOT, SVG).
//
// A [Runner] owns the cache and the optional run store. It holds no
// per-request state, so one Runner serves concurrent requests.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, store, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Graph:    g,
//	    Arch:     "hcub:3",
//	    Strategy: "ml{ga,greedy}",
//	    Formats:  []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := res.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackmap/pkg/bipart"
	"github.com/matzehuels/stackmap/pkg/cache"
	errs "github.com/matzehuels/stackmap/pkg/errors"
	"github.com/matzehuels/stackmap/pkg/graph"
	"github.com/matzehuels/stackmap/pkg/mapper"
	"github.com/matzehuels/stackmap/pkg/runs"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API and config files
// =============================================================================

const (
	// DefaultArch is the target architecture when none is given.
	DefaultArch = "cmplt:2"

	// DefaultStrategy describes the bipartitioning method; it matches
	// mapper.DefaultStrategy.
	DefaultStrategy = "ml{ga,greedy}"

	// DefaultImbalance is the tolerated load imbalance.
	DefaultImbalance = mapper.DefaultImbalance

	// DefaultSeed seeds the random streams of a run.
	DefaultSeed = uint64(42)

	// TTLMapping is how long computed mappings stay cached.
	TTLMapping = 7 * 24 * time.Hour

	// TTLRender is how long rendered artifacts stay cached.
	TTLRender = 24 * time.Hour
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. The JSON form is the body of the
// API's map request, minus the graph.
type Options struct {
	Graph *graph.Graph `json:"-"`

	// Arch describes the target, see arch.Parse. "deco" uses ArchGraph as
	// the processor graph; "deco:<file>" reads it from a graph file.
	Arch      string       `json:"arch,omitempty"`
	ArchGraph *graph.Graph `json:"-"`

	Strategy  string  `json:"strategy,omitempty"`
	Imbalance float64 `json:"imbalance,omitempty"`
	Seed      uint64  `json:"seed,omitempty"`
	Threads   int     `json:"threads,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Cluster bool     `json:"cluster,omitempty"`

	// Refresh ignores cached results; fresh results are still cached.
	Refresh bool `json:"refresh,omitempty"`

	// AllowFiles permits "deco:<file>". The API leaves it false.
	AllowFiles bool `json:"-"`
	// Limits bounds the GA parameters of Strategy. The API sets it.
	Limits bipart.Limits `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Graph == nil {
		return errs.New(errs.ErrCodeInvalidInput, "graph is required")
	}
	if o.Arch == "" {
		o.Arch = DefaultArch
	}
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.Imbalance < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "imbalance must not be negative, got %g", o.Imbalance)
	}
	if o.Imbalance == 0 {
		o.Imbalance = DefaultImbalance
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Threads < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "threads must not be negative, got %d", o.Threads)
	}
	if o.Threads == 0 {
		o.Threads = runtime.GOMAXPROCS(0)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if strings.HasPrefix(o.Arch, "deco:") && !o.AllowFiles {
		return errs.New(errs.ErrCodeInvalidArch, "file-based deco architectures are not allowed here")
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return errs.New(errs.ErrCodeInvalidFormat, "invalid format %q (must be one of: json, dot, svg)", f)
		}
	}
	return nil
}

// KeyOpts returns the cache key options of o. archKey replaces Arch when
// the architecture comes from a graph.
func (o *Options) KeyOpts(archKey string) cache.MappingKeyOpts {
	if archKey == "" {
		archKey = o.Arch
	}
	return cache.MappingKeyOpts{
		Arch:      archKey,
		Strategy:  o.Strategy,
		Imbalance: o.Imbalance,
		Seed:      o.Seed,
		Threads:   o.Threads,
	}
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// =============================================================================
// Results
// =============================================================================

// Output is the portable form of a mapping. It is what gets cached and
// what the API returns. Vertex arrays are indexed by zero-based vertex
// number.
type Output struct {
	Arch      string      `json:"arch"`
	Strategy  string      `json:"strategy"`
	Base      int         `json:"base"`
	Vertices  int         `json:"vertices"`
	Parts     []int       `json:"parts"`
	Terminals []int       `json:"terminals"`
	Domains   []string    `json:"domains"`
	Cost      mapper.Cost `json:"cost"`
	Stats     MapStats    `json:"stats"`
}

// MapStats is the serializable form of mapper.Stats.
type MapStats struct {
	Domains      int   `json:"domains"`
	Bipartitions int   `json:"bipartitions"`
	Fallbacks    int   `json:"fallbacks"`
	MaxDepth     int   `json:"max_depth"`
	DurationNS   int64 `json:"duration_ns"`
}

// Result holds everything a pipeline run produced.
type Result struct {
	GraphHash string
	CacheKey  string
	Output    *Output
	Artifacts map[string][]byte
	Stats     Stats

	// CacheHit is true when the mapping came from the cache.
	CacheHit bool

	// Run is the recorded run, when the runner has a store.
	Run *runs.Run
}

// Stats holds stage timings.
type Stats struct {
	MapTime    time.Duration
	RenderTime time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("map %s, render %s", s.MapTime.Round(time.Millisecond), s.RenderTime.Round(time.Millisecond))
}
