package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmap/pkg/observability"
	"github.com/matzehuels/stackmap/pkg/pipeline"
)

// mapFlags holds the flags of the map command.
type mapFlags struct {
	arch      string
	strategy  string
	imbalance float64
	seed      uint64
	threads   int
	formats   string
	outDir    string
	cluster   bool
	noCache   bool
	refresh   bool
	noRecord  bool
}

// mapCommand creates the map command.
func (c *CLI) mapCommand() *cobra.Command {
	var f mapFlags
	cmd := &cobra.Command{
		Use:   "map <graph.json>",
		Short: "Map a graph onto a target architecture",
		Long: `Map a graph onto a target architecture and write the result.

Architectures: cmplt:N, cmpltw:W1,W2,..., hcub:D, mesh2d:XxY, torus2d:XxY,
vcmplt, vhcub, or deco:<processor-graph.json>.

Strategies: zero, greedy[:passes], ga[:gens,pop], ml{coarse,refine}, a+b.`,
		Example: `  stackmap map app.json --arch hcub:3
  stackmap map app.json --arch mesh2d:4x4 --strategy "ml{ga:80,64,greedy}" --format json,svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMap(cmd, args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.arch, "arch", "a", "", "target architecture (default from config, else "+pipeline.DefaultArch+")")
	flags.StringVarP(&f.strategy, "strategy", "s", "", "bipartitioning strategy (default "+pipeline.DefaultStrategy+")")
	flags.Float64Var(&f.imbalance, "imbalance", 0, "tolerated load imbalance (default "+strconv.FormatFloat(pipeline.DefaultImbalance, 'g', -1, 64)+")")
	flags.Uint64Var(&f.seed, "seed", 0, "random seed")
	flags.IntVarP(&f.threads, "threads", "t", 0, "worker threads (default GOMAXPROCS)")
	flags.StringVarP(&f.formats, "format", "f", pipeline.FormatJSON, "output formats: json, dot, svg (comma separated)")
	flags.StringVarP(&f.outDir, "output", "o", ".", "output directory")
	flags.BoolVar(&f.cluster, "cluster", false, "group vertices by domain in dot/svg output")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	flags.BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
	flags.BoolVar(&f.noRecord, "no-record", false, "do not record the run")
	return cmd
}

func (c *CLI) runMap(cmd *cobra.Command, input string, f mapFlags) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	g, err := readGraphArg(input)
	if err != nil {
		return err
	}
	formats, err := parseFormats(f.formats)
	if err != nil {
		return err
	}

	opts := cfg.PipelineOptions(g)
	applyMapFlags(cmd, &opts, f)
	opts.Formats = formats
	opts.Cluster = f.cluster
	opts.Refresh = f.refresh

	runner, err := c.newRunner(ctx, cfg, runnerOptions{noCache: f.noCache, noRecord: f.noRecord})
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Mapping %d vertices", g.VertNbr))
	observability.SetMapHooks(spin.hooks())
	defer observability.SetMapHooks(observability.NoopMapHooks{})
	spin.Start()
	res, err := runner.Execute(ctx, opts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("Mapping complete", "domains", res.Output.Stats.Domains, "cached", res.CacheHit)

	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return err
	}
	for _, format := range opts.Formats {
		path := outputPath(f.outDir, input, format)
		if format == pipeline.FormatJSON {
			path = outputPath(f.outDir, input, "map.json")
		}
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	out := res.Output
	printStats(out.Vertices, g.EdgeNbr/2, out.Stats.Domains, res.CacheHit)
	printKeyValue("arch", out.Arch)
	printMapperCost(out.Cost)
	if res.Run != nil {
		printKeyValue("run", res.Run.ID)
	}
	if out.Stats.Fallbacks > 0 {
		printWarning("%d bipartitions were degenerate", out.Stats.Fallbacks)
	}
	if !opts.Wants(pipeline.FormatSVG) && opts.Wants(pipeline.FormatJSON) {
		printNextStep("Draw it", fmt.Sprintf("%s render %s %s", appName, input, outputPath(f.outDir, input, "map.json")))
	}
	return nil
}

// applyMapFlags lets explicitly set flags override configuration values.
func applyMapFlags(cmd *cobra.Command, opts *pipeline.Options, f mapFlags) {
	changed := cmd.Flags().Changed
	if changed("arch") {
		opts.Arch = f.arch
		if strings.HasPrefix(f.arch, "deco:") {
			opts.AllowFiles = true
		}
	}
	if changed("strategy") {
		opts.Strategy = f.strategy
	}
	if changed("imbalance") {
		opts.Imbalance = f.imbalance
	}
	if changed("seed") {
		opts.Seed = f.seed
	}
	if changed("threads") {
		opts.Threads = f.threads
	}
}
