package pipeline

import (
	"context"
	"encoding/json"

	errs "github.com/matzehuels/stackmap/pkg/errors"
	"github.com/matzehuels/stackmap/pkg/render"
)

// render fills artifacts with the formats requested in opts. SVG output is
// cached under the mapping key, since Graphviz layout dominates its cost.
func (r *Runner) render(ctx context.Context, opts Options, key string, out *Output, artifacts map[string][]byte) error {
	if opts.Wants(FormatJSON) {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "encode mapping")
		}
		artifacts[FormatJSON] = data
	}
	if !opts.Wants(FormatDOT) && !opts.Wants(FormatSVG) {
		return nil
	}

	dot := render.ToDOT(opts.Graph, out.Parts, render.Options{
		Labels:  out.Domains,
		Cluster: opts.Cluster,
	})
	if opts.Wants(FormatDOT) {
		artifacts[FormatDOT] = []byte(dot)
	}
	if !opts.Wants(FormatSVG) {
		return nil
	}

	svgKey := r.Keyer.RenderKey(key, renderVariant(opts))
	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, svgKey); err == nil && ok {
			artifacts[FormatSVG] = data
			return nil
		}
	}
	svg, err := render.RenderSVG(ctx, dot)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "render svg")
	}
	if err := r.Cache.Set(ctx, svgKey, svg, TTLRender); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	}
	artifacts[FormatSVG] = svg
	return nil
}

func renderVariant(opts Options) string {
	if opts.Cluster {
		return FormatSVG + "+cluster"
	}
	return FormatSVG
}
