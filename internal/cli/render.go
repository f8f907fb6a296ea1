package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/stackmap/pkg/errors"
	"github.com/matzehuels/stackmap/pkg/graph"
	"github.com/matzehuels/stackmap/pkg/pipeline"
	"github.com/matzehuels/stackmap/pkg/render"
)

// renderCommand creates the render command, which draws a stored mapping
// without recomputing it.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		format  string
		cluster bool
		loads   bool
	)
	cmd := &cobra.Command{
		Use:   "render <graph.json> [mapping.json]",
		Short: "Draw a graph, optionally coloured by a mapping",
		Long: `Draw a graph as SVG or DOT. With a mapping file produced by "map",
vertices are coloured by domain and cut edges are dashed.`,
		Example: `  stackmap render app.json app.map.json -o app.svg
  stackmap render app.json --format dot`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != pipeline.FormatSVG && format != pipeline.FormatDOT {
				return errs.New(errs.ErrCodeInvalidFormat, "render supports svg and dot, got %q", format)
			}
			g, err := readGraphArg(args[0])
			if err != nil {
				return err
			}

			var parts []int
			var labels []string
			if len(args) == 2 {
				out, err := readOutput(args[1])
				if err != nil {
					return err
				}
				if out.Vertices != g.VertNbr || len(out.Parts) != g.VertNbr {
					return errs.New(errs.ErrCodeInvalidInput, "mapping has %d vertices, graph has %d", len(out.Parts), g.VertNbr)
				}
				parts, labels = out.Parts, out.Domains
			}

			dot := render.ToDOT(g, parts, render.Options{Labels: labels, Cluster: cluster, EdgeLoads: loads})
			data := []byte(dot)
			if format == pipeline.FormatSVG {
				prog := newProgress(loggerFromContext(cmd.Context()))
				if data, err = render.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
				prog.done("Rendered SVG")
			}

			if output == "" {
				output = outputPath(".", strings.TrimSuffix(args[0], ".map.json"), format)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Rendered %s", format)
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <graph>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "svg or dot")
	cmd.Flags().BoolVar(&cluster, "cluster", false, "group vertices by domain")
	cmd.Flags().BoolVar(&loads, "loads", false, "label edges with their loads")
	return cmd
}

func readGraphArg(path string) (*graph.Graph, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "read %s", path)
	}
	return g, nil
}

func readOutput(path string) (*pipeline.Output, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "read %s", path)
	}
	var out pipeline.Output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse mapping %s", path)
	}
	return &out, nil
}
