package cli

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/stackmap/pkg/errors"
	"github.com/matzehuels/stackmap/pkg/graph"
)

// genCommand creates the gen command, which writes test graphs.
func (c *CLI) genCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "gen <cycle:N|grid:XxY>",
		Short: "Generate a sample graph",
		Example: `  stackmap gen grid:16x16 -o grid.json
  stackmap gen cycle:100 -o ring.json && stackmap map ring.json --arch hcub:3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := generate(args[0])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return graph.WriteGraph(g, os.Stdout)
			}
			if err := graph.WriteGraphFile(g, output); err != nil {
				return err
			}
			printSuccess("Generated %d vertices, %d edges", g.VertNbr, g.EdgeNbr/2)
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// generate parses a generator description.
func generate(desc string) (*graph.Graph, error) {
	name, params, _ := strings.Cut(desc, ":")
	bad := func() error {
		return errs.New(errs.ErrCodeInvalidInput, "invalid generator %q (want cycle:N or grid:XxY)", desc)
	}
	switch name {
	case "cycle":
		n, err := strconv.Atoi(params)
		if err != nil || n < 1 {
			return nil, bad()
		}
		return graph.Cycle(n), nil
	case "grid":
		xs, ys, ok := strings.Cut(params, "x")
		x, errX := strconv.Atoi(xs)
		y, errY := strconv.Atoi(ys)
		if !ok || errX != nil || errY != nil || x < 1 || y < 1 {
			return nil, bad()
		}
		return graph.Grid(x, y), nil
	}
	return nil, bad()
}
