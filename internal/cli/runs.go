package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmap/pkg/config"
	"github.com/matzehuels/stackmap/pkg/runs"
)

// runsCommand creates the runs command, which inspects recorded runs.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded mapping runs",
	}
	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())
	return cmd
}

// openStore opens the configured run store.
func (c *CLI) openStore(cmd *cobra.Command) (runs.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Runs.Backend == config.BackendNone {
		return nil, fmt.Errorf("run recording is disabled in the configuration")
	}
	return newStore(cmd.Context(), cfg)
}

func (c *CLI) runsListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No runs recorded")
				return nil
			}
			printRunTable(list)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", runs.DefaultListLimit, "number of runs to show")
	return cmd
}

func (c *CLI) runsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			r, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render("Run " + r.ID))
			printKeyValue("created", r.CreatedAt.Local().Format(time.DateTime))
			printKeyValue("graph", r.GraphHash[:min(12, len(r.GraphHash))])
			printKeyValue("arch", r.Arch)
			printKeyValue("strategy", r.Strategy)
			printKeyValue("seed", strconv.FormatUint(r.Seed, 10))
			printKeyValue("threads", strconv.Itoa(r.Threads))
			printStats(r.Vertices, r.Edges, r.Domains, r.Cached)
			printCost(r.Comm, r.Cut, r.MinLoad, r.MaxLoad, r.LoadRatio)
			printKeyValue("depth", strconv.Itoa(r.MaxDepth))
			printKeyValue("fallbacks", strconv.Itoa(r.Fallbacks))
			printKeyValue("duration", r.Duration.Round(time.Millisecond).String())
			return nil
		},
	}
}

// printRunTable prints one line per run with aligned columns.
func printRunTable(list []*runs.Run) {
	col := func(w int) lipgloss.Style { return lipgloss.NewStyle().Width(w) }
	header := col(38).Render("ID") + col(18).Render("CREATED") + col(14).Render("ARCH") +
		col(10).Render("VERTICES") + col(10).Render("COMM")
	fmt.Println(StyleDim.Render(header))
	for _, r := range list {
		fmt.Println(col(38).Render(r.ID) +
			col(18).Render(r.CreatedAt.Local().Format("2006-01-02 15:04")) +
			col(14).Render(StyleHighlight.Render(r.Arch)) +
			col(10).Render(strconv.Itoa(r.Vertices)) +
			col(10).Render(StyleNumber.Render(strconv.Itoa(r.Comm))))
	}
}
