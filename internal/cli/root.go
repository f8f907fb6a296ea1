package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmap/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stackmap maps weighted graphs onto processor architectures",
		Long: `Stackmap computes static mappings of weighted graphs onto target
architectures by dual recursive bipartitioning. Each vertex is assigned to a
processor so that load stays balanced and communication cost stays low.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "configuration file (default ./"+defaultConfigFile+" if present)")

	root.AddCommand(c.mapCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.genCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.completionCommand())

	return root
}
