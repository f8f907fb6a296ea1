package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmap/pkg/api"
	"github.com/matzehuels/stackmap/pkg/config"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		maxThreads  int
		maxVertices int
		timeout     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mapping API over HTTP",
		Long: `Serve the mapping API over HTTP. The cache and run store come from the
configuration file; use the redis and mongo backends to share them between
instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, cfg, runnerOptions{})
			if err != nil {
				return err
			}
			defer runner.Close()

			handler := api.New(runner, loggerFromContext(ctx), api.Config{
				MaxThreads:  maxThreads,
				MaxVertices: maxVertices,
				Timeout:     timeout,
			}).Handler()
			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return c.serve(ctx, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else "+config.DefaultAddr+")")
	cmd.Flags().IntVar(&maxThreads, "max-threads", api.DefaultMaxThreads, "largest thread count a request may use")
	cmd.Flags().IntVar(&maxVertices, "max-vertices", api.DefaultMaxVertices, "largest graph a request may submit")
	cmd.Flags().DurationVar(&timeout, "timeout", api.DefaultTimeout, "per-request deadline")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func (c *CLI) serve(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
