package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		mongoURI   string
		noCache    bool
		batchLimit int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Layouts posted to /v1/layouts are kept in MongoDB when --mongo (or the
[mongo] section of the config file) names a server, and in memory otherwise.
The cache backend comes from the config file; redis lets several instances
share rendered outputs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if mongoURI == "" {
				mongoURI = c.Config.Mongo.URI
			}
			if !cmd.Flags().Changed("batch-limit") && c.Config.Server.BatchLimit > 0 {
				batchLimit = c.Config.Server.BatchLimit
			}
			return c.runServe(cmd.Context(), addr, mongoURI, noCache, batchLimit)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for the layout store (default in-memory)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&batchLimit, "batch-limit", server.DefaultBatchLimit, "concurrent layout passes per batch request")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, mongoURI string, noCache bool, batchLimit int) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.newStore(ctx, mongoURI)
	if err != nil {
		return fmt.Errorf("open layout store: %w", err)
	}
	defer st.Close()
	if mongoURI != "" {
		logger.Info("Using MongoDB layout store", "database", c.Config.Mongo.Database)
	} else {
		logger.Warn("Layouts are kept in memory and lost on exit")
	}

	srv := server.New(runner, st, logger)
	if batchLimit > 0 {
		srv.BatchLimit = batchLimit
	}
	return srv.ListenAndServe(ctx, addr)
}
