package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/config"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/version"
)

func newRootCmd() *cobra.Command {
	var env string

	root := &cobra.Command{
		Use:   "elasticsearch-mcp",
		Short: "MCP server exposing Elasticsearch index, search and REST tools",
		Long: "elasticsearch-mcp serves list_indices, get_mappings, search, execute_es_api and get_shards\n" +
			"to MCP clients. Without a subcommand it speaks MCP over stdin/stdout.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStdio(cmd.Context(), env)
		},
	}
	root.PersistentFlags().StringVar(&env, "env", config.GetEnv(),
		"configuration environment: local, dev, docker or prod (reads config/<env>.yaml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "stdio",
			Short: "Serve MCP over stdin/stdout",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runStdio(cmd.Context(), env)
			},
		},
		newHTTPCmd(&env),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			},
		},
	)
	return root
}

func newHTTPCmd(env *string) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve MCP over streamable HTTP at /mcp, with /health and /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			override := 0
			if cmd.Flags().Changed("port") {
				override = port
			}
			return runHTTP(cmd.Context(), *env, override)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default: http.port from config)")
	return cmd
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
