package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/treetile/internal/ipc"
	"github.com/1broseidon/treetile/internal/mcp"
)

func (a *app) mcpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol integration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the MCP server on stdio. Designed to be invoked by MCP clients.
Every tool forwards to a running 'treetile daemon'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := mcp.NewServer(ipc.NewClient(), slogFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			return server.Run(cmd.Context())
		},
	})
	return cmd
}
