package cmd

import (
	"github.com/huangsam/perflog/internal/mcp"
	"github.com/huangsam/perflog/internal/runstore"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [log-path]",
	Short: "Start the perflog MCP server",
	Long:  `Launch an MCP server that allows AI agents to reconstruct and inspect performance logs via standard tools.`,
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol, so headers must never reach stdout.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, runstore.Manager, version)
	},
}
