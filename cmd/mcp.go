package cmd

import (
	"github.com/onchainlab/gauge/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Gauge MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents compute the Mayer Multiple and convert indicator snapshots via standard tools.`,
	Args:  cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Nothing may print to stdout here since stdio carries the protocol
		return sharedSetup("", "")
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}
