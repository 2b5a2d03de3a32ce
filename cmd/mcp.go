package cmd

import (
	"github.com/huangsam/steptrack/internal/journal"
	"github.com/huangsam/steptrack/internal/mcp"
	"github.com/huangsam/steptrack/internal/vault"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the steptrack MCP server",
	Long: `Launch an MCP server over stdio that lets a host open one session at a time
and edit it with tools such as update_level, add_comment, add_break, undo and save_session.

The vault, layout and draft settings of the config are the defaults of every
open_session call.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, vault.New(), journal.Manager)
	},
}
