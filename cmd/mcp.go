package cmd

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/JakeFAU/linkpreview/internal/mcpserver"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the link_preview tool over MCP stdio",
		Long: `Speaks the Model Context Protocol on stdin/stdout so agents can call the
link_preview tool. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			s := mcpserver.New(appInstance.GetPreviewer(), version, appInstance.GetLogger().Named("mcp"))
			if err := server.ServeStdio(s); err != nil {
				return fmt.Errorf("serve mcp: %w", err)
			}
			return nil
		},
	}
}
