package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newFetchCmd creates the 'fetch' subcommand, which previews a single URL
// without starting the server.
func newFetchCmd() *cobra.Command {
	var userAgent string

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Preview one URL and print the metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			md, err := appInstance.GetPreviewer().Handle(cmd.Context(), args[0], userAgent)
			if err != nil {
				return fmt.Errorf("preview failed: %w", err)
			}

			out, err := json.MarshalIndent(md, "", "  ")
			if err != nil {
				return fmt.Errorf("encode preview: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "User-Agent to send instead of the configured default")
	return cmd
}
