package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/loom/internal/app"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the loom data store",
		Long: `Initialize the loom data store.

This command creates the data directory with an empty document
(loom.json). Running it against an existing store is a no-op.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.Store.Initialize(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized loom in %s\n", c.Config.DataDir)
			return nil
		},
	}
}
