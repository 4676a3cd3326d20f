package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/loom/internal/app"
	"github.com/runoshun/loom/internal/usecase"
)

// newSessionCommand creates the session command group.
func newSessionCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage session bindings",
	}
	cmd.AddCommand(
		newSessionBindCommand(c),
		newSessionResolveCommand(c),
	)
	return cmd
}

func newSessionBindCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "bind <session-key> <strand-id>",
		Short: "Bind an interactive session to a strand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.BindSessionUseCase().Execute(cmd.Context(), usecase.BindSessionInput{
				SessionKey: args[0],
				StrandID:   args[1],
			}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Bound %s to strand %s\n", args[0], args[1])
			return nil
		},
	}
}

func newSessionResolveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <session-key>",
		Short: "Show what a session key is bound to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.BindSessionUseCase().Resolve(cmd.Context(), usecase.ResolveSessionInput{SessionKey: args[0]})
			if err != nil {
				return err
			}
			if out.GoalID != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Goal: %s\n", out.GoalID)
			}
			if out.StrandID != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Strand: %s\n", out.StrandID)
			}
			return nil
		},
	}
}
