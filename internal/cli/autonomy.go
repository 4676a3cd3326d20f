package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/loom/internal/app"
	"github.com/runoshun/loom/internal/domain"
	"github.com/runoshun/loom/internal/usecase"
)

// newAutonomyCommand creates the autonomy command.
func newAutonomyCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Strand string
		Goal   string
		Task   string
	}

	cmd := &cobra.Command{
		Use:   "autonomy <mode>",
		Short: "Set an autonomy override on a strand, goal, or task",
		Long: fmt.Sprintf(`Set an autonomy override.

Modes: %s

Workers resolve their effective mode by checking the task override, then
the goal, then the strand, falling back to %q. Exactly one of --strand,
--goal, or --task selects the level; --task also needs --goal.

Examples:
  loom autonomy full --strand strand-1a2b3c4d
  loom autonomy supervised --goal goal-99aa88bb
  loom autonomy step --goal goal-99aa88bb --task task-55cc66dd`,
			strings.Join(autonomyModes(), ", "), string(domain.DefaultAutonomy)),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := args[0]
			in := usecase.SetAutonomyInput{
				StrandID: opts.Strand,
				GoalID:   opts.Goal,
				TaskID:   opts.Task,
				Mode:     mode,
			}

			uc := c.SetAutonomyUseCase()
			var err error
			var scope, id string
			switch {
			case opts.Task != "":
				if opts.Goal == "" {
					return fmt.Errorf("--task requires --goal")
				}
				scope, id = "task", opts.Task
				err = uc.Task(cmd.Context(), in)
			case opts.Goal != "":
				scope, id = "goal", opts.Goal
				err = uc.Goal(cmd.Context(), in)
			case opts.Strand != "":
				scope, id = "strand", opts.Strand
				err = uc.Strand(cmd.Context(), in)
			default:
				return fmt.Errorf("one of --strand, --goal, or --task is required")
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s %s autonomy to %s\n", scope, id, mode)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Strand, "strand", "", "Strand ID")
	cmd.Flags().StringVar(&opts.Goal, "goal", "", "Goal ID")
	cmd.Flags().StringVar(&opts.Task, "task", "", "Task ID (requires --goal)")
	return cmd
}

func autonomyModes() []string {
	return []string{
		string(domain.AutonomyFull),
		string(domain.AutonomyPlan),
		string(domain.AutonomyStep),
		string(domain.AutonomySupervised),
	}
}
