package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/loom/internal/app"
	"github.com/runoshun/loom/internal/usecase"
)

// newTaskCommand creates the task command group.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Operate on individual tasks",
	}
	cmd.AddCommand(
		newTaskSpawnCommand(c),
		newTaskCompleteCommand(c),
		newTaskResetCommand(c),
	)
	return cmd
}

func newTaskSpawnCommand(c *app.Container) *cobra.Command {
	var goalID string

	cmd := &cobra.Command{
		Use:   "spawn <task-id>",
		Short: "Spawn a worker session for one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.SpawnTaskUseCase().Execute(cmd.Context(), usecase.SpawnTaskInput{
				GoalID: goalID,
				TaskID: args[0],
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Spawned %s for task %s\n", out.SessionKey, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&goalID, "goal", "g", "", "Owning goal ID (required)")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func newTaskCompleteCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Goal    string
		Summary string
	}

	cmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a task done and advance the goal",
		Long: `Mark a task done and run the scheduling cascade.

If the goal still has work, the next eligible task(s) are spawned. If
this completion finishes the goal, the goal is marked done and dependent
goals in the strand become kickoff-eligible. Completing an already-done
task is a no-op.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.CompleteTaskUseCase().Execute(cmd.Context(), usecase.CompleteTaskInput{
				GoalID:  opts.Goal,
				TaskID:  args[0],
				Summary: opts.Summary,
			})
			if err != nil {
				return err
			}

			if !out.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s was already done\n", args[0])
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed task %s\n", args[0])
			for _, s := range out.Spawned {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Spawned %s for task %s\n", s.SessionKey, s.Assignment.TaskID)
			}
			if out.GoalDone {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Goal %s is done\n", opts.Goal)
			}
			for _, id := range out.UnblockedGoals {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Goal %s is now unblocked\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Goal, "goal", "g", "", "Owning goal ID (required)")
	cmd.Flags().StringVarP(&opts.Summary, "summary", "m", "", "Completion summary")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func newTaskResetCommand(c *app.Container) *cobra.Command {
	var goalID string

	cmd := &cobra.Command{
		Use:   "reset <task-id>",
		Short: "Clear a stuck task's session so it can be respawned",
		Long: `Clear the session assignment of a task whose worker never completed.

The task returns to pending and a later kickoff can spawn it again with
a fresh session. Done tasks cannot be reset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ResetTaskUseCase().Execute(cmd.Context(), usecase.ResetTaskInput{
				GoalID: goalID,
				TaskID: args[0],
			}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reset task %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&goalID, "goal", "g", "", "Owning goal ID (required)")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}
