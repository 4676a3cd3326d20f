package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runoshun/loom/internal/app"
	"github.com/runoshun/loom/internal/usecase"
)

// newGoalCommand creates the goal command group.
func newGoalCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals within a strand",
	}
	cmd.AddCommand(
		newGoalNewCommand(c),
		newGoalPlanCommand(c),
		newGoalKickoffCommand(c),
		newGoalMergeCommand(c),
	)
	return cmd
}

func newGoalNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Strand    string
		Notes     string
		DependsOn []string
		Priority  int
		Phase     int
		Worktree  bool
	}

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a new goal",
		Long: `Create a new goal in a strand.

Dependencies (--depends-on) must name goals in the same strand; the goal
stays blocked for kickoff until all of them are done. With --worktree,
loom creates an isolated git worktree on a goal branch inside the
strand's workspace.

Examples:
  loom goal new "Add authentication" --strand strand-1a2b3c4d
  loom goal new "Ship OIDC" --strand strand-1a2b3c4d --depends-on goal-99aa88bb --worktree`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.NewGoalUseCase().Execute(cmd.Context(), usecase.NewGoalInput{
				StrandID:       opts.Strand,
				Title:          args[0],
				Notes:          opts.Notes,
				DependsOn:      opts.DependsOn,
				Priority:       opts.Priority,
				Phase:          opts.Phase,
				CreateWorktree: opts.Worktree,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created goal %s: %s\n", out.Goal.ID, out.Goal.Title)
			if out.Goal.Worktree != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Worktree: %s (branch %s)\n",
					out.Goal.Worktree.Path, out.Goal.Worktree.BranchName)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Strand, "strand", "s", "", "Owning strand ID (required)")
	cmd.Flags().StringVarP(&opts.Notes, "notes", "n", "", "Goal notes")
	cmd.Flags().StringSliceVar(&opts.DependsOn, "depends-on", nil, "Prerequisite goal ID (repeatable)")
	cmd.Flags().IntVar(&opts.Priority, "priority", 0, "Priority")
	cmd.Flags().IntVar(&opts.Phase, "phase", 0, "Phase ordering hint")
	cmd.Flags().BoolVar(&opts.Worktree, "worktree", false, "Create an isolated worktree now")
	_ = cmd.MarkFlagRequired("strand")
	return cmd
}

func newGoalPlanCommand(c *app.Container) *cobra.Command {
	var planRef string

	cmd := &cobra.Command{
		Use:   "plan <goal-id> <plan-file>",
		Short: "Populate a goal's tasks from a plan file",
		Long: `Populate a goal's tasks from a YAML plan file.

Plan format:
  tasks:
    - text: Set up the database schema
      description: Tables for users and sessions.
    - text: Implement the API layer
      depends_on: [1]

depends_on holds 1-based indices of earlier tasks in the same file.
Tasks already assigned or done survive re-planning; unstarted tasks are
replaced.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read plan: %w", err)
			}

			ref := planRef
			if ref == "" {
				ref = args[1]
			}
			out, err := c.PlanGoalUseCase().Execute(cmd.Context(), usecase.PlanGoalInput{
				GoalID:   args[0],
				PlanText: content,
				PlanRef:  ref,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Planned %d task(s) for goal %s\n", len(out.TaskIDs), args[0])
			for i, id := range out.TaskIDs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s\n", i+1, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&planRef, "plan-ref", "", "Reference recorded on the goal (defaults to the file path)")
	return cmd
}

func newGoalKickoffCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "kickoff <goal-id>",
		Short: "Spawn workers for every eligible task of a goal",
		Long: `Spawn a worker session for every currently eligible task of a goal.

A task is eligible when it is unassigned, not done, and all of its
dependencies are done. A goal whose own prerequisites are unmet refuses
to spawn. No eligible tasks is a valid no-op: it means the goal needs
planning, or its work is already in flight.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.KickoffUseCase().Execute(cmd.Context(), usecase.KickoffInput{GoalID: args[0]})
			if err != nil {
				return err
			}

			if len(out.Spawned) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No eligible tasks")
				return nil
			}
			for _, s := range out.Spawned {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Spawned %s for task %s\n", s.SessionKey, s.Assignment.TaskID)
			}
			return nil
		},
	}
}

func newGoalMergeCommand(c *app.Container) *cobra.Command {
	var keepWorktree bool

	cmd := &cobra.Command{
		Use:   "merge <goal-id>",
		Short: "Merge a goal branch back into the main branch",
		Long: `Merge a goal's branch back into the workspace's main branch.

A conflicting merge is aborted and reported; the main working copy is
left exactly as it was. The goal's worktree and branch are removed after
a clean merge unless --keep-worktree is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.MergeGoalUseCase().Execute(cmd.Context(), usecase.MergeGoalInput{
				GoalID:         args[0],
				RemoveWorktree: !keepWorktree,
			})
			if err != nil {
				if out != nil && out.Conflict {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Merge of %s conflicts; aborted cleanly\n", out.Branch)
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Merged %s\n", out.Branch)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepWorktree, "keep-worktree", false, "Keep the worktree and branch after merging")
	return cmd
}
