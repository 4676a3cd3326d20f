// Package cli provides the command-line interface for loom.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/runoshun/loom/internal/app"
)

// Command group IDs.
const (
	groupSetup   = "setup"
	groupStrand  = "strand"
	groupGoal    = "goal"
	groupSession = "session"
)

// NewRootCommand creates the root command for loom.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "loom",
		Short: "Goal and task orchestration for AI coding agents",
		Long: `loom coordinates AI coding agents working toward long-running goals.

Work is organized into strands (persistent work streams), goals within a
strand, and tasks within a goal. Each strand can own a git workspace; each
goal gets an isolated worktree on its own branch, merged back when done.
Task dependencies gate scheduling: kickoff spawns a worker session for
every task whose prerequisites are complete, and completions cascade to
the next eligible work.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupStrand, Title: "Strand Management:"},
		&cobra.Group{ID: groupGoal, Title: "Goal & Task Management:"},
		&cobra.Group{ID: groupSession, Title: "Session Management:"},
	)

	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	strandCmd := newStrandCommand(c)
	strandCmd.GroupID = groupStrand

	goalCmd := newGoalCommand(c)
	goalCmd.GroupID = groupGoal

	taskCmd := newTaskCommand(c)
	taskCmd.GroupID = groupGoal

	autonomyCmd := newAutonomyCommand(c)
	autonomyCmd.GroupID = groupGoal

	sessionCmd := newSessionCommand(c)
	sessionCmd.GroupID = groupSession

	root.AddCommand(initCmd, strandCmd, goalCmd, taskCmd, autonomyCmd, sessionCmd)
	return root
}
