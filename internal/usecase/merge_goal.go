package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/loom/internal/domain"
)

// MergeGoalInput contains the parameters for merging a goal branch.
type MergeGoalInput struct {
	GoalID         string
	RemoveWorktree bool // Clean up the worktree and branch after a successful merge
}

// MergeGoalOutput contains the result of merging a goal branch.
type MergeGoalOutput struct {
	Branch   string
	Merged   bool
	Conflict bool
}

// MergeGoal is the use case for consolidating a finished goal branch back
// onto the main line. A conflicting merge is surfaced, never auto-resolved;
// the repository is left unchanged.
type MergeGoal struct {
	store      domain.DocumentStore
	workspaces domain.WorkspaceManager
	clock      domain.Clock
	logger     *slog.Logger
}

// NewMergeGoal creates a new MergeGoal use case.
func NewMergeGoal(store domain.DocumentStore, workspaces domain.WorkspaceManager, clock domain.Clock, logger *slog.Logger) *MergeGoal {
	return &MergeGoal{
		store:      store,
		workspaces: workspaces,
		clock:      clock,
		logger:     logger,
	}
}

// Execute reads the goal's workspace coordinates, runs the merge outside
// the store lock, and records the worktree removal afterwards.
func (uc *MergeGoal) Execute(ctx context.Context, in MergeGoalInput) (*MergeGoalOutput, error) {
	doc, err := uc.store.Load()
	if err != nil {
		return nil, err
	}

	goal := doc.Goal(in.GoalID)
	if goal == nil {
		return nil, domain.ErrGoalNotFound
	}
	if goal.Worktree == nil {
		return nil, domain.ErrNoWorktree
	}
	strand := doc.Strand(goal.StrandID)
	if strand == nil || !strand.HasWorkspace() {
		return nil, domain.ErrNoWorkspace
	}

	workspacePath := strand.Workspace.RootPath
	branch := goal.Worktree.BranchName

	res := uc.workspaces.MergeGoalBranch(ctx, workspacePath, branch)
	if res.Conflict {
		if uc.logger != nil {
			uc.logger.Warn("merge conflict", "goalId", in.GoalID, "branch", branch)
		}
		return &MergeGoalOutput{Branch: branch, Conflict: true}, fmt.Errorf("%w: %s", domain.ErrMergeConflict, res.Err)
	}
	if !res.OK {
		return nil, fmt.Errorf("merge %s: %s", branch, res.Err)
	}

	out := &MergeGoalOutput{Branch: branch, Merged: true}

	if in.RemoveWorktree {
		if op := uc.workspaces.RemoveGoalWorktree(ctx, workspacePath, goal.ID, branch); !op.OK {
			return out, fmt.Errorf("remove worktree: %s", op.Err)
		}
		if err := uc.store.Mutate(func(doc *domain.Document) error {
			if g := doc.Goal(in.GoalID); g != nil {
				g.Worktree = nil
				g.Updated = uc.clock.Now()
			}
			return nil
		}); err != nil {
			return out, err
		}
	}

	if uc.logger != nil {
		uc.logger.Info("goal branch merged", "goalId", in.GoalID, "branch", branch)
	}
	return out, nil
}
