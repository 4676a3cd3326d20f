package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/loom/internal/domain"
)

// NewGoalInput contains the parameters for creating a goal.
// Fields are ordered to minimize memory padding.
type NewGoalInput struct {
	StrandID       string   // Owning strand (required)
	Title          string   // Goal title (required)
	Notes          string   // Notes (optional)
	DependsOn      []string // Goal IDs within the same strand
	Priority       int
	Phase          int  // Ordering hint
	CreateWorktree bool // Provision an isolated worktree now
}

// NewGoalOutput contains the result of creating a goal.
type NewGoalOutput struct {
	Goal *domain.Goal
}

// NewGoal is the use case for creating a goal within a strand. Dependency
// references are validated at creation: they must stay inside the strand
// and must not form a cycle.
type NewGoal struct {
	store      domain.DocumentStore
	workspaces domain.WorkspaceManager
	clock      domain.Clock
	logger     *slog.Logger
}

// NewNewGoal creates a new NewGoal use case.
func NewNewGoal(store domain.DocumentStore, workspaces domain.WorkspaceManager, clock domain.Clock, logger *slog.Logger) *NewGoal {
	return &NewGoal{
		store:      store,
		workspaces: workspaces,
		clock:      clock,
		logger:     logger,
	}
}

// Execute creates the goal. The store mutation happens first; worktree
// provisioning runs afterwards, outside the store lock.
func (uc *NewGoal) Execute(ctx context.Context, in NewGoalInput) (*NewGoalOutput, error) {
	if in.Title == "" {
		return nil, domain.ErrEmptyName
	}

	goal := &domain.Goal{
		ID:        uc.store.NewID("goal"),
		StrandID:  in.StrandID,
		Title:     in.Title,
		Notes:     in.Notes,
		Status:    domain.GoalActive,
		DependsOn: in.DependsOn,
		Priority:  in.Priority,
		Phase:     in.Phase,
		Created:   uc.clock.Now(),
	}

	var workspacePath string
	if err := uc.store.Mutate(func(doc *domain.Document) error {
		strand := doc.Strand(in.StrandID)
		if strand == nil {
			return domain.ErrStrandNotFound
		}
		if err := doc.ValidateGoalDeps(goal); err != nil {
			return err
		}
		if strand.HasWorkspace() {
			workspacePath = strand.Workspace.RootPath
		}
		doc.Goals = append(doc.Goals, goal)
		return nil
	}); err != nil {
		return nil, err
	}

	if in.CreateWorktree {
		if workspacePath == "" {
			return nil, domain.ErrNoWorkspace
		}
		res := uc.workspaces.CreateGoalWorktree(ctx, workspacePath, goal.ID, goal.Title)
		if !res.OK {
			return nil, fmt.Errorf("create worktree: %s", res.Err)
		}
		worktree := &domain.Worktree{
			Path:       res.Path,
			BranchName: res.Branch,
			CreatedAt:  uc.clock.Now(),
		}
		if err := uc.store.Mutate(func(doc *domain.Document) error {
			g := doc.Goal(goal.ID)
			if g == nil {
				return domain.ErrGoalNotFound
			}
			g.Worktree = worktree
			return nil
		}); err != nil {
			return nil, err
		}
		goal.Worktree = worktree
	}

	if uc.logger != nil {
		uc.logger.Info("goal created", "goalId", goal.ID, "strandId", goal.StrandID, "title", goal.Title)
	}
	return &NewGoalOutput{Goal: goal}, nil
}
