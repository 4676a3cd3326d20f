package usecase

import (
	"context"

	"github.com/runoshun/loom/internal/domain"
)

// StrandStatusInput contains the parameters for the strand status query.
type StrandStatusInput struct {
	StrandID string
}

// GoalStatusView is the per-goal slice of the status report.
// Fields are ordered to minimize memory padding.
type GoalStatusView struct {
	Goal      *domain.Goal
	Branch    domain.BranchStatus
	BranchErr string // Branch status lookup failure, for display
	Eligible  int    // Tasks currently eligible for kickoff
	DoneTasks int
	HasBranch bool
	Blocked   bool // Goal-level dependencies unmet
}

// StrandStatusOutput contains the assembled status report.
type StrandStatusOutput struct {
	Strand *domain.Strand
	Goals  []GoalStatusView
}

// StrandStatus is the use case for the status display: per goal, task
// progress, eligibility, goal-level blocking, and, for goals with a
// worktree, commit counts relative to the main branch.
type StrandStatus struct {
	store      domain.DocumentStore
	workspaces domain.WorkspaceManager
}

// NewStrandStatus creates a new StrandStatus use case.
func NewStrandStatus(store domain.DocumentStore, workspaces domain.WorkspaceManager) *StrandStatus {
	return &StrandStatus{store: store, workspaces: workspaces}
}

// Execute assembles the report from a single document load; branch
// inspection runs read-only against the workspace.
func (uc *StrandStatus) Execute(_ context.Context, in StrandStatusInput) (*StrandStatusOutput, error) {
	doc, err := uc.store.Load()
	if err != nil {
		return nil, err
	}

	strand := doc.Strand(in.StrandID)
	if strand == nil {
		return nil, domain.ErrStrandNotFound
	}

	out := &StrandStatusOutput{Strand: strand}
	for _, goal := range doc.GoalsByStrand(strand.ID) {
		view := GoalStatusView{
			Goal:     goal,
			Eligible: len(goal.EligibleTasks()),
			Blocked:  !doc.GoalUnblocked(goal),
		}
		for _, t := range goal.Tasks {
			if t.IsDone() {
				view.DoneTasks++
			}
		}
		if goal.Worktree != nil && strand.HasWorkspace() {
			view.HasBranch = true
			status, err := uc.workspaces.BranchStatus(strand.Workspace.RootPath, goal.Worktree.BranchName)
			if err != nil {
				view.BranchErr = err.Error()
			} else {
				view.Branch = status
			}
		}
		out.Goals = append(out.Goals, view)
	}
	return out, nil
}
