package usecase

import (
	"context"
	"log/slog"

	"github.com/runoshun/loom/internal/domain"
)

// PlanGoalInput contains the parameters for populating a goal from a plan.
type PlanGoalInput struct {
	GoalID   string
	PlanText []byte // Plan drafts content (YAML)
	PlanRef  string // Reference back to the plan source (optional)
}

// PlanGoalOutput contains the result of planning a goal.
type PlanGoalOutput struct {
	Goal    *domain.Goal
	TaskIDs []string // IDs of the created tasks, in plan order
}

// PlanGoal is the use case for populating a goal's task list from plan
// drafts. Draft dependency indices are translated to task IDs; a plan
// with no tasks is a terminal error, not a retry condition.
type PlanGoal struct {
	store  domain.DocumentStore
	clock  domain.Clock
	logger *slog.Logger
}

// NewPlanGoal creates a new PlanGoal use case.
func NewPlanGoal(store domain.DocumentStore, clock domain.Clock, logger *slog.Logger) *PlanGoal {
	return &PlanGoal{store: store, clock: clock, logger: logger}
}

// Execute parses the plan and replaces the goal's unstarted task list.
// A goal that already has assigned or done tasks keeps them; drafts are
// appended after.
func (uc *PlanGoal) Execute(_ context.Context, in PlanGoalInput) (*PlanGoalOutput, error) {
	drafts, err := domain.ParseTaskDrafts(in.PlanText)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	out := &PlanGoalOutput{}

	if err := uc.store.Mutate(func(doc *domain.Document) error {
		goal := doc.Goal(in.GoalID)
		if goal == nil {
			return domain.ErrGoalNotFound
		}

		// Started work survives re-planning; only untouched tasks are
		// replaced.
		var kept []*domain.Task
		for _, t := range goal.Tasks {
			if t.IsAssigned() || t.IsDone() {
				kept = append(kept, t)
			}
		}

		ids := make([]string, len(drafts))
		tasks := make([]*domain.Task, len(drafts))
		for i, draft := range drafts {
			ids[i] = uc.store.NewID("task")
			tasks[i] = &domain.Task{
				ID:          ids[i],
				Text:        draft.Text,
				Description: draft.Description,
				Status:      domain.TaskPending,
				Priority:    draft.Priority,
				Created:     now,
			}
			for _, dep := range draft.DependsOn {
				// Draft indices are 1-based and validated by the parser.
				tasks[i].DependsOn = append(tasks[i].DependsOn, ids[dep-1])
			}
		}

		goal.Tasks = append(kept, tasks...)
		if err := domain.ValidateTaskDeps(goal); err != nil {
			return err
		}
		if in.PlanRef != "" {
			goal.PlanRef = in.PlanRef
		}
		goal.Updated = now

		out.Goal = goal
		out.TaskIDs = ids
		return nil
	}); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info("goal planned", "goalId", in.GoalID, "tasks", len(out.TaskIDs))
	}
	return out, nil
}
