package usecase

import (
	"context"
	"log/slog"

	"github.com/runoshun/loom/internal/domain"
)

// CompleteTaskInput contains the parameters for completing a task.
type CompleteTaskInput struct {
	GoalID  string
	TaskID  string
	Summary string // Completion summary recorded on the task
}

// CompleteTaskOutput contains the result of completing a task.
// Fields are ordered to minimize memory padding.
type CompleteTaskOutput struct {
	Task           *domain.Task
	UnblockedGoals []string          // Strand goals whose dependencies are now all done
	Spawned        []SpawnTaskOutput // Next tasks advanced by the cascade
	GoalDone       bool              // True when this completion finished the goal
	Changed        bool              // False when the task was already done (idempotent repeat)
}

// CompleteTask is the use case applied when a worker reports completion.
// It marks the task done and cascades: the goal advances to its next
// eligible tasks, or, when every task is done, the goal completes and
// dependent goals in the strand become kickoff-eligible. A repeated
// completion for the same task is a no-op and never double-triggers the
// cascade.
type CompleteTask struct {
	store   domain.DocumentStore
	kickoff *Kickoff
	clock   domain.Clock
	logger  *slog.Logger
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(store domain.DocumentStore, kickoff *Kickoff, clock domain.Clock, logger *slog.Logger) *CompleteTask {
	return &CompleteTask{
		store:   store,
		kickoff: kickoff,
		clock:   clock,
		logger:  logger,
	}
}

// Execute records the completion in one store mutation, then runs the
// cascade outside the lock.
func (uc *CompleteTask) Execute(ctx context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	out := &CompleteTaskOutput{}

	if err := uc.store.Mutate(func(doc *domain.Document) error {
		goal := doc.Goal(in.GoalID)
		if goal == nil {
			return domain.ErrGoalNotFound
		}
		task := goal.Task(in.TaskID)
		if task == nil {
			return domain.ErrTaskNotFound
		}

		now := uc.clock.Now()
		out.Task = task
		out.Changed = task.MarkDone(in.Summary, now)
		if !out.Changed {
			return nil // Already done; the cascade ran on the first call.
		}

		if goal.AllTasksDone() {
			goal.MarkDone(now)
			out.GoalDone = true

			// Goal-level cascade: dependents of this goal whose
			// dependency sets are now fully done become eligible.
			for _, other := range doc.GoalsByStrand(goal.StrandID) {
				if other.ID == goal.ID || other.Status == domain.GoalDone {
					continue
				}
				if dependsOn(other, goal.ID) && doc.GoalUnblocked(other) {
					out.UnblockedGoals = append(out.UnblockedGoals, other.ID)
				}
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if out.Changed && !out.GoalDone {
		// Advance the goal to its next eligible task(s).
		kicked, err := uc.kickoff.Execute(ctx, KickoffInput{GoalID: in.GoalID})
		if err != nil {
			return nil, err
		}
		out.Spawned = kicked.Spawned
	}

	if uc.logger != nil && out.Changed {
		uc.logger.Info("task completed",
			"goalId", in.GoalID, "taskId", in.TaskID,
			"goalDone", out.GoalDone, "spawned", len(out.Spawned), "unblocked", len(out.UnblockedGoals))
	}
	return out, nil
}

// dependsOn reports whether goal lists dep in its DependsOn set.
func dependsOn(goal *domain.Goal, dep string) bool {
	for _, id := range goal.DependsOn {
		if id == dep {
			return true
		}
	}
	return false
}
