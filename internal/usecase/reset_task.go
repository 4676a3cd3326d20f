package usecase

import (
	"context"
	"log/slog"

	"github.com/runoshun/loom/internal/domain"
)

// ResetTaskInput contains the parameters for resetting a stuck task.
type ResetTaskInput struct {
	GoalID string
	TaskID string
}

// ResetTask is the operator-recovery use case for a worker that never
// completed: it clears the task's session key and returns it to pending so
// a later kickoff can respawn it. There is no automatic timeout; this is
// always an explicit operator action.
type ResetTask struct {
	store  domain.DocumentStore
	clock  domain.Clock
	logger *slog.Logger
}

// NewResetTask creates a new ResetTask use case.
func NewResetTask(store domain.DocumentStore, clock domain.Clock, logger *slog.Logger) *ResetTask {
	return &ResetTask{store: store, clock: clock, logger: logger}
}

// Execute clears the assignment. Resetting a done task is rejected; its
// completion already cascaded.
func (uc *ResetTask) Execute(_ context.Context, in ResetTaskInput) error {
	err := uc.store.Mutate(func(doc *domain.Document) error {
		goal := doc.Goal(in.GoalID)
		if goal == nil {
			return domain.ErrGoalNotFound
		}
		task := goal.Task(in.TaskID)
		if task == nil {
			return domain.ErrTaskNotFound
		}
		if task.IsDone() {
			return domain.ErrTaskAlreadyDone
		}

		delete(doc.SessionIndex, task.SessionKey)
		task.SessionKey = ""
		task.Status = domain.TaskPending
		task.Updated = uc.clock.Now()
		return nil
	})
	if err == nil && uc.logger != nil {
		uc.logger.Info("task reset", "goalId", in.GoalID, "taskId", in.TaskID)
	}
	return err
}
