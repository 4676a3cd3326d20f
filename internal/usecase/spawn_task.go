package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/runoshun/loom/internal/domain"
)

// SpawnTaskInput contains the parameters for spawning a worker on a task.
type SpawnTaskInput struct {
	GoalID string
	TaskID string
}

// SpawnTaskOutput contains the result of spawning a worker.
type SpawnTaskOutput struct {
	SessionKey string
	Assignment domain.AssignmentContext
}

// SpawnTask is the use case for handing a task to a worker session. It
// allocates the session key, assembles the assignment context, records the
// assignment atomically, and then delivers the assignment. A task keeps at
// most one session key over its lifetime; re-spawn attempts fail with
// ErrAlreadyAssigned.
type SpawnTask struct {
	store       domain.DocumentStore
	transport   domain.SessionTransport
	clock       domain.Clock
	logger      *slog.Logger
	defaultMode string // Configured fallback autonomy mode
}

// NewSpawnTask creates a new SpawnTask use case. defaultMode is the
// configured fallback autonomy mode applied when no override is set on the
// task, goal, or strand.
func NewSpawnTask(store domain.DocumentStore, transport domain.SessionTransport, clock domain.Clock, logger *slog.Logger, defaultMode string) *SpawnTask {
	return &SpawnTask{
		store:       store,
		transport:   transport,
		clock:       clock,
		logger:      logger,
		defaultMode: defaultMode,
	}
}

// newSessionKey allocates a worker session key unique within the process.
func newSessionKey(goalID string) string {
	frag := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "loom-" + domain.IDFragment(goalID) + "-" + frag
}

// Execute spawns a worker for the task. The assignment is recorded in the
// store first (checking preconditions under the single-writer lock), then
// delivered; a failed delivery rolls the assignment back so a failed spawn
// leaves the task unassigned.
func (uc *SpawnTask) Execute(ctx context.Context, in SpawnTaskInput) (*SpawnTaskOutput, error) {
	sessionKey := newSessionKey(in.GoalID)

	var assignment domain.AssignmentContext
	if err := uc.store.Mutate(func(doc *domain.Document) error {
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
		if task.IsAssigned() {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyAssigned, task.SessionKey)
		}

		strand := doc.Strand(goal.StrandID)
		mode := domain.ResolveAutonomy(task, goal, strand, domain.AutonomyMode(uc.defaultMode))

		assignment = domain.AssignmentContext{
			SessionKey:  sessionKey,
			StrandID:    goal.StrandID,
			GoalID:      goal.ID,
			TaskID:      task.ID,
			Text:        task.Text,
			Description: task.Description,
			Directive:   domain.Directive(mode),
			PlanRef:     planReference(goal),
		}
		if goal.Worktree != nil {
			assignment.WorkDir = goal.Worktree.Path
		}

		task.SessionKey = sessionKey
		task.Status = domain.TaskInProgress
		task.Updated = uc.clock.Now()
		doc.SessionIndex[sessionKey] = domain.SessionBinding{GoalID: goal.ID}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := uc.transport.Deliver(ctx, sessionKey, assignment); err != nil {
		uc.rollback(in.GoalID, in.TaskID, sessionKey)
		return nil, fmt.Errorf("deliver assignment: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("task spawned", "goalId", in.GoalID, "taskId", in.TaskID, "sessionKey", sessionKey)
	}
	return &SpawnTaskOutput{SessionKey: sessionKey, Assignment: assignment}, nil
}

// rollback clears a recorded assignment after a failed delivery.
func (uc *SpawnTask) rollback(goalID, taskID, sessionKey string) {
	err := uc.store.Mutate(func(doc *domain.Document) error {
		goal := doc.Goal(goalID)
		if goal == nil {
			return nil
		}
		if task := goal.Task(taskID); task != nil && task.SessionKey == sessionKey {
			task.SessionKey = ""
			task.Status = domain.TaskPending
		}
		delete(doc.SessionIndex, sessionKey)
		return nil
	})
	if err != nil && uc.logger != nil {
		uc.logger.Error("spawn rollback failed", "taskId", taskID, "error", err)
	}
}

// planReference builds the assignment's reference back to the plan/goal
// that produced the task.
func planReference(goal *domain.Goal) string {
	if goal.PlanRef != "" {
		return goal.PlanRef
	}
	if goal.Notes != "" {
		return fmt.Sprintf("From goal: %s\n\n%s", goal.Title, goal.Notes)
	}
	return "From goal: " + goal.Title
}
