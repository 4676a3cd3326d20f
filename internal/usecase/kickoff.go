package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/runoshun/loom/internal/domain"
)

// KickoffInput contains the parameters for kicking off a goal.
type KickoffInput struct {
	GoalID string
}

// KickoffOutput contains the result of a kickoff.
type KickoffOutput struct {
	Spawned []SpawnTaskOutput // One entry per newly spawned session
}

// Kickoff is the use case for spawning workers on every currently
// eligible task of a goal. A goal whose own dependencies are unmet
// refuses with ErrGoalBlocked. A goal with no eligible tasks is a valid
// no-op returning an empty list, which callers read as "needs planning"
// or "work already in flight".
type Kickoff struct {
	store   domain.DocumentStore
	spawner *SpawnTask
	logger  *slog.Logger
}

// NewKickoff creates a new Kickoff use case.
func NewKickoff(store domain.DocumentStore, spawner *SpawnTask, logger *slog.Logger) *Kickoff {
	return &Kickoff{store: store, spawner: spawner, logger: logger}
}

// Execute computes the eligible set and spawns a worker for each task.
// Eligibility is re-checked inside each spawn's store mutation, so a
// concurrent kickoff for the same goal cannot double-assign a task: the
// loser of the race gets ErrAlreadyAssigned, which is skipped here.
func (uc *Kickoff) Execute(ctx context.Context, in KickoffInput) (*KickoffOutput, error) {
	doc, err := uc.store.Load()
	if err != nil {
		return nil, err
	}

	goal := doc.Goal(in.GoalID)
	if goal == nil {
		return nil, domain.ErrGoalNotFound
	}
	if !doc.GoalUnblocked(goal) {
		return nil, domain.ErrGoalBlocked
	}

	out := &KickoffOutput{}
	for _, task := range goal.EligibleTasks() {
		spawned, err := uc.spawner.Execute(ctx, SpawnTaskInput{GoalID: goal.ID, TaskID: task.ID})
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyAssigned) {
				continue // Raced with another kickoff; the task is covered.
			}
			return nil, err
		}
		out.Spawned = append(out.Spawned, *spawned)
	}

	if uc.logger != nil {
		uc.logger.Info("kickoff", "goalId", in.GoalID, "spawned", len(out.Spawned))
	}
	return out, nil
}
