package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/loom/internal/domain"
)

// SetAutonomyInput contains the parameters for changing an autonomy
// override. Exactly one of TaskID/GoalID/StrandID scoping combinations is
// used per use case.
type SetAutonomyInput struct {
	StrandID string
	GoalID   string
	TaskID   string
	Mode     string // One of the fixed modes
}

// SetAutonomy is the use case for setting autonomy overrides at the
// strand, goal, or task level. The mode is validated against the fixed
// set; "not found" and "invalid mode" are distinct errors.
type SetAutonomy struct {
	store  domain.DocumentStore
	clock  domain.Clock
	logger *slog.Logger
}

// NewSetAutonomy creates a new SetAutonomy use case.
func NewSetAutonomy(store domain.DocumentStore, clock domain.Clock, logger *slog.Logger) *SetAutonomy {
	return &SetAutonomy{store: store, clock: clock, logger: logger}
}

// Strand sets the strand-level override.
func (uc *SetAutonomy) Strand(_ context.Context, in SetAutonomyInput) error {
	if !domain.ValidAutonomyMode(in.Mode) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidMode, in.Mode)
	}
	err := uc.store.Mutate(func(doc *domain.Document) error {
		strand := doc.Strand(in.StrandID)
		if strand == nil {
			return domain.ErrStrandNotFound
		}
		strand.AutonomyMode = in.Mode
		strand.Updated = uc.clock.Now()
		return nil
	})
	uc.log(err, "strand", in.StrandID, in.Mode)
	return err
}

// Goal sets the goal-level override.
func (uc *SetAutonomy) Goal(_ context.Context, in SetAutonomyInput) error {
	if !domain.ValidAutonomyMode(in.Mode) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidMode, in.Mode)
	}
	err := uc.store.Mutate(func(doc *domain.Document) error {
		goal := doc.Goal(in.GoalID)
		if goal == nil {
			return domain.ErrGoalNotFound
		}
		goal.AutonomyMode = in.Mode
		goal.Updated = uc.clock.Now()
		return nil
	})
	uc.log(err, "goal", in.GoalID, in.Mode)
	return err
}

// Task sets the task-level override.
func (uc *SetAutonomy) Task(_ context.Context, in SetAutonomyInput) error {
	if !domain.ValidAutonomyMode(in.Mode) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidMode, in.Mode)
	}
	err := uc.store.Mutate(func(doc *domain.Document) error {
		goal := doc.Goal(in.GoalID)
		if goal == nil {
			return domain.ErrGoalNotFound
		}
		task := goal.Task(in.TaskID)
		if task == nil {
			return domain.ErrTaskNotFound
		}
		task.AutonomyMode = in.Mode
		task.Updated = uc.clock.Now()
		return nil
	})
	uc.log(err, "task", in.TaskID, in.Mode)
	return err
}

func (uc *SetAutonomy) log(err error, scope, id, mode string) {
	if err == nil && uc.logger != nil {
		uc.logger.Info("autonomy override set", "scope", scope, "id", id, "mode", mode)
	}
}
