package domain

import "errors"

// Domain errors.
var (
	ErrStrandNotFound       = errors.New("strand not found")
	ErrGoalNotFound         = errors.New("goal not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrInvalidMode          = errors.New("invalid autonomy mode")
	ErrAlreadyAssigned      = errors.New("task already has a session")
	ErrCrossScopeDependency = errors.New("dependency references an entity outside its owning scope")
	ErrCycleDetected        = errors.New("dependency cycle detected")
	ErrGoalBlocked          = errors.New("goal is blocked by unmet dependencies")
	ErrMergeConflict        = errors.New("merge conflict")
	ErrNoPlanDetected       = errors.New("no plan detected")
	ErrNoWorkspace          = errors.New("strand has no workspace")
	ErrNoWorktree           = errors.New("goal has no worktree")
	ErrEmptyName            = errors.New("name cannot be empty")
	ErrEmptyText            = errors.New("text cannot be empty")
	ErrNotInitialized       = errors.New("loom not initialized (run 'loom init' first)")
	ErrSessionNotFound      = errors.New("session not found")
	ErrTaskAlreadyDone      = errors.New("task is already done")
)
