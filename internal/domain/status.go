package domain

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"     // Created, awaiting start
	TaskInProgress TaskStatus = "in-progress" // Worker session active
	TaskDone       TaskStatus = "done"        // Completed
	TaskBlocked    TaskStatus = "blocked"     // Held back before completion
)

// AllTaskStatuses returns all valid task status values.
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{TaskPending, TaskInProgress, TaskDone, TaskBlocked}
}

// Valid returns true if the status is one of the fixed set.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskDone, TaskBlocked:
		return true
	}
	return false
}

// GoalStatus represents the lifecycle state of a goal.
type GoalStatus string

const (
	GoalActive  GoalStatus = "active"
	GoalDone    GoalStatus = "done"
	GoalBlocked GoalStatus = "blocked"
)

// Valid returns true if the status is one of the fixed set.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalActive, GoalDone, GoalBlocked:
		return true
	}
	return false
}
