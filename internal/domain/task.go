// Package domain contains core business entities and interfaces.
package domain

import "time"

// Task is the smallest schedulable unit of work within a goal.
// It is assigned to at most one worker session over its lifetime.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created      time.Time  `json:"created"`
	Updated      time.Time  `json:"updated,omitzero"`
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	Description  string     `json:"description,omitempty"`
	Status       TaskStatus `json:"status"`
	SessionKey   string     `json:"sessionKey,omitempty"`   // Worker session key (set at most once)
	Summary      string     `json:"summary,omitempty"`      // Filled on completion
	AutonomyMode string     `json:"autonomyMode,omitempty"` // Autonomy override (empty = inherit)
	DependsOn    []string   `json:"dependsOn,omitempty"`    // Task IDs within the same goal
	Priority     int        `json:"priority,omitempty"`
	Done         bool       `json:"done"` // Kept consistent with Status == done
}

// IsAssigned returns true if the task has been handed to a worker session.
func (t *Task) IsAssigned() bool {
	return t.SessionKey != ""
}

// IsDone returns true if the task has been completed.
func (t *Task) IsDone() bool {
	return t.Status == TaskDone
}

// MarkDone transitions the task to done and records the completion summary.
// Calling it on an already-done task is a no-op.
func (t *Task) MarkDone(summary string, now time.Time) bool {
	if t.IsDone() {
		return false
	}
	t.Status = TaskDone
	t.Done = true
	if summary != "" {
		t.Summary = summary
	}
	t.Updated = now
	return true
}
