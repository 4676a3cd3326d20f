package domain

import "time"

// Worktree records the isolated working copy provisioned for a goal.
type Worktree struct {
	CreatedAt  time.Time `json:"createdAt"`
	Path       string    `json:"path"`
	BranchName string    `json:"branchName"`
}

// Goal is a unit of project scope within a strand. It owns an ordered set
// of tasks and, optionally, an isolated branch/worktree.
// Fields are ordered to minimize memory padding.
type Goal struct {
	Created      time.Time  `json:"created"`
	Updated      time.Time  `json:"updated,omitzero"`
	Deadline     time.Time  `json:"deadline,omitzero"`
	Worktree     *Worktree  `json:"worktree,omitempty"`
	ID           string     `json:"id"`
	StrandID     string     `json:"strandId"`
	Title        string     `json:"title"`
	Notes        string     `json:"notes,omitempty"`
	Status       GoalStatus `json:"status"`
	AutonomyMode string     `json:"autonomyMode,omitempty"` // Autonomy override (empty = inherit)
	PlanRef      string     `json:"planRef,omitempty"`      // Reference to the plan text that generated the tasks
	Tasks        []*Task    `json:"tasks"`
	DependsOn    []string   `json:"dependsOn,omitempty"` // Goal IDs within the same strand
	Priority     int        `json:"priority,omitempty"`
	Phase        int        `json:"phase,omitempty"` // Ordering hint
	Completed    bool       `json:"completed"`
}

// Task returns the task with the given ID, or nil if not found.
func (g *Goal) Task(taskID string) *Task {
	for _, t := range g.Tasks {
		if t.ID == taskID {
			return t
		}
	}
	return nil
}

// AllTasksDone returns true if the goal has tasks and every one is done.
func (g *Goal) AllTasksDone() bool {
	if len(g.Tasks) == 0 {
		return false
	}
	for _, t := range g.Tasks {
		if !t.IsDone() {
			return false
		}
	}
	return true
}

// EligibleTasks returns the tasks that may be handed to a worker now:
// unassigned, not done, and with every dependency already done.
// Independent tasks become eligible together (parallel fan-out).
func (g *Goal) EligibleTasks() []*Task {
	done := make(map[string]bool, len(g.Tasks))
	for _, t := range g.Tasks {
		if t.IsDone() {
			done[t.ID] = true
		}
	}

	var eligible []*Task
	for _, t := range g.Tasks {
		if t.IsAssigned() || t.IsDone() {
			continue
		}
		ready := true
		for _, dep := range t.DependsOn {
			if !done[dep] {
				ready = false
				break
			}
		}
		if ready {
			eligible = append(eligible, t)
		}
	}
	return eligible
}

// MarkDone transitions the goal to done. Calling it on an already-done
// goal is a no-op.
func (g *Goal) MarkDone(now time.Time) bool {
	if g.Status == GoalDone {
		return false
	}
	g.Status = GoalDone
	g.Completed = true
	g.Updated = now
	return true
}
