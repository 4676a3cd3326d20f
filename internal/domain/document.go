package domain

// SessionBinding records which goal owns a spawned worker session.
type SessionBinding struct {
	GoalID string `json:"goalId"`
}

// Document is the single persisted structure holding all strands, goals,
// and session indices. Goals embed their tasks; referential integrity is
// enforced by validation, not by the storage format.
type Document struct {
	SessionIndex       map[string]SessionBinding `json:"sessionIndex"`
	SessionStrandIndex map[string]string         `json:"sessionStrandIndex"`
	Strands            []*Strand                 `json:"strands"`
	Goals              []*Goal                   `json:"goals"`
}

// NewDocument returns an empty document with initialized indices.
func NewDocument() *Document {
	return &Document{
		SessionIndex:       make(map[string]SessionBinding),
		SessionStrandIndex: make(map[string]string),
	}
}

// EnsureIndices initializes nil maps after JSON decoding.
func (d *Document) EnsureIndices() {
	if d.SessionIndex == nil {
		d.SessionIndex = make(map[string]SessionBinding)
	}
	if d.SessionStrandIndex == nil {
		d.SessionStrandIndex = make(map[string]string)
	}
}

// Strand returns the strand with the given ID, or nil if not found.
func (d *Document) Strand(id string) *Strand {
	for _, s := range d.Strands {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Goal returns the goal with the given ID, or nil if not found.
func (d *Document) Goal(id string) *Goal {
	for _, g := range d.Goals {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// GoalsByStrand returns the goals owned by a strand, in document order.
func (d *Document) GoalsByStrand(strandID string) []*Goal {
	var goals []*Goal
	for _, g := range d.Goals {
		if g.StrandID == strandID {
			goals = append(goals, g)
		}
	}
	return goals
}

// GoalBySession returns the goal that owns a spawned worker session.
func (d *Document) GoalBySession(sessionKey string) *Goal {
	binding, ok := d.SessionIndex[sessionKey]
	if !ok {
		return nil
	}
	return d.Goal(binding.GoalID)
}

// GoalUnblocked returns true if every goal in the goal's DependsOn set is
// done. A goal with no dependencies is always unblocked.
func (d *Document) GoalUnblocked(g *Goal) bool {
	for _, dep := range g.DependsOn {
		depGoal := d.Goal(dep)
		if depGoal == nil || depGoal.Status != GoalDone {
			return false
		}
	}
	return true
}

// ValidateGoalDeps checks a goal's DependsOn set: every referenced goal
// must exist within the same strand, and adding the edges must not form a
// cycle in the strand's goal graph.
func (d *Document) ValidateGoalDeps(g *Goal) error {
	for _, dep := range g.DependsOn {
		depGoal := d.Goal(dep)
		if depGoal == nil {
			return ErrGoalNotFound
		}
		if depGoal.StrandID != g.StrandID {
			return ErrCrossScopeDependency
		}
	}

	edges := make(map[string][]string)
	for _, other := range d.GoalsByStrand(g.StrandID) {
		if other.ID == g.ID {
			continue
		}
		edges[other.ID] = other.DependsOn
	}
	edges[g.ID] = g.DependsOn
	if hasCycle(edges) {
		return ErrCycleDetected
	}
	return nil
}

// ValidateTaskDeps checks every task's DependsOn set within a goal: each
// referenced task must exist in the same goal, and the task graph must be
// acyclic.
func ValidateTaskDeps(g *Goal) error {
	ids := make(map[string]bool, len(g.Tasks))
	for _, t := range g.Tasks {
		ids[t.ID] = true
	}

	edges := make(map[string][]string, len(g.Tasks))
	for _, t := range g.Tasks {
		for _, dep := range t.DependsOn {
			if !ids[dep] {
				return ErrCrossScopeDependency
			}
		}
		edges[t.ID] = t.DependsOn
	}
	if hasCycle(edges) {
		return ErrCycleDetected
	}
	return nil
}

// hasCycle detects a cycle in a dependency graph using three-color DFS.
func hasCycle(edges map[string][]string) bool {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // fully explored
	)
	color := make(map[string]int, len(edges))

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, dep := range edges[id] {
			switch color[dep] {
			case gray:
				return true
			case white:
				if visit(dep) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for id := range edges {
		if color[id] == white && visit(id) {
			return true
		}
	}
	return false
}
