package domain

// AutonomyMode is the degree of approval-gating applied to a worker.
type AutonomyMode string

const (
	// AutonomyFull lets the worker proceed without approval gates.
	AutonomyFull AutonomyMode = "full"
	// AutonomyPlan requires an approved plan before execution. Default.
	AutonomyPlan AutonomyMode = "plan"
	// AutonomyStep executes one step at a time with checkpoints.
	AutonomyStep AutonomyMode = "step"
	// AutonomySupervised requires explicit sign-off for every action.
	AutonomySupervised AutonomyMode = "supervised"
)

// DefaultAutonomy is the mode used when no override is set anywhere.
const DefaultAutonomy = AutonomyPlan

// AllAutonomyModes returns the fixed set of valid modes.
func AllAutonomyModes() []AutonomyMode {
	return []AutonomyMode{AutonomyFull, AutonomyPlan, AutonomyStep, AutonomySupervised}
}

// ValidAutonomyMode returns true if s names a recognized mode.
func ValidAutonomyMode(s string) bool {
	switch AutonomyMode(s) {
	case AutonomyFull, AutonomyPlan, AutonomyStep, AutonomySupervised:
		return true
	}
	return false
}

// ResolveAutonomy walks the override hierarchy task > goal > strand and
// falls back to fallback, the configured default mode. An unrecognized
// string at any level, fallback included, is treated as absent; with no
// valid mode anywhere the built-in default applies. Any of the entity
// arguments may be nil.
func ResolveAutonomy(task *Task, goal *Goal, strand *Strand, fallback AutonomyMode) AutonomyMode {
	if task != nil && ValidAutonomyMode(task.AutonomyMode) {
		return AutonomyMode(task.AutonomyMode)
	}
	if goal != nil && ValidAutonomyMode(goal.AutonomyMode) {
		return AutonomyMode(goal.AutonomyMode)
	}
	if strand != nil && ValidAutonomyMode(strand.AutonomyMode) {
		return AutonomyMode(strand.AutonomyMode)
	}
	if ValidAutonomyMode(string(fallback)) {
		return fallback
	}
	return DefaultAutonomy
}

// directives holds the worker instruction text per mode.
var directives = map[AutonomyMode]string{
	AutonomyFull: "Autonomy: full. Proceed without approval gates. " +
		"Implement the task end to end, commit your work, and report a summary on completion.",
	AutonomyPlan: "Autonomy: plan. Before making any changes, produce a short plan " +
		"and wait for it to be approved. Only execute once the plan is accepted.",
	AutonomyStep: "Autonomy: step. Execute one step at a time. After each step, " +
		"stop at a checkpoint and wait for confirmation before continuing.",
	AutonomySupervised: "Autonomy: supervised. Every action requires explicit sign-off. " +
		"Describe each intended action and wait for approval before performing it.",
}

// Directive renders the instruction text a worker receives for a mode.
// An unrecognized mode renders the plan directive.
func Directive(mode AutonomyMode) string {
	if text, ok := directives[mode]; ok {
		return text
	}
	return directives[AutonomyPlan]
}
