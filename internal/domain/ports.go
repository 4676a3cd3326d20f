package domain

import (
	"context"
	"time"
)

// DocumentStore persists the orchestration document. Implementations must
// serialize read-mutate-write cycles so concurrent callers cannot lose
// updates.
type DocumentStore interface {
	// Load returns a mutation-safe working copy of the document.
	Load() (*Document, error)

	// Save persists the document, replacing prior state.
	Save(doc *Document) error

	// Mutate runs fn on the current document under the single-writer lock
	// and persists the result. Returning an error from fn aborts the write.
	Mutate(fn func(doc *Document) error) error

	// NewID returns a globally unique, prefixed identifier.
	NewID(prefix string) string

	// Initialize creates an empty document if none exists.
	Initialize() error
}

// WorkspaceResult reports the outcome of strand workspace creation.
type WorkspaceResult struct {
	Path    string // Workspace root directory
	Err     string // Failure description when OK is false
	OK      bool
	Existed bool // True when the workspace already existed (idempotent call)
}

// WorktreeResult reports the outcome of goal worktree creation.
type WorktreeResult struct {
	Path    string // Worktree directory
	Branch  string // Branch name, possibly disambiguated
	Err     string
	OK      bool
	Existed bool
}

// OpResult reports the outcome of a cleanup operation.
type OpResult struct {
	Err string
	OK  bool
}

// MergeResult reports the outcome of merging a goal branch into main.
type MergeResult struct {
	Err      string
	OK       bool
	Merged   bool
	Conflict bool // True when the merge was aborted due to conflicting changes
}

// BranchStatus reports commit counts relative to the main branch.
type BranchStatus struct {
	Ahead  int
	Behind int
}

// WorkspaceManager maps strand/goal identities to isolated version-control
// state and reconciles it back. Operations never panic or leak raw tool
// errors; failures are reported through result fields or error returns.
type WorkspaceManager interface {
	// CreateStrandWorkspace initializes (or clones) a repository for a
	// strand under baseDir. Idempotent.
	CreateStrandWorkspace(ctx context.Context, baseDir, strandID, name, remoteURL string) WorkspaceResult

	// CreateGoalWorktree creates an isolated working copy for a goal
	// branch inside the workspace. Idempotent.
	CreateGoalWorktree(ctx context.Context, workspacePath, goalID, title string) WorktreeResult

	// RemoveGoalWorktree removes the worktree and deletes the branch.
	// No-op success when nothing exists.
	RemoveGoalWorktree(ctx context.Context, workspacePath, goalID, branchName string) OpResult

	// RemoveStrandWorkspace recursively deletes the workspace.
	// No-op success when absent.
	RemoveStrandWorkspace(workspacePath string) OpResult

	// MainBranch returns the repository's default branch name.
	MainBranch(workspacePath string) (string, error)

	// MergeGoalBranch merges the goal branch into main. A conflicting
	// merge is aborted before returning, leaving the tree unchanged.
	MergeGoalBranch(ctx context.Context, workspacePath, branchName string) MergeResult

	// BranchStatus returns commit counts ahead of and behind main.
	BranchStatus(workspacePath, branchName string) (BranchStatus, error)
}

// AssignmentContext is the worker's assignment, assembled at spawn time.
type AssignmentContext struct {
	SessionKey  string `json:"sessionKey"`
	StrandID    string `json:"strandId"`
	GoalID      string `json:"goalId"`
	TaskID      string `json:"taskId"`
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
	Directive   string `json:"directive"`
	PlanRef     string `json:"planRef,omitempty"` // Plan/goal description that produced the task
	WorkDir     string `json:"workDir,omitempty"` // Goal worktree, when provisioned
}

// SessionTransport delivers an assignment to an external worker session.
// The core only requires "accepted"; retries and acknowledgement beyond
// that are the collaborator's concern.
type SessionTransport interface {
	Deliver(ctx context.Context, sessionKey string, assignment AssignmentContext) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
